package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ials-labs/botforge/internal/core"
	"github.com/ials-labs/botforge/internal/models"
)

// snippetLimit caps how much of an error response body gets surfaced.
const snippetLimit = 200

// HTTPError is a non-2xx reply from the provisioning backend, carrying the
// status code and the start of the response body.
type HTTPError struct {
	StatusCode int
	Snippet    string
}

func (e *HTTPError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Snippet)
}

// Client talks to the chatbot provisioning service over plain HTTP. No
// retries; failed submissions leave the working set intact for another try.
type Client struct {
	base string
	http *http.Client
}

func New(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{},
	}
}

// SubmitBot POSTs the export payload to {base}/chatbots. Any 2xx counts as
// success; the reply body is decoded when it is JSON but its content is
// informational only.
func (c *Client) SubmitBot(ctx context.Context, payload *models.ExportPayload) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/chatbots", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &HTTPError{StatusCode: resp.StatusCode, Snippet: snippet(string(raw))}
	}

	var reply map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&reply)
	return reply, nil
}

// CheckHealth probes GET {base}/health. Reachable means a 2xx reply whose
// body parses as JSON; anything else is unreachable.
func (c *Client) CheckHealth(ctx context.Context) core.HealthStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/health", nil)
	if err != nil {
		return core.HealthUnreachable
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return core.HealthUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return core.HealthUnreachable
	}
	var probe any
	if err := json.NewDecoder(resp.Body).Decode(&probe); err != nil {
		return core.HealthUnreachable
	}
	return core.HealthOK
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) > snippetLimit {
		return string(runes[:snippetLimit])
	}
	return s
}
