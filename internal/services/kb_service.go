package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ials-labs/botforge/internal/core"
	"github.com/ials-labs/botforge/internal/importer"
	"github.com/ials-labs/botforge/internal/models"
	"github.com/ials-labs/botforge/internal/session"
)

// KBService orchestrates the knowledge-base workflow: imports into the
// session, payload assembly, the submission gate, and backend calls.
type KBService struct {
	session *session.Session
	backend core.BackendClient
}

func NewKBService(sess *session.Session, backend core.BackendClient) *KBService {
	return &KBService{session: sess, backend: backend}
}

func (s *KBService) Session() *session.Session { return s.session }

// ImportSummary reports what one normalization merged into the session.
type ImportSummary struct {
	Source      string `json:"source,omitempty"`
	PairsAdded  int    `json:"pairs_added"`
	MetaPatched bool   `json:"meta_patched"`
}

// ImportText normalizes raw pasted text and merges the result. A
// *importer.ParseError comes back untouched so callers can classify it.
func (s *KBService) ImportText(ctx context.Context, text string) (ImportSummary, error) {
	res, err := importer.Normalize(text)
	if err != nil {
		return ImportSummary{}, err
	}
	added, patched := s.session.ApplyImport(ctx, res)
	return ImportSummary{PairsAdded: added, MetaPatched: patched}, nil
}

// ImportFiles reads the given files concurrently, then merges them into the
// session one at a time in argument order so imports stay deterministic.
func (s *KBService) ImportFiles(ctx context.Context, paths []string) ([]ImportSummary, error) {
	texts := make([]string, len(paths))
	g, readCtx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := readCtx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			texts[i] = string(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summaries := make([]ImportSummary, 0, len(paths))
	for i, text := range texts {
		res, err := importer.Normalize(text)
		if err != nil {
			return summaries, fmt.Errorf("%s: %w", paths[i], err)
		}
		added, patched := s.session.ApplyImport(ctx, res)
		summaries = append(summaries, ImportSummary{Source: paths[i], PairsAdded: added, MetaPatched: patched})
	}
	return summaries, nil
}

// Export assembles the submission payload from the current working set
// without any validation; preview and submission share this path.
func (s *KBService) Export() models.ExportPayload {
	ws := s.session.Snapshot()
	return models.BuildExportPayload(ws.Meta, ws.Pairs, time.Now())
}

// Validate runs the submission gate against the current working set.
func (s *KBService) Validate() error {
	ws := s.session.Snapshot()
	return models.CheckSubmittable(ws.Meta, ws.Pairs)
}

// Submit gates and then posts the payload. The working set is untouched
// either way; a failed submission can simply be retried.
func (s *KBService) Submit(ctx context.Context) (map[string]any, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	payload := s.Export()
	return s.backend.SubmitBot(ctx, &payload)
}

// BackendHealth probes the provisioning backend.
func (s *KBService) BackendHealth(ctx context.Context) core.HealthStatus {
	return s.backend.CheckHealth(ctx)
}
