package importer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ials-labs/botforge/internal/models"
)

// Wrapper keys recognized by the wrapped-object strategy, in priority order.
var wrapperKeys = []string{"pairs", "data", "faqs", "items", "records"}

// ParseError is returned when every strategy is exhausted without producing
// a single pair. Individual malformed records never fail an import; only a
// zero-pair result does.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "import: " + e.Reason
}

// Result is a successful normalization: the canonical pair list plus an
// optional metadata patch recovered from a full export payload.
type Result struct {
	MetaPatch *models.MetadataPatch
	Pairs     []Pair
}

// Hand-edited JSON routinely carries a trailing comma before a closing
// bracket; strip those once before any parse attempt.
var trailingComma = regexp.MustCompile(`,\s*([\]}])`)

func sanitize(raw string) string {
	return trailingComma.ReplaceAllString(raw, "$1")
}

// Normalize turns raw text of unknown shape into a canonical pair list. The
// recognized shapes are tried in a fixed order and the first structural
// match wins:
//
//  1. full export payload (object with "bot" and "pairs")
//  2. top-level JSON array of records
//  3. object wrapping a record array under a known key
//  4. JSONL, one record per line, only when 1-3 did not match
func Normalize(raw string) (*Result, error) {
	text := sanitize(raw)

	var top any
	if err := json.Unmarshal([]byte(text), &top); err == nil {
		switch v := top.(type) {
		case map[string]any:
			if res, ok, err := fromExport(v); ok {
				return res, err
			}
			if res, ok, err := fromWrapped(v); ok {
				return res, err
			}
		case []any:
			return fromArray(v)
		}
	}

	if res, ok := fromLines(text); ok {
		return res, nil
	}
	return nil, &ParseError{Reason: "unsupported format: expected an export payload, an array of records, a wrapped object, or JSONL"}
}

// fromExport handles the full export shape: an object carrying both a "bot"
// object and a "pairs" array. It is the only strategy that yields a
// metadata patch.
func fromExport(obj map[string]any) (*Result, bool, error) {
	bot, okBot := obj["bot"].(map[string]any)
	rawPairs, okPairs := obj["pairs"].([]any)
	if !okBot || !okPairs {
		return nil, false, nil
	}
	pairs := extractAll(rawPairs)
	if len(pairs) == 0 {
		return nil, true, &ParseError{Reason: "export payload contained no valid pairs"}
	}
	return &Result{MetaPatch: metaPatchFrom(bot), Pairs: pairs}, true, nil
}

func fromArray(arr []any) (*Result, error) {
	pairs := extractAll(arr)
	if len(pairs) == 0 {
		return nil, &ParseError{Reason: "array contained no valid pairs"}
	}
	return &Result{Pairs: pairs}, nil
}

// fromWrapped handles objects that wrap the record array under a known key;
// the first recognized key holding an array is used exclusively.
func fromWrapped(obj map[string]any) (*Result, bool, error) {
	for _, key := range wrapperKeys {
		arr, ok := obj[key].([]any)
		if !ok {
			continue
		}
		pairs := extractAll(arr)
		if len(pairs) == 0 {
			return nil, true, &ParseError{Reason: fmt.Sprintf("no valid pairs under %q", key)}
		}
		return &Result{Pairs: pairs}, true, nil
	}
	return nil, false, nil
}

// fromLines is the JSONL fallback: every non-empty line parsed as an
// independent record, unparseable or rejected lines silently dropped. A
// single-line input never matches; whatever it was, the whole-text
// strategies already had their shot at it.
func fromLines(text string) (*Result, bool) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil, false
	}
	var pairs []Pair
	for _, line := range lines {
		var rec any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		if p, ok := extractPair(rec); ok {
			pairs = append(pairs, p)
		}
	}
	if len(pairs) == 0 {
		return nil, false
	}
	return &Result{Pairs: pairs}, true
}

func extractAll(arr []any) []Pair {
	var pairs []Pair
	for _, rec := range arr {
		if p, ok := extractPair(rec); ok {
			pairs = append(pairs, p)
		}
	}
	return pairs
}

// metaPatchFrom maps the snake_case bot object back onto metadata fields.
// String identity fields are only patched when present in the payload;
// model names and sampling parameters always patch, falling back to the
// defaults when absent or of the wrong type.
func metaPatchFrom(bot map[string]any) *models.MetadataPatch {
	patch := &models.MetadataPatch{}
	if v, ok := bot["lab"]; ok {
		patch.Lab = ptr(coerceString(v))
	}
	if v, ok := bot["name"]; ok {
		patch.BotName = ptr(coerceString(v))
	}
	if v, ok := bot["owner_email"]; ok {
		patch.OwnerEmail = ptr(coerceString(v))
	}
	if v, ok := bot["description"]; ok {
		patch.Description = ptr(coerceString(v))
	}

	patch.BaseModel = ptr(stringOr(bot["model"], models.DefaultBaseModel))
	patch.EmbedModel = ptr(stringOr(bot["embed_model"], models.DefaultEmbedModel))
	patch.Temperature = ptr(numberOr(bot["temperature"], models.DefaultTemperature))
	patch.TopP = ptr(numberOr(bot["top_p"], models.DefaultTopP))
	return patch
}

func stringOr(v any, def string) string {
	if s, ok := v.(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return def
}

func numberOr(v any, def float64) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return def
}

func ptr[T any](v T) *T { return &v }
