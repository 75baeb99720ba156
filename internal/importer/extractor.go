package importer

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Candidate key names for the object form, in priority order. The order is
// part of the import contract: the first present key wins even if a later
// one holds a better value.
var (
	questionKeys = []string{"q", "question", "prompt", "ask", "query", "Q"}
	answerKeys   = []string{"a", "answer", "response", "text", "A"}
)

// Pair is one extracted question/answer record. Tags is nil when absent or
// empty after trimming.
type Pair struct {
	Question string
	Answer   string
	Tags     []string
}

// extractPair turns one decoded JSON value into a Pair. Records come in two
// forms: objects with question/answer-ish keys, and tuples [q, a, tags?].
// Anything else, or a record whose question or answer trims to empty, is
// rejected.
func extractPair(v any) (Pair, bool) {
	switch rec := v.(type) {
	case map[string]any:
		return extractObjectPair(rec)
	case []any:
		return extractTuplePair(rec)
	default:
		return Pair{}, false
	}
}

func extractObjectPair(rec map[string]any) (Pair, bool) {
	qv, ok := lookupFirst(rec, questionKeys)
	if !ok {
		return Pair{}, false
	}
	av, ok := lookupFirst(rec, answerKeys)
	if !ok {
		return Pair{}, false
	}
	q := coerceString(qv)
	a := coerceString(av)
	if q == "" || a == "" {
		return Pair{}, false
	}
	p := Pair{Question: q, Answer: a}
	if raw, ok := rec["tags"].([]any); ok {
		p.Tags = coerceTags(raw)
	}
	return p, true
}

func extractTuplePair(rec []any) (Pair, bool) {
	if len(rec) < 2 {
		return Pair{}, false
	}
	q := coerceString(rec[0])
	a := coerceString(rec[1])
	if q == "" || a == "" {
		return Pair{}, false
	}
	p := Pair{Question: q, Answer: a}
	if len(rec) > 2 {
		if raw, ok := rec[2].([]any); ok {
			p.Tags = coerceTags(raw)
		} else {
			p.Tags = splitTags(coerceString(rec[2]))
		}
	}
	return p, true
}

// lookupFirst returns the value of the first candidate key present in the
// record. Presence counts even when the value is null; emptiness is judged
// after coercion.
func lookupFirst(rec map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := rec[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// coerceString renders a decoded JSON value in its natural textual form and
// trims it. null becomes the empty string; composite values fall back to
// their compact JSON encoding.
func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(b))
	}
}

func coerceTags(raw []any) []string {
	var tags []string
	for _, v := range raw {
		if s := coerceString(v); s != "" {
			tags = append(tags, s)
		}
	}
	return tags
}

func splitTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}
