package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractObjectPair(t *testing.T) {
	p, ok := extractPair(map[string]any{"question": "Q1", "answer": "A1", "tags": []any{}})
	require.True(t, ok)
	assert.Equal(t, "Q1", p.Question)
	assert.Equal(t, "A1", p.Answer)
	assert.Nil(t, p.Tags, "empty tag list normalizes to absent")
}

func TestExtractObjectPairTrims(t *testing.T) {
	p, ok := extractPair(map[string]any{"q": " x ", "a": " y "})
	require.True(t, ok)
	assert.Equal(t, "x", p.Question)
	assert.Equal(t, "y", p.Answer)
}

func TestExtractObjectPairKeyPriority(t *testing.T) {
	// "q" outranks "question", "a" outranks "text".
	p, ok := extractPair(map[string]any{
		"q": "short", "question": "long",
		"a": "first", "text": "ignored",
	})
	require.True(t, ok)
	assert.Equal(t, "short", p.Question)
	assert.Equal(t, "first", p.Answer)
}

func TestExtractObjectPairRejectsMissingAnswerKey(t *testing.T) {
	_, ok := extractPair(map[string]any{"question": "orphan"})
	assert.False(t, ok)
}

func TestExtractObjectPairRejectsEmptyAfterTrim(t *testing.T) {
	_, ok := extractPair(map[string]any{"q": "  ", "a": "fine"})
	assert.False(t, ok)

	_, ok = extractPair(map[string]any{"q": "fine", "a": nil})
	assert.False(t, ok, "null coerces to empty string and is rejected")
}

func TestExtractObjectPairCoercesNonStrings(t *testing.T) {
	p, ok := extractPair(map[string]any{"q": float64(42), "a": true})
	require.True(t, ok)
	assert.Equal(t, "42", p.Question)
	assert.Equal(t, "true", p.Answer)
}

func TestExtractObjectPairDropsEmptyTags(t *testing.T) {
	p, ok := extractPair(map[string]any{"q": "x", "a": "y", "tags": []any{" policy ", "", nil}})
	require.True(t, ok)
	assert.Equal(t, []string{"policy"}, p.Tags)
}

func TestExtractTuplePair(t *testing.T) {
	p, ok := extractPair([]any{"Q2", "A2", "policy,edu"})
	require.True(t, ok)
	assert.Equal(t, "Q2", p.Question)
	assert.Equal(t, "A2", p.Answer)
	assert.Equal(t, []string{"policy", "edu"}, p.Tags)
}

func TestExtractTuplePairTagsArray(t *testing.T) {
	p, ok := extractPair([]any{"Q", "A", []any{"one", " two "}})
	require.True(t, ok)
	assert.Equal(t, []string{"one", "two"}, p.Tags)
}

func TestExtractTuplePairTooShort(t *testing.T) {
	_, ok := extractPair([]any{"alone"})
	assert.False(t, ok)
}

func TestExtractRejectsScalars(t *testing.T) {
	_, ok := extractPair("just a string")
	assert.False(t, ok)

	_, ok = extractPair(float64(7))
	assert.False(t, ok)
}
