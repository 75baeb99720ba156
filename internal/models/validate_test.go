package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMeta() BotMetadata {
	m := DefaultBotMetadata()
	m.Lab = "IALS"
	m.BotName = "Privacy-LLM"
	m.OwnerEmail = "prof@umass.edu"
	return m
}

func TestValidateMeta(t *testing.T) {
	require.NoError(t, validMeta().Validate())

	m := validMeta()
	m.Lab = "   "
	var valErr *ValidationError
	require.ErrorAs(t, m.Validate(), &valErr)
	assert.Equal(t, "lab", valErr.Field)

	m = validMeta()
	m.BotName = ""
	require.Error(t, m.Validate())

	for _, bad := range []string{"", "plainaddress", "no@dots", "spaces in@it.edu", "@x.y"} {
		m = validMeta()
		m.OwnerEmail = bad
		assert.Error(t, m.Validate(), "email %q should fail", bad)
	}
}

func TestCheckSubmittable(t *testing.T) {
	good := QAPair{ID: "1", Question: "q", Answer: "a"}
	blank := QAPair{ID: "2", Question: " ", Answer: ""}

	require.NoError(t, CheckSubmittable(validMeta(), []QAPair{blank, good}))

	// Valid metadata alone is not enough: every pair blank keeps the gate shut.
	err := CheckSubmittable(validMeta(), []QAPair{blank, blank})
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "pairs", valErr.Field)

	// Bad metadata fails before pairs are even considered.
	m := validMeta()
	m.OwnerEmail = "nope"
	require.Error(t, CheckSubmittable(m, []QAPair{good}))
}
