package models

import (
	"fmt"
	"regexp"
	"strings"
)

// Loose on purpose: the backend does its own verification, this only keeps
// obviously broken addresses out of the payload.
var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// ValidationError reports why a working set is not submittable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// Validate checks the metadata invariant: lab and bot name non-empty after
// trimming, owner email matching the loose pattern. Model names and numeric
// parameters are never range-checked.
func (m BotMetadata) Validate() error {
	if strings.TrimSpace(m.Lab) == "" {
		return &ValidationError{Field: "lab", Reason: "must not be empty"}
	}
	if strings.TrimSpace(m.BotName) == "" {
		return &ValidationError{Field: "botName", Reason: "must not be empty"}
	}
	if !emailRe.MatchString(m.OwnerEmail) {
		return &ValidationError{Field: "ownerEmail", Reason: "is not a valid email address"}
	}
	return nil
}

// CheckSubmittable is the submission gate: metadata must validate and at
// least one pair must be complete. Incomplete pairs do not block submission
// and are not filtered out of the payload; only the gate cares.
func CheckSubmittable(meta BotMetadata, pairs []QAPair) error {
	if err := meta.Validate(); err != nil {
		return err
	}
	for _, p := range pairs {
		if p.Complete() {
			return nil
		}
	}
	return &ValidationError{Field: "pairs", Reason: "need at least one pair with question and answer"}
}
