package models

import (
	"strings"

	"github.com/google/uuid"
)

// Generation defaults applied when metadata is created or when an imported
// export payload omits the corresponding field.
const (
	DefaultBaseModel   = "qwen2.5:7b-instruct"
	DefaultEmbedModel  = "nomic-embed-text"
	DefaultTemperature = 0.2
	DefaultTopP        = 0.95
)

// QAPair is one knowledge unit of the working set. The ID is assigned at
// creation and never reused; it is local bookkeeping and is not submitted.
type QAPair struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Tags     []string `json:"tags,omitempty"`
}

// NewQAPair returns an empty pair with a fresh id.
func NewQAPair() QAPair {
	return QAPair{ID: uuid.NewString()}
}

// Complete reports whether both question and answer are non-empty after
// trimming. Incomplete pairs stay in the working set; they only matter for
// the submission gate.
func (p QAPair) Complete() bool {
	return strings.TrimSpace(p.Question) != "" && strings.TrimSpace(p.Answer) != ""
}

// BotMetadata is one chatbot's identity and generation parameters.
type BotMetadata struct {
	Lab         string  `json:"lab"`
	BotName     string  `json:"botName"`
	OwnerEmail  string  `json:"ownerEmail"`
	Description string  `json:"description,omitempty"`
	BaseModel   string  `json:"baseModel"`
	EmbedModel  string  `json:"embedModel"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"topP"`
}

// DefaultBotMetadata returns metadata with model names and sampling
// parameters set to their defaults and identity fields blank.
func DefaultBotMetadata() BotMetadata {
	return BotMetadata{
		BaseModel:   DefaultBaseModel,
		EmbedModel:  DefaultEmbedModel,
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
	}
}

// MetadataPatch is a partial BotMetadata recovered from an imported export
// payload. Nil fields leave the existing value untouched, so an import
// prefills fields without discarding ones the payload did not carry.
type MetadataPatch struct {
	Lab         *string
	BotName     *string
	OwnerEmail  *string
	Description *string
	BaseModel   *string
	EmbedModel  *string
	Temperature *float64
	TopP        *float64
}

// Apply merges the patch into meta, field by field.
func (p *MetadataPatch) Apply(meta *BotMetadata) {
	if p == nil {
		return
	}
	if p.Lab != nil {
		meta.Lab = *p.Lab
	}
	if p.BotName != nil {
		meta.BotName = *p.BotName
	}
	if p.OwnerEmail != nil {
		meta.OwnerEmail = *p.OwnerEmail
	}
	if p.Description != nil {
		meta.Description = *p.Description
	}
	if p.BaseModel != nil {
		meta.BaseModel = *p.BaseModel
	}
	if p.EmbedModel != nil {
		meta.EmbedModel = *p.EmbedModel
	}
	if p.Temperature != nil {
		meta.Temperature = *p.Temperature
	}
	if p.TopP != nil {
		meta.TopP = *p.TopP
	}
}

// Workspace is the persisted working set: one bot's metadata plus its pairs.
// This is the exact blob shape written by the workspace stores.
type Workspace struct {
	Meta  BotMetadata `json:"meta"`
	Pairs []QAPair    `json:"pairs"`
}

// DefaultWorkspace returns a fresh working set: default metadata and a
// single empty pair. The working set never holds zero pairs.
func DefaultWorkspace() *Workspace {
	return &Workspace{
		Meta:  DefaultBotMetadata(),
		Pairs: []QAPair{NewQAPair()},
	}
}

// Clone returns a deep copy so callers can hand snapshots out without
// exposing the live slices.
func (w *Workspace) Clone() *Workspace {
	out := &Workspace{Meta: w.Meta, Pairs: make([]QAPair, len(w.Pairs))}
	for i, p := range w.Pairs {
		cp := p
		if p.Tags != nil {
			cp.Tags = append([]string(nil), p.Tags...)
		}
		out.Pairs[i] = cp
	}
	return out
}
