package models

import (
	"regexp"
	"strings"
	"time"
)

// PayloadVersion identifies the export payload schema.
const PayloadVersion = "kb-export/1"

// BotPayload is the snake_case wire form of BotMetadata plus the derived slug.
type BotPayload struct {
	Lab         string  `json:"lab"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	OwnerEmail  string  `json:"owner_email"`
	Description string  `json:"description,omitempty"`
	Model       string  `json:"model"`
	EmbedModel  string  `json:"embed_model"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

// PairPayload is the wire form of one pair; tags are omitted when empty.
type PairPayload struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Tags     []string `json:"tags,omitempty"`
}

// ExportPayload is the submission body sent to POST /chatbots.
type ExportPayload struct {
	Bot       BotPayload    `json:"bot"`
	Pairs     []PairPayload `json:"pairs"`
	CreatedAt string        `json:"created_at"`
	Version   string        `json:"version"`
}

var (
	slugStrip    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugCollapse = regexp.MustCompile(`[\s-]+`)
)

// Slugify lowercases, strips everything outside [a-z0-9\s-], and collapses
// whitespace and hyphen runs into single hyphens.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = slugStrip.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// BotSlug derives the informational slug from lab and bot name, falling back
// to "lab" / "bot" when the respective field slugs to nothing.
func BotSlug(m BotMetadata) string {
	lab := Slugify(m.Lab)
	if lab == "" {
		lab = "lab"
	}
	name := Slugify(m.BotName)
	if name == "" {
		name = "bot"
	}
	return lab + "-" + name
}

// BuildExportPayload derives the wire payload from the working set. Text is
// trimmed and empty tag lists dropped, but incomplete pairs are serialized
// as-is; filtering them is deliberately not this function's job.
func BuildExportPayload(meta BotMetadata, pairs []QAPair, now time.Time) ExportPayload {
	out := ExportPayload{
		Bot: BotPayload{
			Lab:         strings.TrimSpace(meta.Lab),
			Name:        strings.TrimSpace(meta.BotName),
			Slug:        BotSlug(meta),
			OwnerEmail:  strings.TrimSpace(meta.OwnerEmail),
			Description: strings.TrimSpace(meta.Description),
			Model:       meta.BaseModel,
			EmbedModel:  meta.EmbedModel,
			Temperature: meta.Temperature,
			TopP:        meta.TopP,
		},
		Pairs:     make([]PairPayload, 0, len(pairs)),
		CreatedAt: now.UTC().Format(time.RFC3339),
		Version:   PayloadVersion,
	}
	for _, p := range pairs {
		pp := PairPayload{
			Question: strings.TrimSpace(p.Question),
			Answer:   strings.TrimSpace(p.Answer),
		}
		for _, t := range p.Tags {
			if t = strings.TrimSpace(t); t != "" {
				pp.Tags = append(pp.Tags, t)
			}
		}
		out.Pairs = append(out.Pairs, pp)
	}
	return out
}
