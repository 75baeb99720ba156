package session

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/ials-labs/botforge/internal/core"
	"github.com/ials-labs/botforge/internal/importer"
	"github.com/ials-labs/botforge/internal/models"
)

// Session owns the working set exclusively. Every mutation is written
// through to the store, last write wins; store failures are logged and
// never bubble up, so the in-memory state always survives for retry.
type Session struct {
	mu    sync.Mutex
	ws    *models.Workspace
	store core.WorkspaceStore
}

// New restores the workspace from the store, falling back to defaults when
// nothing is stored or the blob is corrupt.
func New(ctx context.Context, store core.WorkspaceStore) *Session {
	ws := models.DefaultWorkspace()
	loaded, found, err := store.Load(ctx)
	if err != nil {
		log.Printf("stored workspace ignored: %v", err)
	} else if found {
		ws = loaded
		if len(ws.Pairs) == 0 {
			ws.Pairs = []models.QAPair{models.NewQAPair()}
		}
	}
	return &Session{ws: ws, store: store}
}

// Snapshot returns a deep copy of the current working set.
func (s *Session) Snapshot() *models.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ws.Clone()
}

// SetMeta replaces the metadata wholesale.
func (s *Session) SetMeta(ctx context.Context, meta models.BotMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ws.Meta = meta
	s.persist(ctx)
}

// AddPair appends a fresh empty pair and returns it.
func (s *Session) AddPair(ctx context.Context) models.QAPair {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := models.NewQAPair()
	s.ws.Pairs = append(s.ws.Pairs, p)
	s.persist(ctx)
	return p
}

// PairUpdate carries the fields accepted by UpdatePair; nil fields are left
// untouched.
type PairUpdate struct {
	Question *string
	Answer   *string
	Tags     *[]string
}

// UpdatePair edits one pair in place. Returns false when the id is unknown.
func (s *Session) UpdatePair(ctx context.Context, id string, upd PairUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ws.Pairs {
		if s.ws.Pairs[i].ID != id {
			continue
		}
		if upd.Question != nil {
			s.ws.Pairs[i].Question = *upd.Question
		}
		if upd.Answer != nil {
			s.ws.Pairs[i].Answer = *upd.Answer
		}
		if upd.Tags != nil {
			s.ws.Pairs[i].Tags = normalizeTags(*upd.Tags)
		}
		s.persist(ctx)
		return true
	}
	return false
}

// RemovePair deletes a pair. Removing the last remaining pair is a no-op;
// the working set never holds zero pairs.
func (s *Session) RemovePair(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ws.Pairs) <= 1 {
		return false
	}
	for i := range s.ws.Pairs {
		if s.ws.Pairs[i].ID == id {
			s.ws.Pairs = append(s.ws.Pairs[:i], s.ws.Pairs[i+1:]...)
			s.persist(ctx)
			return true
		}
	}
	return false
}

// ApplyImport merges a normalization result into the working set: the
// metadata patch field by field, the pairs appended with fresh ids.
// Untouched placeholder pairs (completely blank) are dropped once real
// pairs arrive.
func (s *Session) ApplyImport(ctx context.Context, res *importer.Result) (added int, patched bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res.MetaPatch != nil {
		res.MetaPatch.Apply(&s.ws.Meta)
		patched = true
	}

	if len(res.Pairs) > 0 {
		kept := s.ws.Pairs[:0]
		for _, p := range s.ws.Pairs {
			if !isBlank(p) {
				kept = append(kept, p)
			}
		}
		s.ws.Pairs = kept
		for _, p := range res.Pairs {
			pair := models.NewQAPair()
			pair.Question = p.Question
			pair.Answer = p.Answer
			pair.Tags = normalizeTags(p.Tags)
			s.ws.Pairs = append(s.ws.Pairs, pair)
			added++
		}
	}
	if len(s.ws.Pairs) == 0 {
		s.ws.Pairs = []models.QAPair{models.NewQAPair()}
	}
	s.persist(ctx)
	return added, patched
}

func (s *Session) persist(ctx context.Context) {
	if err := s.store.Save(ctx, s.ws); err != nil {
		log.Printf("workspace save failed: %v", err)
	}
}

func isBlank(p models.QAPair) bool {
	return strings.TrimSpace(p.Question) == "" &&
		strings.TrimSpace(p.Answer) == "" &&
		len(p.Tags) == 0
}

// normalizeTags trims entries, drops empties, and turns an empty list into
// nil so "no tags" has a single representation.
func normalizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
