package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ials-labs/botforge/internal/models"
	"github.com/ials-labs/botforge/internal/services"
	"github.com/ials-labs/botforge/internal/session"
)

// WorkspaceHandler serves the working set: metadata and pair edits.
type WorkspaceHandler struct {
	svc *services.KBService
}

func NewWorkspaceHandler(svc *services.KBService) *WorkspaceHandler {
	return &WorkspaceHandler{svc: svc}
}

func (h *WorkspaceHandler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Session().Snapshot())
}

func (h *WorkspaceHandler) PutMeta(w http.ResponseWriter, r *http.Request) {
	var meta models.BotMetadata
	if err := json.NewDecoder(r.Body).Decode(&meta); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	h.svc.Session().SetMeta(r.Context(), meta)
	writeJSON(w, http.StatusOK, h.svc.Session().Snapshot().Meta)
}

func (h *WorkspaceHandler) AddPair(w http.ResponseWriter, r *http.Request) {
	pair := h.svc.Session().AddPair(r.Context())
	writeJSON(w, http.StatusCreated, pair)
}

type pairUpdateRequest struct {
	Question *string   `json:"question"`
	Answer   *string   `json:"answer"`
	Tags     *[]string `json:"tags"`
}

func (h *WorkspaceHandler) UpdatePair(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req pairUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	ok := h.svc.Session().UpdatePair(r.Context(), id, session.PairUpdate{
		Question: req.Question,
		Answer:   req.Answer,
		Tags:     req.Tags,
	})
	if !ok {
		http.Error(w, "pair not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Session().Snapshot())
}

func (h *WorkspaceHandler) RemovePair(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	removed := h.svc.Session().RemovePair(r.Context(), id)
	// Removing the last remaining pair is a no-op, not an error.
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
