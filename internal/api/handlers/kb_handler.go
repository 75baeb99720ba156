package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/ials-labs/botforge/internal/backend"
	"github.com/ials-labs/botforge/internal/importer"
	"github.com/ials-labs/botforge/internal/models"
	"github.com/ials-labs/botforge/internal/services"
)

// maxImportBytes bounds pasted/uploaded import text.
const maxImportBytes = 16 << 20

// KBHandler serves import, export preview, submission, and the backend
// health probe.
type KBHandler struct {
	svc *services.KBService
}

func NewKBHandler(svc *services.KBService) *KBHandler {
	return &KBHandler{svc: svc}
}

// Import feeds the raw request body to the normalizer. Uploaded files and
// pasted text arrive the same way; the normalizer does not care.
func (h *KBHandler) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		http.Error(w, "read body failed", http.StatusBadRequest)
		return
	}
	summary, err := h.svc.ImportText(r.Context(), string(body))
	if err != nil {
		var parseErr *importer.ParseError
		if errors.As(err, &parseErr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": parseErr.Error()})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Export returns the payload that a submission would send, for preview.
func (h *KBHandler) Export(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Export())
}

// Submit runs the gate and posts the payload to the backend. Gate failures
// are 422, backend failures 502; the working set stays intact in every case.
func (h *KBHandler) Submit(w http.ResponseWriter, r *http.Request) {
	reply, err := h.svc.Submit(r.Context())
	if err != nil {
		var valErr *models.ValidationError
		if errors.As(err, &valErr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": valErr.Error()})
			return
		}
		var httpErr *backend.HTTPError
		if errors.As(err, &httpErr) {
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":  httpErr.Error(),
				"status": httpErr.StatusCode,
			})
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Bot submitted for provisioning.",
		"reply":   reply,
	})
}

// BackendHealth proxies the tri-state probe so a browser UI never has to
// talk to the backend directly.
func (h *KBHandler) BackendHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"backend": string(h.svc.BackendHealth(r.Context())),
	})
}
