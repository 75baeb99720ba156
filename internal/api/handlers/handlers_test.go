package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ials-labs/botforge/internal/backend"
	"github.com/ials-labs/botforge/internal/core/store"
	"github.com/ials-labs/botforge/internal/models"
	"github.com/ials-labs/botforge/internal/services"
	"github.com/ials-labs/botforge/internal/session"
)

func newTestRouter(t *testing.T, backendURL string) (*chi.Mux, *services.KBService) {
	t.Helper()
	fs := store.NewFileStore(filepath.Join(t.TempDir(), "ws.json"))
	sess := session.New(context.Background(), fs)
	svc := services.NewKBService(sess, backend.New(backendURL))

	wsHandler := NewWorkspaceHandler(svc)
	kbHandler := NewKBHandler(svc)

	r := chi.NewRouter()
	r.Get("/api/workspace", wsHandler.GetWorkspace)
	r.Put("/api/workspace/meta", wsHandler.PutMeta)
	r.Post("/api/pairs", wsHandler.AddPair)
	r.Put("/api/pairs/{id}", wsHandler.UpdatePair)
	r.Delete("/api/pairs/{id}", wsHandler.RemovePair)
	r.Post("/api/import", kbHandler.Import)
	r.Get("/api/export", kbHandler.Export)
	r.Post("/api/submit", kbHandler.Submit)
	r.Get("/api/backend/health", kbHandler.BackendHealth)
	return r, svc
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGetWorkspaceDefaults(t *testing.T) {
	r, _ := newTestRouter(t, "http://localhost:0")
	rec := do(t, r, http.MethodGet, "/api/workspace", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var ws models.Workspace
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ws))
	assert.Len(t, ws.Pairs, 1)
	assert.Equal(t, models.DefaultBaseModel, ws.Meta.BaseModel)
}

func TestPairLifecycle(t *testing.T) {
	r, _ := newTestRouter(t, "http://localhost:0")

	rec := do(t, r, http.MethodPost, "/api/pairs", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var added models.QAPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))

	rec = do(t, r, http.MethodPut, "/api/pairs/"+added.ID, `{"question": "q?", "answer": "a"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodPut, "/api/pairs/bogus", `{"question": "x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodDelete, "/api/pairs/"+added.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"removed":true`)
}

func TestRemoveLastPairReportsNoOp(t *testing.T) {
	r, svc := newTestRouter(t, "http://localhost:0")
	only := svc.Session().Snapshot().Pairs[0]

	rec := do(t, r, http.MethodDelete, "/api/pairs/"+only.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"removed":false`)
}

func TestImportEndpoint(t *testing.T) {
	r, svc := newTestRouter(t, "http://localhost:0")

	rec := do(t, r, http.MethodPost, "/api/import", `[{"q": "one", "a": "1"}, ["two", "2"]]`)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary services.ImportSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.PairsAdded)
	assert.False(t, summary.MetaPatched)
	assert.Len(t, svc.Session().Snapshot().Pairs, 2)
}

func TestImportEndpointUnsupportedFormat(t *testing.T) {
	r, _ := newTestRouter(t, "http://localhost:0")
	rec := do(t, r, http.MethodPost, "/api/import", "{}")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported format")
}

func TestSubmitGateBlocksInvalidWorkspace(t *testing.T) {
	r, _ := newTestRouter(t, "http://localhost:0")
	rec := do(t, r, http.MethodPost, "/api/submit", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, "no network call for an empty workspace")
}

func TestSubmitHappyPath(t *testing.T) {
	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chatbots", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": "bot-1"}`))
	}))
	defer backendSrv.Close()

	r, svc := newTestRouter(t, backendSrv.URL)
	svc.Session().SetMeta(context.Background(), models.BotMetadata{
		Lab: "IALS", BotName: "Privacy-LLM", OwnerEmail: "prof@umass.edu",
	})
	id := svc.Session().Snapshot().Pairs[0].ID
	q, a := "q", "a"
	svc.Session().UpdatePair(context.Background(), id, session.PairUpdate{Question: &q, Answer: &a})

	rec := do(t, r, http.MethodPost, "/api/submit", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bot-1")
}

func TestSubmitBackendFailure(t *testing.T) {
	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("slug already taken"))
	}))
	defer backendSrv.Close()

	r, svc := newTestRouter(t, backendSrv.URL)
	svc.Session().SetMeta(context.Background(), models.BotMetadata{
		Lab: "IALS", BotName: "Privacy-LLM", OwnerEmail: "prof@umass.edu",
	})
	id := svc.Session().Snapshot().Pairs[0].ID
	q, a := "q", "a"
	svc.Session().UpdatePair(context.Background(), id, session.PairUpdate{Question: &q, Answer: &a})

	rec := do(t, r, http.MethodPost, "/api/submit", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "409")
	assert.Contains(t, rec.Body.String(), "slug already taken")

	// The working set survives the failure for retry.
	assert.Equal(t, "IALS", svc.Session().Snapshot().Meta.Lab)
}

func TestExportEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, "http://localhost:0")
	rec := do(t, r, http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload models.ExportPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, models.PayloadVersion, payload.Version)
	assert.Equal(t, "lab-bot", payload.Bot.Slug)
}

func TestBackendHealthEndpoint(t *testing.T) {
	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	}))
	defer backendSrv.Close()

	r, _ := newTestRouter(t, backendSrv.URL)
	rec := do(t, r, http.MethodGet, "/api/backend/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"backend":"ok"`)
}
