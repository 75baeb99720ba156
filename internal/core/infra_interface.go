package core

import (
	"context"

	"github.com/ials-labs/botforge/internal/models"
)

// WorkspaceStore persists the working set as a single blob under a fixed
// key. It abstracts the file/Postgres/S3 drivers so higher layers never
// depend on a specific backend.
type WorkspaceStore interface {
	// Load returns the stored workspace, or found=false when nothing has
	// been saved yet. A decode error on a corrupt blob is returned as err;
	// callers decide whether to surface or ignore it.
	Load(ctx context.Context) (ws *models.Workspace, found bool, err error)
	Save(ctx context.Context, ws *models.Workspace) error
	Close() error
}

// HealthStatus is the tri-state result of probing the provisioning backend.
type HealthStatus string

const (
	HealthUnknown     HealthStatus = "unknown"
	HealthOK          HealthStatus = "ok"
	HealthUnreachable HealthStatus = "unreachable"
)

// BackendClient talks to the chatbot provisioning service.
type BackendClient interface {
	// SubmitBot POSTs the export payload. The reply body is decoded when it
	// is JSON but may be nil; a non-2xx status comes back as *backend.HTTPError.
	SubmitBot(ctx context.Context, payload *models.ExportPayload) (map[string]any, error)

	// CheckHealth probes GET /health. It never returns an error; failures of
	// any kind collapse into HealthUnreachable.
	CheckHealth(ctx context.Context) HealthStatus
}
