package store

import (
	"context"
	"fmt"

	"github.com/ials-labs/botforge/internal/config"
	"github.com/ials-labs/botforge/internal/core"
)

// WorkspaceKey is the fixed name every driver persists the working set
// under: the file name stem, the Postgres row key, the S3 object key.
const WorkspaceKey = "botforge_workspace"

// New builds the workspace store selected by STORE_DRIVER.
func New(ctx context.Context, cfg *config.Config) (core.WorkspaceStore, error) {
	switch cfg.StoreDriver {
	case "", "file":
		return NewFileStore(cfg.StorePath), nil
	case "postgres":
		return NewPostgresStore(ctx, cfg)
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
