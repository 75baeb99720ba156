package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ials-labs/botforge/internal/models"
)

// FileStore keeps the workspace blob in a single JSON file. It is the
// default driver and needs no configuration beyond a path.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = WorkspaceKey + ".json"
	}
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context) (*models.Workspace, bool, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read workspace file: %w", err)
	}
	var ws models.Workspace
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, false, fmt.Errorf("decode workspace file: %w", err)
	}
	return &ws, true, nil
}

func (s *FileStore) Save(ctx context.Context, ws *models.Workspace) error {
	data, err := json.MarshalIndent(ws, "", "  ")
	if err != nil {
		return fmt.Errorf("encode workspace: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create workspace dir: %w", err)
		}
	}
	// Write-then-rename so a crash mid-save never leaves a truncated blob.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write workspace file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace workspace file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
