package app

import (
	"context"
	"log"
	"time"

	"github.com/ials-labs/botforge/internal/backend"
	"github.com/ials-labs/botforge/internal/config"
	"github.com/ials-labs/botforge/internal/core"
	"github.com/ials-labs/botforge/internal/core/store"
	"github.com/ials-labs/botforge/internal/services"
	"github.com/ials-labs/botforge/internal/session"
)

// App wires the store, session, backend client, and service together.
type App struct {
	Store   core.WorkspaceStore
	Service *services.KBService
	Server  *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	ws, err := store.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("workspace store ready (driver=%s)", cfg.StoreDriver)

	sess := session.New(ctx, ws)
	client := backend.New(cfg.BackendBase)
	svc := services.NewKBService(sess, client)

	// Fire-and-forget startup probe; the result only informs the log, the
	// on-demand endpoint re-probes whenever asked.
	go func() {
		probeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Printf("backend health: %s", client.CheckHealth(probeCtx))
	}()

	server := NewServer(cfg, svc)

	return &App{Store: ws, Service: svc, Server: server}, nil
}

func (a *App) Close() {
	if a.Store != nil {
		_ = a.Store.Close()
	}
}
