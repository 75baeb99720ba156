package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ials-labs/botforge/internal/api/handlers"
	"github.com/ials-labs/botforge/internal/config"
	"github.com/ials-labs/botforge/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, svc *services.KBService) *Server {
	wsHandler := handlers.NewWorkspaceHandler(svc)
	kbHandler := handlers.NewKBHandler(svc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8888"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(api chi.Router) {
		api.Get("/workspace", wsHandler.GetWorkspace)
		api.Put("/workspace/meta", wsHandler.PutMeta)

		api.Post("/pairs", wsHandler.AddPair)
		api.Put("/pairs/{id}", wsHandler.UpdatePair)
		api.Delete("/pairs/{id}", wsHandler.RemovePair)

		api.Post("/import", kbHandler.Import)
		api.Get("/export", kbHandler.Export)
		api.Post("/submit", kbHandler.Submit)
		api.Get("/backend/health", kbHandler.BackendHealth)
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
