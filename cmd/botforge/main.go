package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ials-labs/botforge/internal/app"
	"github.com/ials-labs/botforge/internal/backend"
	"github.com/ials-labs/botforge/internal/config"
	"github.com/ials-labs/botforge/internal/core"
	"github.com/ials-labs/botforge/internal/core/store"
	"github.com/ials-labs/botforge/internal/services"
	"github.com/ials-labs/botforge/internal/session"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
)

func main() {
	root := &cobra.Command{
		Use:           "botforge",
		Short:         "Assemble a Q&A knowledge base and provision a retrieval-augmented chatbot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), importCmd(), validateCmd(), exportCmd(), submitCmd(), healthCmd())

	if err := root.Execute(); err != nil {
		errColor.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newService builds the store-backed service for one-shot commands.
func newService(ctx context.Context) (*services.KBService, func(), error) {
	cfg := config.LoadConfig()
	ws, err := store.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	sess := session.New(ctx, ws)
	svc := services.NewKBService(sess, backend.New(cfg.BackendBase))
	return svc, func() { _ = ws.Close() }, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			// Handle SIGINT/SIGTERM for graceful shutdown
			go func() {
				c := make(chan os.Signal, 1)
				signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
				<-c
				cancel()
			}()

			cfg := config.LoadConfig()
			application, err := app.NewApp(ctx, cfg)
			if err != nil {
				return fmt.Errorf("startup failed: %w", err)
			}
			defer application.Close()

			errCh := make(chan error, 1)
			go func() { errCh <- application.Server.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			return application.Server.Shutdown(shutdownCtx)
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE...",
		Short: "Import Q&A records from JSON or JSONL files into the workspace",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := newService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			summaries, err := svc.ImportFiles(cmd.Context(), args)
			for _, s := range summaries {
				okColor.Printf("%s: %d pair(s) imported", s.Source, s.PairsAdded)
				if s.MetaPatched {
					fmt.Print(", metadata prefilled")
				}
				fmt.Println()
			}
			return err
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check whether the workspace is ready to submit",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := newService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.Validate(); err != nil {
				warnColor.Println(err)
				os.Exit(1)
			}
			okColor.Println("workspace is ready to submit")
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the submission payload without submitting",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := newService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(svc.Export())
		},
	}
}

func submitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit",
		Short: "Submit the workspace to the provisioning backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := newService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			reply, err := svc.Submit(ctx)
			if err != nil {
				return err
			}
			okColor.Println("Bot submitted for provisioning.")
			if reply != nil {
				log.Printf("backend reply: %v", reply)
			}
			return nil
		},
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe the provisioning backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := newService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			status := svc.BackendHealth(ctx)
			switch status {
			case core.HealthOK:
				okColor.Println("backend reachable")
			default:
				errColor.Printf("backend %s\n", status)
				os.Exit(1)
			}
			return nil
		},
	}
}
