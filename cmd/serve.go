package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tmplsync/internal/events"
	"tmplsync/internal/reconciler"
	tmplsync "tmplsync/internal/sync"
	"tmplsync/pkg/logging"
)

// serveDebug enables verbose logging across the application.
var serveDebug bool

// newServeCmd creates the serve command. The daemon watches the projects
// directory and re-synchronizes implementations whenever a template or
// implementation document changes.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Watch the projects directory and keep implementations in sync",
		Long: `Starts the synchronization daemon. It watches the projects directory for
document changes and re-applies template synchronization:

  - saving a template re-syncs all of its implementations
  - saving an implementation re-syncs it with its template
  - deleting a template detaches its implementations

Writes made by the daemon itself are recognized and do not trigger
further synchronization.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&configPath, "config-path", "", "configuration directory (default is $HOME/.config/tmplsync)")
	cmd.Flags().BoolVar(&serveDebug, "debug", false, "enable debug logging")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, registry, err := openWorkspace(serveDebug)
	if err != nil {
		return err
	}

	recorder := events.NewRecorder()
	orchestrator := tmplsync.NewOrchestrator(registry, registry, registry,
		tmplsync.WithRecorder(recorder))

	manager := reconciler.NewManager(reconciler.ManagerConfig{
		ProjectsDir:      cfg.ProjectsDir,
		WorkerCount:      cfg.Reconciler.WorkerCount,
		MaxRetries:       cfg.Reconciler.MaxRetries,
		InitialBackoff:   cfg.Reconciler.InitialBackoff.Std(),
		MaxBackoff:       cfg.Reconciler.MaxBackoff.Std(),
		DebounceInterval: cfg.Reconciler.DebounceInterval.Std(),
		ReconcileTimeout: cfg.Reconciler.ReconcileTimeout.Std(),
	}, reconciler.NewProjectReconciler(registry, orchestrator), nil)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := manager.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reconciliation: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	// One full sweep on startup so documents changed while the daemon was
	// down are brought back in line.
	g.Go(func() error {
		for _, p := range registry.All() {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if p.IsTemplate() {
				if err := orchestrator.OnTemplateSaved(p); err != nil {
					logging.Warn("Serve", "Initial sync of template [%s] failed: %v", p.Name, err)
				}
			}
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return manager.Stop()
	})

	logging.Info("Serve", "Watching %s", cfg.ProjectsDir)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
