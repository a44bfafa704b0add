package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/anxdpanic/addon-check/pkg/api"
	"github.com/anxdpanic/addon-check/pkg/observability"
	"github.com/anxdpanic/addon-check/pkg/watch"
)

func newServeCommand(app *App) *cobra.Command {
	var (
		addr, repo string
		watchRepo  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dependency checks over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := app.Config
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("repo") {
				cfg.RepositoryDir = repo
			}
			return runServe(cmd.Context(), app, watchRepo)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "address to listen on (default :8080)")
	cmd.Flags().StringVar(&repo, "repo", "", "repository directory laid out as <repo>/<branch>/addons.xml")
	cmd.Flags().BoolVar(&watchRepo, "watch", false, "reload the repository when an addons.xml changes")
	return cmd
}

func runServe(ctx context.Context, app *App, watchRepo bool) error {
	cfg := app.Config
	log := app.Log

	metrics := observability.NewMetrics(nil)
	loader := app.newLoader(metrics)
	idx, err := loadIndex(ctx, loader, cfg.RepositoryDir)
	if err != nil {
		return err
	}

	server := api.NewServer(api.Options{
		Index:     idx,
		Checker:   app.newChecker(),
		Metrics:   metrics,
		Health:    observability.NewHealthChecker(Version),
		Logger:    log,
		RateLimit: cfg.Server.RateLimit,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shutdown := observability.NewShutdownManager(log, httpServer, cfg.Server.ShutdownTimeout)
	if cfg.MetricsFile != "" {
		shutdown.RegisterShutdownFunc(func(context.Context) error {
			return metrics.WriteToTextfile(cfg.MetricsFile)
		})
	}

	if watchRepo {
		w, err := watch.New(watch.Config{
			Roots: []string{cfg.RepositoryDir},
			Match: isWatchedFile,
			OnChange: func(ctx context.Context, changed []string) error {
				reloaded, err := loadIndex(ctx, loader, cfg.RepositoryDir)
				if err != nil {
					return fmt.Errorf("failed to reload repository: %w", err)
				}
				server.SetIndex(reloaded)
				log.Infof("Reloaded %d branches", reloaded.Len())
				return nil
			},
			Logger: log,
		})
		if err != nil {
			return err
		}
		go func() {
			defer observability.RecoverPanic(log, "repository watcher")
			if err := w.Run(ctx); err != nil {
				log.WithError(err).Error("Repository watcher stopped")
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Serving %d branches on %s", idx.Len(), cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			cancel()
		}
		close(serveErr)
	}()

	if err := shutdown.Wait(ctx); err != nil {
		return err
	}
	return <-serveErr
}
