package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/diecastgarage/storefront/internal/api"
	"github.com/diecastgarage/storefront/internal/core/service"
	probes "github.com/diecastgarage/storefront/internal/infrastructure/http/handlers"
	"github.com/diecastgarage/storefront/internal/infrastructure/queue"
	"github.com/diecastgarage/storefront/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Port string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Start the storefront API.

Backends are selected with DOCSTORE_DRIVER, LOCAL_CACHE_DRIVER and
BLOB_DRIVER. The catalog subscription is opened once at startup and shared
by every session.

Example:
  DOCSTORE_DRIVER=memory LOCAL_CACHE_DRIVER=memory JWT_SECRET=dev storefront serve`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Port, "port", "", "override PORT")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg := opts.config()
	log := logger.Get()
	if opts.Port != "" {
		cfg.Port = opts.Port
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open backends", err)
	}
	defer b.Close()

	auth, err := newAuthService(cfg, b)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	// Remote favorites writes drain after the HTTP server stops.
	dispatcher := queue.NewDispatcher(cfg.Session.RemoteWriteWorkers, logger.Component("queue"))
	dispatcher.Start(context.Background())

	catalog := service.NewCatalogService(b.store, logger.Component("catalog"))
	if err := catalog.Start(ctx); err != nil {
		return WrapExitError(ExitFailure, "failed to subscribe to products", err)
	}
	defer catalog.Stop()

	sessions := service.NewSessionRegistry(b.cache, b.store, dispatcher, cfg.Session.IdleTTL, logger.Component("sessions"))
	go sessions.Run(ctx)
	if b.sqliteCache != nil {
		go pruneLoop(ctx, b.sqliteCache, cfg.LocalCache.TTL, logger.Component("sqlite"))
	}

	b.probes["catalog"] = probes.PingFunc(func(context.Context) error { return catalog.Err() })

	e := api.NewRouter(api.Deps{
		Catalog:    catalog,
		Sessions:   sessions,
		Auth:       auth,
		Users:      service.NewUserService(b.users, logger.Component("users")),
		Promotions: service.NewPromotionService(b.promotions, logger.Component("promotions")),
		Media:      service.NewMediaService(b.blobs, logger.Component("media")),
		Probes:     b.probes,
		JWTSecret:  cfg.JWTSecret,
		Logger:     logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("docstore", cfg.DocStore.Driver).
			Str("local_cache", cfg.LocalCache.Driver).
			Str("blob", cfg.Blob.Driver).
			Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		dispatcher.Close()
		return WrapExitError(ExitFailure, "http server failed", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown incomplete")
	}

	dispatcher.Close()
	dispatcher.Wait()
	log.Info().Int("sessions", sessions.Len()).Msg("shutdown complete")
	return nil
}
