package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	archivepkg "protokollo/internal/archive"
	catalogpkg "protokollo/internal/catalog"
	"protokollo/internal/platform/config"
	"protokollo/internal/platform/httpserver"
	reghandler "protokollo/internal/registration/handler"
	httptransport "protokollo/internal/transport/http"
)

func newServeCmd(cfg config.Server, log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the registry HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	router := httptransport.NewRouter(log, cfg.RequestTimeout, httptransport.Deps{
		Registrations: reghandler.New(a.registration, log),
		Meta:          catalogpkg.NewHandler(a.catalog),
		Archive:       archivepkg.NewHandler(a.archive, log),
	})
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting protokollo",
		"addr", cfg.Addr,
		"store", cfg.StoreBackend,
		"redis_allocator", cfg.RedisURL != "",
	)

	errs := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errs:
		return err
	case <-quit:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("protokollo stopped")
	return nil
}
