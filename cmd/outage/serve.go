package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/outage-news-etl/internal/adapter/http"
	"github.com/couchcryptid/outage-news-etl/internal/observability"
	"github.com/couchcryptid/outage-news-etl/internal/store"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dataset to the map renderer, with health and metrics endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			metrics := observability.NewMetrics()
			dataset := store.NewJSONStore(cfg.DatasetPath)
			if records, err := dataset.Load(); err != nil {
				logger.Warn("dataset not loadable at startup", "path", dataset.Path(), "error", err)
			} else {
				metrics.DatasetSize.Set(float64(len(records)))
			}

			srv := httpadapter.NewServer(cfg.HTTPAddr, dataset, dataset, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case <-ctx.Done():
			case err := <-errCh:
				if err != nil {
					logger.Error("http server error", "error", err)
					return err
				}
			}
			logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
				return err
			}

			logger.Info("shutdown complete")
			return nil
		},
	}
}
