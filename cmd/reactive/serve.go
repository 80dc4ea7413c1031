package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/reactive/metrics"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Replay scenarios continuously and serve Prometheus metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Metrics.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			registry := prometheus.NewRegistry()
			observer := metrics.New(
				metrics.WithRegistry(registry),
				metrics.WithNamespace(cfg.Metrics.Namespace),
			)

			srv := &http.Server{
				Addr:              cfg.Metrics.Addr,
				Handler:           newRouter(registry),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				logger.Info("serving metrics", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			selected, err := selectScenarios(args)
			if err != nil {
				return err
			}

			ticker := time.NewTicker(cfg.Scenarios.Interval)
			defer ticker.Stop()

			for {
				if err := replay(ctx, cfg, logger, nil, selected, observer); err != nil && ctx.Err() == nil {
					logger.Error("replay failed", "error", err)
				}

				select {
				case <-ctx.Done():
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					logger.Info("shutting down")
					return srv.Shutdown(shutdownCtx)
				case err, ok := <-errc:
					if ok {
						return err
					}
					return nil
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().StringVar(&addr, "metrics-addr", "", "listen address (overrides metrics.addr)")

	return cmd
}

func newRouter(registry *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return r
}
