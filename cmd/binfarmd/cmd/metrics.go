package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/monkearmy/binfarm/x/binfarm/keeper"
)

const (
	flagListen = "listen"

	defaultMetricsAddr = ":36660"
)

// MetricsCmd serves the binfarm Prometheus collectors until interrupted
func MetricsCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Serve binfarm Prometheus metrics on /metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return ServeMetrics(ctx, v.GetString(flagListen), newLogger(v))
		},
	}
	cmd.Flags().String(flagListen, defaultMetricsAddr, "listen address")
	return cmd
}

type infoLogger interface {
	Info(msg string, keyVals ...any)
}

// ServeMetrics registers the module collectors and serves them on addr until
// ctx is done.
func ServeMetrics(ctx context.Context, addr string, logger infoLogger) error {
	keeper.NewBinfarmMetrics()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("metrics server shutting down")
		return server.Shutdown(shutdownCtx)
	}
}
