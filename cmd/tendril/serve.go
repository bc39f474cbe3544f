package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/cli"
	"github.com/aretw0/tendril/internal/presentation/tui"
	tendrilhttp "github.com/aretw0/tendril/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the store over HTTP",
	Long: `Starts a store bound to the REST API and serves its state, dispatch
endpoint, SSE diff stream and Prometheus metrics over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		app := cli.NewApp(cfg, logger, reg)
		defer app.Close()

		srv := tendrilhttp.New(app,
			tendrilhttp.WithLogger(logger),
			tendrilhttp.WithGatherer(reg),
		)
		defer srv.Close()

		tui.PrintBanner(os.Stderr, tendril.Version)
		logger.Info("Serving store", "api", cfg.API.BaseURL)
		return listen(cmd.Context(), "tendril", cfg.Server.Port, srv)
	},
}

// listen serves h on port until ctx is cancelled or a signal arrives, then
// shuts down gracefully.
func listen(parent context.Context, name string, port int, h http.Handler) error {
	ctx, stop := cli.NotifyContext(parent)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "server", name, "address", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("%s server: %w", name, err)

	case <-ctx.Done():
		logger.Info("Start shutdown", "server", name, "signal", cli.CaughtSignal(ctx))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}
		logger.Info("Server stopped gracefully", "server", name)
		return nil
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides server.port)")
}
