package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/secmon-lab/medpredict/pkg/cli/config"
	controller "github.com/secmon-lab/medpredict/pkg/controller/http"
	"github.com/secmon-lab/medpredict/pkg/usecase"
	"github.com/secmon-lab/medpredict/pkg/utils/metrics"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		dashboardCfg config.Dashboard
		gaugeCfg     config.Gauge
		reportCfg    config.Report
	)

	flags := joinFlags(
		serverCfg.Flags(),
		dashboardCfg.Flags(),
		gaugeCfg.Flags(),
		reportCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the dashboard HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting medpredict server",
				slog.Any("server", serverCfg),
				slog.Any("dashboard", dashboardCfg),
				slog.Any("gauge", gaugeCfg),
				slog.Any("report", reportCfg),
			)

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			m := metrics.New(registry)

			predictor, opts, err := dashboardCfg.Configure()
			if err != nil {
				return err
			}
			dashboardUC, err := usecase.NewDashboard(predictor, reportCfg.Configure(),
				append(opts, usecase.WithMetrics(m))...)
			if err != nil {
				return goerr.Wrap(err, "failed to create dashboard use case")
			}

			server, err := controller.NewServer(ctx,
				controller.NewConfig(serverCfg.Addr, gaugeCfg.ServerOptions()...),
				dashboardUC,
				m,
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "HTTP server error", goerr.V("addr", serverCfg.Addr))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
