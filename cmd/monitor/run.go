package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/webhookmonitor/internal/config"
	"github.com/hamed0406/webhookmonitor/internal/httpapi"
	"github.com/hamed0406/webhookmonitor/internal/logging"
	"github.com/hamed0406/webhookmonitor/internal/monitor"
	"github.com/hamed0406/webhookmonitor/internal/notify"
	"github.com/hamed0406/webhookmonitor/internal/probe"
	"github.com/hamed0406/webhookmonitor/internal/scheduler"
)

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start monitoring the configured endpoints",
		Long: `Loads the servers file, then probes every endpoint on CHECK_SCHEDULE
until interrupted. With API_ADDR set, a read-only status API is served too.

Example:
  webhookmonitor run --servers /etc/monitor/servers.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(cmd.Context(), loadConfig(opts))
		},
	}
}

func runMonitor(ctx context.Context, cfg config.Config) error {
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	endpoints, err := config.LoadEndpoints(cfg.ServersFile)
	if err != nil {
		logger.Error("config_invalid", zap.String("servers_file", cfg.ServersFile), zap.Error(err))
		return err
	}
	for _, ep := range endpoints {
		logger.Info("endpoint_configured",
			zap.String("name", ep.Name),
			zap.String("url", ep.URL),
			zap.String("notify", notify.Format(ep.Destination)),
			zap.Duration("timeout", ep.Timeout),
		)
	}

	sink := notify.NewSink(logger, notify.NewRouter(), cfg.NotifyTimeout)
	loop := monitor.NewLoop(logger, probe.NewHTTPChecker(), sink, cfg.MaxConcurrentChecks)

	sched, err := scheduler.New(logger, cfg.CheckSchedule, func(ctx context.Context) {
		loop.RunCycle(ctx, endpoints)
	})
	if err != nil {
		logger.Error("schedule_invalid", zap.String("spec", cfg.CheckSchedule), zap.Error(err))
		return err
	}
	sched.RunOnStart = cfg.CheckOnStart

	var srv *http.Server
	if cfg.Addr != "" {
		api := httpapi.NewServer(logger, endpoints, loop)
		api.Keys = cfg.StatusAPIKeys
		api.RPM = cfg.StatusAPIRPM
		api.Burst = cfg.StatusAPIBurst
		srv = &http.Server{
			Addr:              cfg.Addr,
			Handler:           api.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("api_listen", zap.String("addr", cfg.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("api_listen_failed", zap.Error(err))
			}
		}()
	}

	logger.Info("monitor_started",
		zap.Int("endpoints", len(endpoints)),
		zap.String("schedule", sched.Spec),
		zap.Time("next_run", sched.Next(time.Now())),
		zap.Int("max_concurrent_checks", cfg.MaxConcurrentChecks),
	)

	runErr := sched.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("api_shutdown", zap.Error(err))
		}
	}
	logger.Info("monitor_stopped")
	return runErr
}
