package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/courtside/internal/api"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with its background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		metricsPath = cfg.Metrics.Path
	}

	server := api.NewServer(api.Config{
		ServiceName:    cfg.App.Name,
		Version:        Version,
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MetricsPath:    metricsPath,
		Logger:         appLog,
		Service:        svc,
	})

	jobs := scheduler.NewScheduler(svc.Seasons(), svc.Cache(), appLog)
	if cfg.Scheduler.SeasonRefresh != "" {
		if err := jobs.ScheduleSeasonRefresh(cfg.Scheduler.SeasonRefresh); err != nil {
			return err
		}
	}
	if cfg.Scheduler.CachePurge != "" && svc.Cache().Enabled() {
		if err := jobs.ScheduleCachePurge(cfg.Scheduler.CachePurge); err != nil {
			return err
		}
	}
	if len(jobs.Entries()) > 0 {
		if err := jobs.Start(); err != nil {
			return err
		}
		defer func() {
			if err := jobs.Stop(); err != nil {
				appLog.WithError(err).Warn("Scheduler did not stop cleanly")
			}
		}()
	}

	if err := server.Start(ctx); err != nil {
		return err
	}

	appLog.WithFields(logrus.Fields{
		"environment":    cfg.App.Environment,
		"port":           cfg.Server.Port,
		"current_season": svc.Seasons().Current().ID,
		"metrics":        metricsPath,
		"jobs":           len(jobs.Entries()),
	}).Info("Courtside API running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	return server.Shutdown()
}
