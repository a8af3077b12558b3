package main

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/paddock/internal/health"
	"github.com/yourusername/paddock/internal/scheduler"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scheduled race meetings with health and metrics endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := ensureStable(ctx); err != nil {
			return err
		}

		hc := health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Port:        strconv.Itoa(cfg.Metrics.Port),
			Logger:      appLog,
			DB:          pinger,
			Stable:      store.Horses(),
		}
		if cfg.Metrics.Enabled {
			hc.MetricsPath = cfg.Metrics.Path
		}

		var sched *scheduler.Scheduler
		if cfg.Scheduler.Enabled {
			rt, err := parseRaceType(cfg.Scheduler.RaceType)
			if err != nil {
				return err
			}
			sched = scheduler.NewScheduler(svc, appLog)
			if err := sched.ScheduleMeetings(cfg.Scheduler.Schedule, rt); err != nil {
				return fmt.Errorf("failed to schedule meetings: %w", err)
			}
			// a nil *Scheduler in the interface would not compare nil
			hc.Schedule = sched
		}

		server := health.NewServer(hc)
		if err := server.Start(ctx); err != nil {
			return err
		}

		if sched != nil {
			if err := sched.Start(); err != nil {
				return err
			}
		}
		server.SetReady(true)

		appLog.WithFields(logrus.Fields{
			"version":   Version,
			"scheduler": cfg.Scheduler.Enabled,
			"schedule":  cfg.Scheduler.Schedule,
			"port":      cfg.Metrics.Port,
		}).Info("Paddock daemon running")

		<-ctx.Done()
		appLog.Info("Shutdown signal received")
		server.SetReady(false)

		if sched != nil {
			if err := sched.Stop(); err != nil {
				appLog.WithError(err).Error("Error during scheduler shutdown")
			}
		}
		if err := server.Shutdown(); err != nil {
			appLog.WithError(err).Error("Error during health server shutdown")
		}

		appLog.Info("Paddock daemon shut down successfully")
		return nil
	},
}
