// Package main provides the entry point for the background refresher.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/podium-picks/internal/config"
	"github.com/yourusername/podium-picks/internal/database"
	"github.com/yourusername/podium-picks/internal/health"
	"github.com/yourusername/podium-picks/internal/logger"
	"github.com/yourusername/podium-picks/internal/metrics"
	"github.com/yourusername/podium-picks/internal/repository"
	"github.com/yourusername/podium-picks/internal/scheduler"
	"github.com/yourusername/podium-picks/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		log.Fatalf("Failed to load secrets: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, logger.WithEnvironment(cfg.App.Environment))
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"season":      cfg.App.Season,
		"storage":     cfg.Storage.Driver,
		"version":     Version,
		"commit":      GitCommit,
	}).Info("Podium picks refresher starting")

	var db *database.DB
	if cfg.Storage.Driver == config.StoragePostgres {
		db, err = database.Initialize(ctx, cfg)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()
		appLog.Info("Database connection established")
	}

	repos, err := repository.NewRepositories(cfg.Storage, db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	services, err := service.NewServices(cfg, repos.Results, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize services")
	}

	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Season:      cfg.App.Season,
		Port:        cfg.Health.Port,
		Logger:      appLog,
		Cache:       services.Cache,
	}
	if db != nil {
		healthCfg.DB = db
	}
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		healthCfg.MetricsPath = cfg.Metrics.Path
		healthCfg.MetricsHandler = metrics.Handler()
	}
	healthServer := health.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	// Derive actuals once so standings are current before the first tick
	if _, err := services.Actuals.RefreshSeason(ctx, cfg.App.Season); err != nil {
		appLog.WithError(err).Error("Initial actual refresh failed")
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.NewScheduler(services.Actuals, services.Projections, cfg.App.Season, appLog)
		if err := sched.ScheduleActualRefresh(cfg.Scheduler.RefreshActuals); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule actual refresh")
		}
		if err := sched.ScheduleProjectionWarm(cfg.Scheduler.WarmProjections); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule projection warm")
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
		appLog.WithField("next_run", sched.GetNextRun()).Info("Scheduler running")
	} else {
		appLog.Info("Scheduler disabled; serving health and metrics only")
	}

	healthServer.SetReady(true)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	if sched != nil {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Error stopping scheduler")
		}
	}
	cancel()

	if err := healthServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error shutting down health server")
	}

	appLog.Info("Podium picks refresher shut down successfully")
}
