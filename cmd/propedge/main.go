// Package main provides the entry point for the long-running prediction
// and paper-trading service: scheduled ingestion, bet auto-resolution,
// health checks and metrics.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/propedge/internal/config"
	"github.com/yourusername/propedge/internal/database"
	"github.com/yourusername/propedge/internal/datasource"
	"github.com/yourusername/propedge/internal/health"
	"github.com/yourusername/propedge/internal/ledger"
	"github.com/yourusername/propedge/internal/logger"
	"github.com/yourusername/propedge/internal/metrics"
	"github.com/yourusername/propedge/internal/repository"
	"github.com/yourusername/propedge/internal/scheduler"
	"github.com/yourusername/propedge/internal/service"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

func main() {
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("PropEdge service starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Initialize(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	// Repositories
	playerRepo := repository.NewPostgresPlayerRepository(db)
	teamRepo := repository.NewPostgresTeamRepository(db)
	gameRepo := repository.NewPostgresGameRepository(db)
	accountRepo := repository.NewPostgresAccountRepository(db)
	singleRepo := repository.NewPostgresSingleBetRepository(db)
	parlayRepo := repository.NewPostgresParlayRepository(db)
	snapshotRepo := repository.NewPostgresSnapshotRepository(db)

	// Data source and ingestion
	stdLog := log.New(os.Stdout, "", log.LstdFlags)
	source, httpClient := datasource.NewFromConfig(&cfg.StatsAPI, stdLog)
	defer httpClient.Close()

	ingestionSvc := service.NewIngestionService(source, playerRepo, teamRepo, gameRepo, stdLog, cfg.StatsAPI.Season)

	// Ledger and auto-resolver
	manager := ledger.NewManager(db, accountRepo, playerRepo, singleRepo, parlayRepo, snapshotRepo, &cfg.PaperTrading, appLog)
	resolver := ledger.NewResolver(manager, gameRepo, appLog)

	// Scheduler
	sched := scheduler.NewScheduler(ingestionSvc, resolver, stdLog)
	if cfg.Ingestion.DefensiveRefreshCron != "" {
		if err := sched.ScheduleIngestion(cfg.Ingestion.DefensiveRefreshCron, cfg.Ingestion.Players, cfg.Ingestion.MaxGamesPerPlayer); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule ingestion job")
		}
	}
	if cfg.Ingestion.AutoResolveCron != "" {
		if err := sched.ScheduleAutoResolve(cfg.Ingestion.AutoResolveCron); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule auto-resolve job")
		}
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}
	defer sched.Stop()

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		go func() {
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			appLog.WithField("addr", addr).Info("Metrics server starting")
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(addr, mux); err != nil {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	// Health check server
	healthPort := ""
	if cfg.Health.Port > 0 {
		healthPort = strconv.Itoa(cfg.Health.Port)
	}
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        healthPort,
		Logger:      appLog,
	})
	healthServer.AddCheck("database", db.HealthCheck)
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthServer.SetReady(true)

	appLog.WithField("next_run", sched.GetNextRun().Format(time.RFC3339)).Info("PropEdge service running")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	appLog.WithField("signal", sig.String()).Info("Shutting down")
	healthServer.SetReady(false)
	cancel()
}
