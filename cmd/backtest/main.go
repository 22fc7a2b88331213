// Package main provides the entry point for the historical replay CLI tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/propedge/internal/backtest"
	"github.com/yourusername/propedge/internal/config"
	"github.com/yourusername/propedge/internal/database"
	"github.com/yourusername/propedge/internal/logger"
	"github.com/yourusername/propedge/internal/models"
	"github.com/yourusername/propedge/internal/repository"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to configuration file")
		playerName = flag.String("player", "", "Player name to replay")
		stat       = flag.String("stat", "points", "Stat category (points, rebounds, assists, steals, blocks, turnovers, minutes)")
		mode       = flag.String("mode", "all", "Replay mode: replay, monte-carlo, sweep, all")
		decays     = flag.String("decays", "", "Comma-separated decay candidates for the sweep (defaults to 0.7,0.8,0.9,1.0)")
		output     = flag.String("output", "", "Output directory override for report files")
	)
	flag.Parse()

	if *playerName == "" {
		flag.Usage()
		os.Exit(2)
	}

	statCat := models.StatCategory(*stat)
	if !statCat.IsValid() {
		log.Fatalf("Unknown stat category %q", *stat)
	}

	cfg := loadConfigWithSecrets(*configPath)
	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	replayCfg, err := backtest.FromConfig(cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Invalid replay configuration")
	}
	if *output != "" {
		replayCfg.OutputPath = *output
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	engine, err := backtest.NewEngine(replayCfg, repository.NewPostgresPlayerRepository(db), repository.NewPostgresGameRepository(db), appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create replay engine")
	}

	appLog.WithFields(logrus.Fields{"player": *playerName, "stat": statCat, "mode": *mode}).Info("Starting replay")

	switch *mode {
	case "replay":
		runReplay(ctx, engine, *playerName, statCat, replayCfg, appLog, false)
	case "monte-carlo", "all":
		runReplay(ctx, engine, *playerName, statCat, replayCfg, appLog, true)
	case "sweep":
		runSweep(ctx, engine, *playerName, statCat, *decays, appLog)
	default:
		appLog.Fatalf("Unsupported mode: %s", *mode)
	}
}

func loadConfigWithSecrets(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
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
	return cfg
}

func runReplay(ctx context.Context, engine *backtest.Engine, player string, stat models.StatCategory, cfg backtest.ReplayConfig, appLog *logrus.Logger, withMonteCarlo bool) {
	state, metrics, err := engine.Run(ctx, player, stat)
	if err != nil {
		appLog.WithError(err).Fatal("Replay failed")
	}

	monteCarlo := backtest.MonteCarloResult{}
	if withMonteCarlo {
		monteCarlo, err = backtest.RunMonteCarlo(state.Bets, backtest.MonteCarloConfig{
			Iterations:      cfg.MonteCarloIterations,
			InitialBankroll: cfg.InitialBankroll,
		})
		if err != nil {
			appLog.WithError(err).Fatal("Monte Carlo resampling failed")
		}
	}

	aggregated := backtest.AggregateResults(player, string(stat), metrics, monteCarlo)
	fmt.Print(backtest.GenerateConsoleReport(aggregated))

	if cfg.OutputPath != "" {
		reportPath := filepath.Join(cfg.OutputPath, "replay_result.json")
		if err := backtest.ExportResultJSON(aggregated, reportPath); err != nil {
			appLog.WithError(err).Fatal("Failed to write result JSON")
		}
		curvePath := filepath.Join(cfg.OutputPath, "equity_curve.csv")
		if err := backtest.ExportEquityCurveCSV(state.EquityCurve, curvePath); err != nil {
			appLog.WithError(err).Fatal("Failed to write equity curve CSV")
		}
		appLog.WithField("path", cfg.OutputPath).Info("Reports written")
	}
}

func runSweep(ctx context.Context, engine *backtest.Engine, player string, stat models.StatCategory, decaysFlag string, appLog *logrus.Logger) {
	sweepCfg := backtest.SweepConfig{}
	if decaysFlag != "" {
		candidates, err := parseDecays(decaysFlag)
		if err != nil {
			appLog.WithError(err).Fatal("Invalid decay list")
		}
		sweepCfg.Decays = candidates
	}

	result, err := backtest.RunSweep(ctx, engine, player, stat, sweepCfg)
	if err != nil {
		appLog.WithError(err).Fatal("Sweep failed")
	}

	fmt.Printf("Decay sweep for %s (%s)\n", player, stat)
	for _, c := range result.Candidates {
		fmt.Printf("  decay %.2f: return %+.2f%%, win rate %.1f%%, composite %.2f, consistency %.2f\n",
			c.Decay, c.Metrics.TotalReturn*100, c.Metrics.WinRate*100, c.CompositeScore, c.ConsistencyScore)
	}
	fmt.Printf("Best: decay %.2f (composite %.2f)\n", result.Best.Decay, result.Best.CompositeScore)
}

func parseDecays(list string) ([]float64, error) {
	parts := strings.Split(list, ",")
	decays := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid decay %q: %w", part, err)
		}
		decays = append(decays, v)
	}
	return decays, nil
}
