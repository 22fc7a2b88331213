// Package main provides the entry point for one-shot data ingestion:
// syncing players, teams and defensive profiles, and pulling game logs
// for the configured player list.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/yourusername/propedge/internal/config"
	"github.com/yourusername/propedge/internal/database"
	"github.com/yourusername/propedge/internal/datasource"
	"github.com/yourusername/propedge/internal/repository"
	"github.com/yourusername/propedge/internal/service"
)

func main() {
	var (
		configPath  = flag.String("config", "config/config.yaml", "Path to configuration file")
		syncPlayers = flag.Bool("players", false, "Sync the league player list")
		syncTeams   = flag.Bool("teams", false, "Sync teams and defensive profiles")
		gamesFor    = flag.String("games", "", "Comma-separated player names to ingest game logs for (empty uses config)")
		maxGames    = flag.Int("max-games", 0, "Cap on games ingested per player (0 uses config)")
		all         = flag.Bool("all", false, "Run the full sync: players, teams, defense and game logs")
		timeout     = flag.Duration("timeout", 30*time.Minute, "Overall run timeout")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
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

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := database.Initialize(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	stdLog := log.New(os.Stdout, "", log.LstdFlags)
	source, httpClient := datasource.NewFromConfig(&cfg.StatsAPI, stdLog)
	defer httpClient.Close()

	playerRepo := repository.NewPostgresPlayerRepository(db)
	teamRepo := repository.NewPostgresTeamRepository(db)
	gameRepo := repository.NewPostgresGameRepository(db)

	svc := service.NewIngestionService(source, playerRepo, teamRepo, gameRepo, stdLog, cfg.StatsAPI.Season)

	if *all || *syncPlayers {
		if err := svc.SyncPlayers(ctx); err != nil {
			log.Fatalf("Player sync failed: %v", err)
		}
	}

	if *all || *syncTeams {
		if err := svc.SyncTeams(ctx); err != nil {
			log.Fatalf("Team sync failed: %v", err)
		}
		if err := svc.SyncDefensiveProfiles(ctx); err != nil {
			log.Fatalf("Defensive profile sync failed: %v", err)
		}
	}

	players := cfg.Ingestion.Players
	if *gamesFor != "" {
		players = nil
		for _, name := range strings.Split(*gamesFor, ",") {
			if name = strings.TrimSpace(name); name != "" {
				players = append(players, name)
			}
		}
	}

	cap := cfg.Ingestion.MaxGamesPerPlayer
	if *maxGames > 0 {
		cap = *maxGames
	}

	if *all || *gamesFor != "" || (!*syncPlayers && !*syncTeams) {
		ok, failed := svc.IngestAllConfigured(ctx, players, cap)
		stdLog.Printf("Game log ingestion finished: %d ok, %d failed", ok, failed)
		if failed > 0 && ok == 0 {
			os.Exit(1)
		}
	}

	stdLog.Printf("Ingestion run complete: %s", svc.Metrics().String())
}
