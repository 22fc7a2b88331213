// Package main provides a one-shot analysis tool: estimate a player's
// stat, evaluate it against a bookmaker line, or score a parlay from a
// JSON file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/yourusername/propedge/internal/config"
	"github.com/yourusername/propedge/internal/database"
	"github.com/yourusername/propedge/internal/logger"
	"github.com/yourusername/propedge/internal/models"
	"github.com/yourusername/propedge/internal/parlay"
	"github.com/yourusername/propedge/internal/predictor"
	"github.com/yourusername/propedge/internal/repository"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to configuration file")
		playerName = flag.String("player", "", "Player name to analyze")
		stat       = flag.String("stat", "points", "Stat category (points, rebounds, assists, steals, blocks, turnovers, minutes)")
		line       = flag.Float64("line", 0, "Bookmaker line to evaluate against (0 skips evaluation)")
		direction  = flag.String("direction", "OVER", "Side of the line (OVER or UNDER)")
		opponent   = flag.String("opponent", "", "Opponent team for defensive adjustment")
		daysRest   = flag.Int("rest", -1, "Days of rest before the game (-1 means unknown)")
		lookback   = flag.Int("lookback", 0, "Lookback window override (0 uses config)")
		decay      = flag.Float64("decay", 0, "Decay factor override (0 uses config)")
		parlayFile = flag.String("parlay", "", "Path to a parlay JSON file to analyze instead")
		asJSON     = flag.Bool("json", false, "Emit JSON instead of text")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	playerRepo := repository.NewPostgresPlayerRepository(db)
	teamRepo := repository.NewPostgresTeamRepository(db)
	gameRepo := repository.NewPostgresGameRepository(db)

	ratings := predictor.NewRatingCache(time.Duration(cfg.Prediction.RatingCacheTTLSecs) * time.Second)
	estimator := predictor.NewEstimator(playerRepo, gameRepo, teamRepo, ratings, &cfg.Prediction, appLog)
	analyzer := parlay.NewAnalyzer(estimator, &cfg.Prediction, &cfg.PaperTrading, appLog)

	if *parlayFile != "" {
		if err := analyzeParlayFile(ctx, analyzer, *parlayFile, *asJSON); err != nil {
			appLog.WithError(err).Fatal("Parlay analysis failed")
		}
		return
	}

	if *playerName == "" {
		flag.Usage()
		os.Exit(2)
	}

	statCat := models.StatCategory(*stat)
	if !statCat.IsValid() {
		appLog.Fatalf("Unknown stat category %q", *stat)
	}

	lb := cfg.Prediction.LookbackGames
	if *lookback > 0 {
		lb = *lookback
	}
	df := cfg.Prediction.DecayFactor
	if *decay > 0 {
		df = *decay
	}

	est, err := estimator.Estimate(ctx, *playerName, statCat, lb, df)
	if err != nil {
		appLog.WithError(err).Fatal("Estimation failed")
	}

	prediction := est.Prediction
	if *opponent != "" {
		prediction = estimator.ApplyOpponentAdjustment(ctx, prediction, *opponent, cfg.Prediction.LeagueAvgDefRating)
	}
	if *daysRest >= 0 {
		rest := *daysRest
		prediction = estimator.ApplyRestAdjustment(prediction, &rest)
	}

	if *line == 0 {
		printEstimate(*playerName, statCat, prediction, est, *asJSON)
		return
	}

	eval, err := predictor.EvaluateAgainstLine(prediction, est.StdDev, *line)
	if err != nil {
		appLog.WithError(err).Fatal("Evaluation failed")
	}

	printEvaluation(*playerName, statCat, models.Direction(*direction), eval, *asJSON)
}

func printEstimate(player string, stat models.StatCategory, prediction float64, est *predictor.Estimate, asJSON bool) {
	if asJSON {
		json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"player":     player,
			"stat":       stat,
			"prediction": prediction,
			"std_dev":    est.StdDev,
			"games_used": len(est.Games),
		})
		return
	}

	fmt.Printf("%s - %s\n", player, stat)
	fmt.Printf("  Prediction: %.1f (±%.1f over %d games)\n", prediction, est.StdDev, len(est.Games))
}

func printEvaluation(player string, stat models.StatCategory, direction models.Direction, eval *predictor.Evaluation, asJSON bool) {
	if asJSON {
		json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"player":     player,
			"stat":       stat,
			"direction":  direction,
			"evaluation": eval,
		})
		return
	}

	fmt.Printf("%s - %s %s %.1f\n", player, stat, direction, eval.Line)
	fmt.Printf("  Prediction:     %.1f (±%.1f)\n", eval.Prediction, eval.StdDev)
	fmt.Printf("  Z-score:        %+.2f\n", eval.ZScore)
	fmt.Printf("  P(over):        %.1f%%   P(under): %.1f%%\n", eval.ProbOver*100, eval.ProbUnder*100)
	fmt.Printf("  EV/$ over:      %+.3f   EV/$ under: %+.3f\n", eval.EVOver, eval.EVUnder)
	fmt.Printf("  Recommendation: %s (confidence %.2f)\n", eval.Recommendation, eval.Confidence)
}

func analyzeParlayFile(ctx context.Context, analyzer *parlay.Analyzer, path string, asJSON bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read parlay file: %w", err)
	}

	var p models.Parlay
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to parse parlay file: %w", err)
	}

	if err := analyzer.AnalyzeParlay(ctx, &p); err != nil {
		return err
	}

	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(&p)
	}

	fmt.Printf("Parlay: %d picks, $%.2f at %.2fx\n", len(p.Picks), p.Stake, p.PayoutMultiplier)
	for _, pick := range p.Picks {
		if pick.IsEvaluated() {
			fmt.Printf("  %-24s %s %s %.1f  p=%.3f\n", pick.PlayerName, pick.Stat, pick.Direction, pick.Line, *pick.Probability)
		} else {
			fmt.Printf("  %-24s %s %s %.1f  (no data)\n", pick.PlayerName, pick.Stat, pick.Direction, pick.Line)
		}
	}
	if p.ParlayProbability != nil {
		fmt.Printf("  Joint probability: %.3f\n", *p.ParlayProbability)
		fmt.Printf("  Expected value:    $%+.2f (ROI %+.1f%%)\n", *p.ExpectedValue, *p.ROI)
		fmt.Printf("  Quarter Kelly:     %.1f%% of bankroll\n", *p.QuarterKelly*100)
	}
	fmt.Printf("  Recommendation:    %s\n", p.Recommendation)

	return nil
}
