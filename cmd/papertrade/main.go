// Package main provides the paper-trading CLI: placing, resolving and
// voiding simulated wagers, and reporting account performance.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/propedge/internal/config"
	"github.com/yourusername/propedge/internal/database"
	"github.com/yourusername/propedge/internal/ledger"
	"github.com/yourusername/propedge/internal/models"
	"github.com/yourusername/propedge/internal/parlay"
	"github.com/yourusername/propedge/internal/predictor"
	"github.com/yourusername/propedge/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	logger     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	manager    *ledger.Manager
	resolver   *ledger.Resolver
	estimator  *predictor.Estimator
	analyzer   *parlay.Analyzer
)

var (
	placePlayer    string
	placeStat      string
	placeLine      float64
	placeDirection string
	placeStake     float64
	placeOpponent  string
	placeRest      int
	placeGameDate  string

	parlayFile  string
	parlayForce bool

	voidKind   string
	voidReason string

	historyStatus  string
	historyLimit   int
	historyParlays bool

	bankrollDays int

	resolveResultsFile string

	resetBankroll float64
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	placeCmd.Flags().StringVar(&placePlayer, "player", "", "Player name")
	placeCmd.Flags().StringVar(&placeStat, "stat", "points", "Stat category")
	placeCmd.Flags().Float64Var(&placeLine, "line", 0, "Posted line")
	placeCmd.Flags().StringVar(&placeDirection, "direction", "OVER", "OVER or UNDER")
	placeCmd.Flags().Float64Var(&placeStake, "stake", 0, "Stake amount")
	placeCmd.Flags().StringVar(&placeOpponent, "opponent", "", "Opponent team (optional)")
	placeCmd.Flags().IntVar(&placeRest, "rest", -1, "Days of rest before the game (-1 if unknown)")
	placeCmd.Flags().StringVar(&placeGameDate, "game-date", "", "Game date YYYY-MM-DD (optional)")
	placeCmd.MarkFlagRequired("player")
	placeCmd.MarkFlagRequired("line")
	placeCmd.MarkFlagRequired("stake")

	placeParlayCmd.Flags().StringVarP(&parlayFile, "file", "f", "", "Path to parlay JSON file")
	placeParlayCmd.Flags().BoolVar(&parlayForce, "force", false, "Place the parlay even when the recommendation is SKIP")
	placeParlayCmd.MarkFlagRequired("file")

	resolveParlayCmd.Flags().StringVarP(&resolveResultsFile, "results", "r", "", "Path to JSON file mapping leg IDs to actual stat values")
	resolveParlayCmd.MarkFlagRequired("results")

	voidCmd.Flags().StringVar(&voidKind, "kind", "single", "Bet kind: single or parlay")
	voidCmd.Flags().StringVar(&voidReason, "reason", "manual void", "Reason recorded on the void")

	historyCmd.Flags().StringVar(&historyStatus, "status", "", "Filter by status: won, lost or void")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum rows returned")
	historyCmd.Flags().BoolVar(&historyParlays, "parlays", false, "Show parlay history instead of singles")

	bankrollCmd.Flags().IntVar(&bankrollDays, "days", 30, "Number of days of snapshots")

	resetCmd.Flags().Float64Var(&resetBankroll, "bankroll", 1000.0, "Bankroll to reset the account to")
}

var rootCmd = &cobra.Command{
	Use:   "papertrade",
	Short: "Manage the paper trading ledger",
	Long:  `Place, resolve and void paper wagers against predicted player props, and report account performance.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
}

var placeCmd = &cobra.Command{
	Use:   "place",
	Short: "Place a single bet",
	RunE: func(cmd *cobra.Command, args []string) error {
		return placeSingle(cmd.Context())
	},
}

var placeParlayCmd = &cobra.Command{
	Use:   "place-parlay",
	Short: "Analyze and place a parlay from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return placeParlay(cmd.Context())
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <bet-id> <actual>",
	Short: "Resolve a single bet against a realized stat value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return resolveSingle(cmd.Context(), args[0], args[1])
	},
}

var resolveParlayCmd = &cobra.Command{
	Use:   "resolve-parlay <parlay-id>",
	Short: "Resolve a parlay using a file of per-leg results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return resolveParlay(cmd.Context(), args[0])
	},
}

var voidCmd = &cobra.Command{
	Use:   "void <bet-id>",
	Short: "Void a pending bet and refund its stake",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return voidBet(cmd.Context(), args[0])
	},
}

var autoResolveCmd = &cobra.Command{
	Use:   "auto-resolve",
	Short: "Resolve all pending bets against ingested game results",
	RunE: func(cmd *cobra.Command, args []string) error {
		resolved, failed := resolver.AutoResolveAll(cmd.Context())
		fmt.Printf("Auto-resolve complete: %d resolved, %d failed\n", resolved, failed)
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show account standing",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showSummary(cmd.Context())
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List pending bets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showPending(cmd.Context())
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List resolved bets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showHistory(cmd.Context())
	},
}

var bankrollCmd = &cobra.Command{
	Use:   "bankroll",
	Short: "Show bankroll history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showBankroll(cmd.Context())
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the account to a fresh bankroll and zeroed counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return resetAccount(cmd.Context())
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show performance by stat category and confidence",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStats(cmd.Context())
	},
}

func main() {
	rootCmd.AddCommand(placeCmd, placeParlayCmd, resolveCmd, resolveParlayCmd, voidCmd,
		autoResolveCmd, summaryCmd, pendingCmd, historyCmd, bankrollCmd, resetCmd, statsCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func setupDependencies() error {
	logger = logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	var err error
	db, err = database.Initialize(context.Background(), &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	playerRepo := repository.NewPostgresPlayerRepository(db)
	teamRepo := repository.NewPostgresTeamRepository(db)
	gameRepo := repository.NewPostgresGameRepository(db)
	accountRepo := repository.NewPostgresAccountRepository(db)
	singleRepo := repository.NewPostgresSingleBetRepository(db)
	parlayRepo := repository.NewPostgresParlayRepository(db)
	snapshotRepo := repository.NewPostgresSnapshotRepository(db)

	ratings := predictor.NewRatingCache(time.Duration(cfg.Prediction.RatingCacheTTLSecs) * time.Second)
	estimator = predictor.NewEstimator(playerRepo, gameRepo, teamRepo, ratings, &cfg.Prediction, logger)
	analyzer = parlay.NewAnalyzer(estimator, &cfg.Prediction, &cfg.PaperTrading, logger)

	manager = ledger.NewManager(db, accountRepo, playerRepo, singleRepo, parlayRepo, snapshotRepo, &cfg.PaperTrading, logger)
	resolver = ledger.NewResolver(manager, gameRepo, logger)

	return nil
}

func placeSingle(ctx context.Context) error {
	stat := models.StatCategory(placeStat)
	if !stat.IsValid() {
		return fmt.Errorf("unknown stat category %q", placeStat)
	}
	direction := models.Direction(placeDirection)
	if direction != models.DirectionOver && direction != models.DirectionUnder {
		return models.ErrInvalidDirection
	}

	est, err := estimator.Estimate(ctx, placePlayer, stat, estimator.LookbackGames(), estimator.DecayFactor())
	if err != nil {
		return fmt.Errorf("failed to estimate %s %s: %w", placePlayer, stat, err)
	}

	prediction := est.Prediction
	var opponent *string
	if placeOpponent != "" {
		opponent = &placeOpponent
		prediction = estimator.ApplyOpponentAdjustment(ctx, prediction, placeOpponent, estimator.LeagueAvgDefRating())
	}
	var daysRest *int
	if placeRest >= 0 {
		rest := placeRest
		daysRest = &rest
	}
	prediction = estimator.ApplyRestAdjustment(prediction, daysRest)

	eval, err := predictor.EvaluateAgainstLine(prediction, est.StdDev, placeLine)
	if err != nil {
		return fmt.Errorf("failed to evaluate line: %w", err)
	}

	var gameDate *time.Time
	if placeGameDate != "" {
		parsed, err := time.Parse("2006-01-02", placeGameDate)
		if err != nil {
			return fmt.Errorf("invalid game date %q: %w", placeGameDate, err)
		}
		gameDate = &parsed
	}

	stdDev := est.StdDev
	betID, err := manager.PlaceSingleBet(ctx, ledger.SingleBetRequest{
		PlayerName:  placePlayer,
		Stat:        stat,
		Line:        placeLine,
		Direction:   direction,
		Stake:       decimal.NewFromFloat(placeStake),
		Prediction:  prediction,
		Probability: eval.DirectionalProbability(direction),
		Confidence:  eval.Confidence,
		StdDev:      &stdDev,
		Opponent:    opponent,
		DaysRest:    daysRest,
		GameDate:    gameDate,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Bet placed: %s\n", betID)
	fmt.Printf("  %s %s %s %.1f @ %.0f\n", placePlayer, direction, stat, placeLine, models.DefaultAmericanOdds)
	fmt.Printf("  Prediction: %.2f (±%.2f)  P(win): %.1f%%  EV/unit: %+.3f\n",
		prediction, est.StdDev, eval.DirectionalProbability(direction)*100, eval.DirectionalEV(direction))
	return nil
}

func placeParlay(ctx context.Context) error {
	data, err := os.ReadFile(parlayFile)
	if err != nil {
		return fmt.Errorf("failed to read parlay file: %w", err)
	}

	var p models.Parlay
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to parse parlay file: %w", err)
	}

	if err := analyzer.AnalyzeParlay(ctx, &p); err != nil {
		return fmt.Errorf("failed to analyze parlay: %w", err)
	}

	fmt.Printf("Recommendation: %s\n", p.Recommendation)
	if p.ParlayProbability != nil {
		fmt.Printf("  Joint probability: %.1f%%\n", *p.ParlayProbability*100)
	}
	if p.ExpectedValue != nil {
		fmt.Printf("  Expected value: $%.2f (ROI %.1f%%)\n", *p.ExpectedValue, *p.ROI)
	}
	if p.QuarterKelly != nil {
		fmt.Printf("  Quarter-Kelly fraction: %.4f\n", *p.QuarterKelly)
	}

	if p.Recommendation != parlay.RecommendBet && !parlayForce {
		fmt.Println("Not placed. Use --force to place anyway.")
		return nil
	}
	if p.ParlayProbability == nil || p.ExpectedValue == nil {
		return fmt.Errorf("parlay cannot be placed without a complete evaluation")
	}

	legs := make([]ledger.ParlayLegRequest, 0, len(p.Picks))
	for _, pick := range p.Picks {
		if !pick.IsEvaluated() {
			return fmt.Errorf("pick %s %s was not evaluated", pick.PlayerName, pick.Stat)
		}
		legs = append(legs, ledger.ParlayLegRequest{
			PlayerName:  pick.PlayerName,
			Stat:        pick.Stat,
			Line:        pick.Line,
			Direction:   pick.Direction,
			Prediction:  *pick.Prediction,
			Probability: *pick.Probability,
			Confidence:  *pick.Confidence,
			Opponent:    pick.Opponent,
			DaysRest:    pick.DaysRest,
		})
	}

	parlayID, err := manager.PlaceParlayBet(ctx, ledger.ParlayBetRequest{
		Stake:            decimal.NewFromFloat(p.Stake),
		PayoutMultiplier: p.PayoutMultiplier,
		Probability:      *p.ParlayProbability,
		ExpectedValue:    decimal.NewFromFloat(*p.ExpectedValue),
		Legs:             legs,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Parlay placed: %s (%d legs, stake $%.2f)\n", parlayID, len(legs), p.Stake)
	return nil
}

func resolveSingle(ctx context.Context, idArg, actualArg string) error {
	betID, err := uuid.Parse(idArg)
	if err != nil {
		return fmt.Errorf("invalid bet ID %q: %w", idArg, err)
	}
	var actual float64
	if _, err := fmt.Sscanf(actualArg, "%f", &actual); err != nil {
		return fmt.Errorf("invalid actual value %q: %w", actualArg, err)
	}

	profitLoss, err := manager.ResolveSingleBet(ctx, betID, actual)
	if err != nil {
		return err
	}

	fmt.Printf("Bet %s resolved: profit/loss %s\n", betID, profitLoss.StringFixed(2))
	return nil
}

func resolveParlay(ctx context.Context, idArg string) error {
	parlayID, err := uuid.Parse(idArg)
	if err != nil {
		return fmt.Errorf("invalid parlay ID %q: %w", idArg, err)
	}

	data, err := os.ReadFile(resolveResultsFile)
	if err != nil {
		return fmt.Errorf("failed to read results file: %w", err)
	}

	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse results file: %w", err)
	}

	legResults := make(map[uuid.UUID]float64, len(raw))
	for id, actual := range raw {
		legID, err := uuid.Parse(id)
		if err != nil {
			return fmt.Errorf("invalid leg ID %q: %w", id, err)
		}
		legResults[legID] = actual
	}

	profitLoss, err := manager.ResolveParlayBet(ctx, parlayID, legResults)
	if err != nil {
		return err
	}

	fmt.Printf("Parlay %s resolved: profit/loss %s\n", parlayID, profitLoss.StringFixed(2))
	return nil
}

func voidBet(ctx context.Context, idArg string) error {
	betID, err := uuid.Parse(idArg)
	if err != nil {
		return fmt.Errorf("invalid bet ID %q: %w", idArg, err)
	}

	kind := models.BetKind(voidKind)
	if kind != models.BetKindSingle && kind != models.BetKindParlay {
		return fmt.Errorf("kind must be single or parlay, got %q", voidKind)
	}

	if err := manager.VoidBet(ctx, betID, kind, voidReason); err != nil {
		return err
	}

	fmt.Printf("Bet %s voided: %s\n", betID, voidReason)
	return nil
}

func resetAccount(ctx context.Context) error {
	bankroll := decimal.NewFromFloat(resetBankroll)
	if err := manager.ResetAccount(ctx, bankroll); err != nil {
		return err
	}

	fmt.Printf("Account reset: bankroll $%s, counters cleared\n", bankroll.StringFixed(2))
	return nil
}

func showSummary(ctx context.Context) error {
	summary, err := manager.Summary(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Account: %s\n", summary.UserID)
	fmt.Printf("  Bankroll:  $%s (started $%s)\n", summary.CurrentBankroll.StringFixed(2), summary.StartingBankroll.StringFixed(2))
	fmt.Printf("  Profit:    $%s (ROI %.1f%%)\n", summary.TotalProfit.StringFixed(2), summary.ROI)
	fmt.Printf("  Record:    %d-%d-%d (%.1f%% win rate, %d placed)\n",
		summary.TotalBetsWon, summary.TotalBetsLost, summary.TotalBetsVoid, summary.WinRate, summary.TotalBetsPlaced)
	fmt.Printf("  Pending:   %d singles, %d parlays\n", summary.PendingSingles, summary.PendingParlays)
	return nil
}

func showPending(ctx context.Context) error {
	singles, parlays, err := manager.PendingBets(ctx)
	if err != nil {
		return err
	}

	if len(singles) == 0 && len(parlays) == 0 {
		fmt.Println("No pending bets.")
		return nil
	}

	for _, bet := range singles {
		fmt.Printf("%s  %s %s %s %.1f  stake $%s  placed %s\n",
			bet.ID, bet.PlayerName, bet.Direction, bet.Stat, bet.Line,
			bet.Stake.StringFixed(2), bet.PlacedAt.Format("2006-01-02"))
	}
	for _, bet := range parlays {
		fmt.Printf("%s  parlay x%.2f (%d legs)  stake $%s  placed %s\n",
			bet.ID, bet.PayoutMultiplier, bet.NumPicks,
			bet.Stake.StringFixed(2), bet.PlacedAt.Format("2006-01-02"))
	}
	return nil
}

func showHistory(ctx context.Context) error {
	var status *models.BetStatus
	if historyStatus != "" {
		s := models.BetStatus(historyStatus)
		if s != models.BetStatusWon && s != models.BetStatusLost && s != models.BetStatusVoid {
			return fmt.Errorf("status must be won, lost or void, got %q", historyStatus)
		}
		status = &s
	}

	if historyParlays {
		parlays, err := manager.ParlayHistory(ctx, status, historyLimit)
		if err != nil {
			return err
		}
		for _, bet := range parlays {
			fmt.Printf("%s  %-5s  x%.2f (%d legs)  stake $%s  P/L %s\n",
				bet.ID, bet.Status, bet.PayoutMultiplier, bet.NumPicks,
				bet.Stake.StringFixed(2), bet.ProfitLoss.StringFixed(2))
		}
		return nil
	}

	singles, err := manager.BetHistory(ctx, status, historyLimit)
	if err != nil {
		return err
	}
	for _, bet := range singles {
		actual := "-"
		if bet.ActualResult != nil {
			actual = fmt.Sprintf("%.1f", *bet.ActualResult)
		}
		fmt.Printf("%s  %-5s  %s %s %s %.1f (actual %s)  P/L %s\n",
			bet.ID, bet.Status, bet.PlayerName, bet.Direction, bet.Stat, bet.Line,
			actual, bet.ProfitLoss.StringFixed(2))
	}
	return nil
}

func showBankroll(ctx context.Context) error {
	snapshots, err := manager.BankrollHistory(ctx, bankrollDays)
	if err != nil {
		return err
	}

	if len(snapshots) == 0 {
		fmt.Println("No bankroll history yet.")
		return nil
	}

	for _, snap := range snapshots {
		fmt.Printf("%s  bankroll $%s  profit $%s  bets %d  win rate %.1f%%\n",
			snap.Timestamp.Format(time.RFC3339), snap.Bankroll.StringFixed(2),
			snap.TotalProfit.StringFixed(2), snap.TotalBets, snap.WinRate)
	}
	return nil
}

func showStats(ctx context.Context) error {
	byStat, err := manager.PerformanceByStat(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Performance by stat category:")
	for _, stat := range models.ValidStatCategories {
		perf, ok := byStat[stat]
		if !ok {
			continue
		}
		fmt.Printf("  %-10s %d-%d-%d  (%.1f%%)  P/L $%s\n",
			perf.Stat, perf.Won, perf.Lost, perf.Void, perf.WinRate, perf.ProfitLoss.StringFixed(2))
	}

	buckets, err := manager.WinRateByConfidence(ctx)
	if err != nil {
		return err
	}

	fmt.Println("\nWin rate by confidence:")
	for _, b := range buckets {
		if b.Bets == 0 {
			continue
		}
		high := fmt.Sprintf("%.1f", b.High)
		if b.High > 100 {
			high = "+"
		}
		fmt.Printf("  |z| %.1f-%s  %d/%d  (%.1f%%)\n", b.Low, high, b.Won, b.Bets, b.WinRate)
	}

	return nil
}
