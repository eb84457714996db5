// Package main provides the hellraiser command line interface.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/hellraiser/internal/analysis"
	"github.com/yourusername/hellraiser/internal/config"
	"github.com/yourusername/hellraiser/internal/database"
	"github.com/yourusername/hellraiser/internal/datasource"
	"github.com/yourusername/hellraiser/internal/ensemble"
	applogger "github.com/yourusername/hellraiser/internal/logger"
	"github.com/yourusername/hellraiser/internal/models"
	"github.com/yourusername/hellraiser/internal/repository"
	"github.com/yourusername/hellraiser/internal/service"
	"github.com/yourusername/hellraiser/internal/tracing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	logLevel   string
	gameDate   string
	playerName string
	teamFilter string
	lookback   int
	reportDir  string
	retention  int

	logger    *logrus.Logger
	cfg       *config.Config
	db        *database.DB
	repos     *repository.Repositories
	predictor *service.PredictionService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	predictCmd.Flags().StringVarP(&gameDate, "date", "d", "", "Game date to evaluate (YYYY-MM-DD, default today)")
	predictCmd.Flags().StringVarP(&playerName, "player", "p", "", "Evaluate a single player instead of the slate")
	predictCmd.Flags().StringVarP(&teamFilter, "team", "t", "", "Restrict the stored slate to one team")

	analyzeCmd.Flags().IntVar(&lookback, "days", 0, "Override the configured lookback window")
	analyzeCmd.Flags().StringVar(&reportDir, "out", "", "Override the configured report directory")

	demoCmd.Flags().StringVarP(&gameDate, "date", "d", "", "Game date for the demo slate (YYYY-MM-DD, default today)")

	purgeCmd.Flags().IntVar(&retention, "older-than", 365, "Remove archived rows older than this many days")
}

var rootCmd = &cobra.Command{
	Use:   "hellraiser",
	Short: "Ensemble home-run confidence estimation",
	Long: `Evaluates slates of player batting records through a five-signal
statistical ensemble and surfaces ranked home-run confidence picks.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return initRuntime()
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Evaluate archived player records and surface picks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runPredict(ctx)
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze archived prediction performance",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runAnalyze(ctx)
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the deterministic synthetic slate",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo(context.Background())
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove archived rows past the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runPurge(ctx)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hellraiser %s\n", Version)
		fmt.Printf("  commit: %s\n", GitCommit)
		fmt.Printf("  built:  %s\n", BuildDate)
	},
}

func main() {
	rootCmd.AddCommand(predictCmd, analyzeCmd, demoCmd, purgeCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// initRuntime loads configuration, secrets, logging and tracing
func initRuntime() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if logLevel != "" {
		cfg.App.LogLevel = logLevel
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

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		return fmt.Errorf("invalid configuration for %s: %w", cfg.App.Environment, err)
	}

	logger = applogger.NewLogger(cfg.App.LogLevel)

	if err := tracing.Initialize(tracing.Config{
		ServiceName:   cfg.Tracing.ServiceName,
		Enabled:       cfg.Tracing.Enabled,
		SamplingRate:  cfg.Tracing.SamplingRate,
		DaemonAddress: cfg.Tracing.DaemonAddress,
	}, logger); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	return nil
}

// ensureDatabase connects to the archive and prepares repositories
func ensureDatabase(ctx context.Context) error {
	if db != nil {
		return nil
	}

	var err error
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	return nil
}

// buildPredictor wires the source, estimator and service. A nil repos is
// fine; it just disables the archive paths.
func buildPredictor() error {
	source, err := datasource.New(cfg.DataSource, logger)
	if err != nil {
		return fmt.Errorf("failed to create data source: %w", err)
	}

	estimator, err := ensemble.NewEstimator(cfg.Ensemble, logger)
	if err != nil {
		return fmt.Errorf("failed to build estimator: %w", err)
	}

	predictor = service.NewPredictionService(cfg, source, estimator, repos, logger)
	return nil
}

// traced wraps fn in an X-Ray segment when tracing is enabled
func traced(ctx context.Context, name string, fn func(context.Context) error) error {
	if !cfg.Tracing.Enabled {
		return fn(ctx)
	}

	segCtx, seg := tracing.StartRun(ctx, name)
	err := fn(segCtx)
	seg.Close(err)
	return err
}

func runPredict(ctx context.Context) error {
	date, err := resolveGameDate()
	if err != nil {
		return err
	}

	if err := ensureDatabase(ctx); err != nil {
		return err
	}
	defer db.Close()

	if err := buildPredictor(); err != nil {
		return err
	}

	return traced(ctx, "hellraiser-predict", func(ctx context.Context) error {
		tracing.AddAnnotation(ctx, "run_type", cfg.Prediction.RunType)
		tracing.AddAnnotation(ctx, "game_date", date.Format("2006-01-02"))

		if playerName != "" {
			prediction, err := predictor.PredictPlayer(ctx, playerName, date)
			if err != nil {
				return err
			}
			printPrediction(prediction)
			return nil
		}

		result, err := predictor.RunStoredSlate(ctx, date, teamFilter)
		if err != nil {
			return err
		}
		printSlate(result)
		return nil
	})
}

func runAnalyze(ctx context.Context) error {
	if err := ensureDatabase(ctx); err != nil {
		return err
	}
	defer db.Close()

	if lookback > 0 {
		cfg.Analysis.LookbackDays = lookback
	}
	dir := cfg.Analysis.ReportPath
	if reportDir != "" {
		dir = reportDir
	}

	analyzer := analysis.NewAnalyzer(repos.Prediction, cfg.Analysis, logger)

	return traced(ctx, "hellraiser-analyze", func(ctx context.Context) error {
		report, err := analyzer.Analyze(ctx)
		if err != nil {
			return err
		}

		if report.Total == 0 {
			fmt.Printf("No archived predictions in the last %d days\n", report.LookbackDays)
			return nil
		}

		path, err := analyzer.WriteReport(report, dir)
		if err != nil {
			return err
		}

		fmt.Printf("Analyzed %d predictions from the last %d days\n", report.Total, report.LookbackDays)
		fmt.Printf("Mean confidence %.1f (stddev %.2f), mean interval width %.1f\n",
			report.Summary.Mean, report.Summary.StdDev, report.Intervals.MeanWidth)
		for _, pathway := range report.Pathways {
			fmt.Printf("  %-34s %3d picks, avg %.1f\n", pathway.Pathway, pathway.Count, pathway.MeanConfidence)
		}
		fmt.Printf("Report saved: %s\n", path)
		return nil
	})
}

// runDemo evaluates the synthetic roster without touching the archive
func runDemo(ctx context.Context) error {
	cfg.DataSource.Provider = string(datasource.SyntheticSourceType)
	cfg.Prediction.ArchiveEnabled = false

	date, err := resolveGameDate()
	if err != nil {
		return err
	}

	if err := buildPredictor(); err != nil {
		return err
	}

	result, err := predictor.RunSlate(ctx, date)
	if err != nil {
		return err
	}
	printSlate(result)
	return nil
}

func runPurge(ctx context.Context) error {
	if err := ensureDatabase(ctx); err != nil {
		return err
	}
	defer db.Close()

	if err := buildPredictor(); err != nil {
		return err
	}

	removed, err := predictor.PurgeArchive(ctx, retention)
	if err != nil {
		return err
	}

	fmt.Printf("Removed %d archived rows older than %d days\n", removed, retention)
	return nil
}

func resolveGameDate() (time.Time, error) {
	if gameDate == "" {
		return time.Now().UTC(), nil
	}

	date, err := time.Parse("2006-01-02", gameDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid game date %q (want YYYY-MM-DD)", gameDate)
	}
	return date, nil
}

func printSlate(result *service.SlateResult) {
	fmt.Printf("\nSlate %s (%s run): %d evaluated, %d rejected in %s\n",
		result.GameDate.Format("2006-01-02"), result.RunType,
		result.Evaluated, result.Rejected, result.Duration.Round(time.Millisecond))
	if result.CacheHit {
		fmt.Println("Served from the prediction cache")
	}

	if len(result.Picks) == 0 {
		fmt.Println("No picks met the confidence threshold")
		return
	}

	fmt.Printf("\n%-4s %-22s %-5s %6s  %-16s %-36s %s\n",
		"#", "PLAYER", "TEAM", "CONF", "95% INTERVAL", "CLASSIFICATION", "PATHWAY")
	for i, pick := range result.Picks {
		fmt.Printf("%-4d %-22s %-5s %6.1f  [%5.1f, %5.1f]   %-36s %s\n",
			i+1, pick.PlayerName, pick.Team, pick.Confidence,
			pick.ConfidenceLower, pick.ConfidenceUpper, pick.Classification, pick.Pathway)
	}
}

func printPrediction(prediction *models.Prediction) {
	fmt.Printf("\n%s (%s) on %s\n", prediction.PlayerName, prediction.Team,
		prediction.GameDate.Format("2006-01-02"))
	fmt.Printf("  Confidence:     %.1f  [%.1f, %.1f]\n",
		prediction.Confidence, prediction.ConfidenceLower, prediction.ConfidenceUpper)
	fmt.Printf("  Classification: %s\n", prediction.Classification)
	fmt.Printf("  Pathway:        %s\n", prediction.Pathway)
	fmt.Printf("  Dominant:       %s\n", prediction.DominantSignal)

	signals := make([]string, 0, len(prediction.SignalScores))
	for signal := range prediction.SignalScores {
		signals = append(signals, signal)
	}
	sort.Strings(signals)
	for _, signal := range signals {
		fmt.Printf("    %-24s %.1f\n", signal, prediction.SignalScores[signal])
	}

	if prediction.OddsAmerican != nil {
		fmt.Printf("  Market:         %s (%s)\n", *prediction.OddsAmerican, prediction.MarketValue)
	}
	fmt.Printf("  Reasoning:      %s\n", prediction.Reasoning)
}
