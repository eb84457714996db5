// Package main provides the slate backfill tool. It replays stored slates
// over a date range so the archive carries predictions for every day, and
// serves health probes while it runs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hellraiser/internal/config"
	"github.com/yourusername/hellraiser/internal/database"
	"github.com/yourusername/hellraiser/internal/datasource"
	"github.com/yourusername/hellraiser/internal/ensemble"
	"github.com/yourusername/hellraiser/internal/health"
	applogger "github.com/yourusername/hellraiser/internal/logger"
	"github.com/yourusername/hellraiser/internal/repository"
	"github.com/yourusername/hellraiser/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		fromDate   = flag.String("from", "", "First game date to replay (YYYY-MM-DD)")
		toDate     = flag.String("to", "", "Last game date to replay (YYYY-MM-DD, default -from)")
		team       = flag.String("team", "", "Restrict the replay to one team")
	)
	flag.Parse()

	cfg, err := config.LoadWithDefaults(*configPath)
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

	logger := applogger.NewLogger(cfg.App.LogLevel)

	from, to, err := resolveRange(*fromDate, *toDate)
	if err != nil {
		logger.WithError(err).Fatal("Invalid date range")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize repositories")
	}

	probes := health.NewServer(health.Config{
		ServiceName: "hellraiser-backfill",
		Version:     Version,
		Commit:      GitCommit,
		Port:        cfg.Health.Port,
		Logger:      logger,
		DB:          db,
	})
	if err := probes.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to start health server")
	}
	defer func() {
		if err := probes.Shutdown(); err != nil {
			logger.WithError(err).Error("Failed to stop health server")
		}
	}()

	source, err := datasource.New(cfg.DataSource, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create data source")
	}

	estimator, err := ensemble.NewEstimator(cfg.Ensemble, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build estimator")
	}

	predictor := service.NewPredictionService(cfg, source, estimator, repos, logger)
	probes.SetReady(true)

	logger.WithFields(logrus.Fields{
		"from": from.Format("2006-01-02"),
		"to":   to.Format("2006-01-02"),
		"team": *team,
	}).Info("Backfill starting")

	days, picks, failed := 0, 0, 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if ctx.Err() != nil {
			logger.Info("Backfill interrupted")
			break
		}

		result, err := predictor.RunStoredSlate(ctx, day, *team)
		if err != nil {
			failed++
			logger.WithError(err).WithField("game_date", day.Format("2006-01-02")).Error("Day failed")
			continue
		}

		days++
		picks += len(result.Picks)
		logger.WithFields(logrus.Fields{
			"game_date": day.Format("2006-01-02"),
			"evaluated": result.Evaluated,
			"rejected":  result.Rejected,
			"picks":     len(result.Picks),
		}).Info("Day replayed")
	}

	logger.WithFields(logrus.Fields{
		"days":   days,
		"picks":  picks,
		"failed": failed,
	}).Info("Backfill complete")
}

func resolveRange(fromStr, toStr string) (time.Time, time.Time, error) {
	if fromStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("-from is required")
	}

	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid -from date %q: %w", fromStr, err)
	}

	if toStr == "" {
		return from, from, nil
	}

	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid -to date %q: %w", toStr, err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("-to %s precedes -from %s", toStr, fromStr)
	}
	return from, to, nil
}
