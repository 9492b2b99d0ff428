package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"activityhub/internal/config"
	"activityhub/internal/database"
	"activityhub/internal/logging"
	"activityhub/internal/models"
	"activityhub/internal/repository"
	"activityhub/internal/service"
)

const (
	exitOK       = 0
	exitUpstream = 1
	exitUsage    = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return exitUsage
	}

	log, err := logging.New(logging.Options{Level: cfg.LogLevel, Dir: cfg.LogDir, Stderr: true})
	if err != nil {
		fmt.Fprintf(stderr, "Failed to create logger: %v\n", err)
		return exitUsage
	}
	defer log.Sync()

	if len(args) > 0 && args[0] == "seed-demo" {
		return seedDemoCommand(cfg, log, stdout)
	}
	return statsCommand(cfg, log, args, stdout, stderr)
}

func statsCommand(cfg *config.Config, log *zap.Logger, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }

	studentID := fs.Int64("student", 0, "Student ID (required)")
	activityID := fs.Int64("activity", 0, "Restrict to one activity")
	classID := fs.Int64("class", 0, "Restrict plugged attempts to one class")
	timeout := fs.Duration("timeout", cfg.StoreTimeout, "Timeout of each store operation")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	filter := models.StatsFilter{StudentID: *studentID}
	// Flags left unset mean no restriction; explicitly passed values are validated
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "activity":
			filter.ActivityID = activityID
		case "class":
			filter.ClassID = classID
		}
	})

	ctx := context.Background()
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		log.Error("failed to open database", zap.Error(err))
		return exitUpstream
	}
	defer db.Close()

	statsService := service.NewStatsService(repository.NewResponseRepository(db), service.StatsOptions{
		Timeout:  *timeout,
		PageSize: cfg.ScanPageSize,
	}, log)

	result, err := statsService.ComputeStats(ctx, filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitUsage
		}
		log.Error("failed to compute statistics", zap.Error(err))
		return exitUpstream
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Error("failed to write result", zap.Error(err))
		return exitUpstream
	}
	return exitOK
}

func seedDemoCommand(cfg *config.Config, log *zap.Logger, stdout io.Writer) int {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		log.Error("failed to open database", zap.Error(err))
		return exitUpstream
	}
	defer db.Close()

	ids, err := seedDemo(ctx, repository.NewResponseRepository(db), repository.NewRosterRepository(db))
	if err != nil {
		log.Error("seeding failed", zap.Error(err))
		return exitUpstream
	}

	log.Info("demo data seeded", zap.Int64("student_id", ids.StudentID), zap.Int64("activity_id", ids.ActivityID))
	fmt.Fprintf(stdout, "stats -student %d -activity %d\n", ids.StudentID, ids.ActivityID)
	return exitOK
}

func openDatabase(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.InitializeWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "ActivityHub statistics tool")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  stats -student <id> [-activity <id>] [-class <id>] [-timeout 5s]")
	fmt.Fprintln(w, "  stats seed-demo                 Insert a demo student with five attempts")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0  statistics printed as JSON")
	fmt.Fprintln(w, "  1  the database failed or timed out")
	fmt.Fprintln(w, "  2  invalid arguments")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment Variables:")
	fmt.Fprintln(w, "  DATABASE_TYPE    Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Fprintln(w, "  DB_PATH          SQLite database path (default: ./activityhub.db)")
	fmt.Fprintln(w, "  DATABASE_URL     PostgreSQL or MySQL connection URL")
	fmt.Fprintln(w, "  STORE_TIMEOUT    Default per-operation timeout (default: 5s)")
}
