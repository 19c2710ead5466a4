package control

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vietddude/mergewatch/internal/core/config"
	"github.com/vietddude/mergewatch/internal/core/worker"
	"github.com/vietddude/mergewatch/internal/health"
	"github.com/vietddude/mergewatch/internal/infra/github"
	redisclient "github.com/vietddude/mergewatch/internal/infra/redis"
	"github.com/vietddude/mergewatch/internal/infra/storage"
	"github.com/vietddude/mergewatch/internal/infra/storage/memory"
	"github.com/vietddude/mergewatch/internal/infra/storage/postgres"
	"github.com/vietddude/mergewatch/internal/retry"

	"github.com/pressly/goose/v3"
)

// Watchdog is the main application struct that manages the merge
// engine lifecycle.
type Watchdog struct {
	cfg         Config
	engine      *retry.Engine
	healthMon   *health.Monitor
	healthSrv   *health.Server
	pruner      *worker.Pruner
	db          *postgres.DB
	redisClient *redisclient.Client
	log         *slog.Logger
	wg          sync.WaitGroup
}

// Config holds the application configuration.
type Config struct {
	Port     int
	GitHub   config.GitHubConfig
	Targets  []config.TargetConfig
	Policies config.PoliciesConfig
	Redis    redisclient.Config
	Database postgres.Config
	History  config.HistoryConfig

	// Client overrides the GitHub polling client; used by tests.
	Client retry.PollingClient
}

// NewWatchdog creates a new Watchdog instance with all dependencies initialized.
func NewWatchdog(cfg Config) (*Watchdog, error) {

	// 1. Initialize Storage
	var attemptRepo storage.AttemptRepository
	var deadLetterRepo storage.DeadLetterRepository
	var db *postgres.DB

	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}

		// Run migrations
		if err := goose.SetDialect("postgres"); err != nil {
			return nil, err
		}
		if err := goose.Up(db.DB.DB, "migrations"); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}

		attemptRepo = postgres.NewAttemptRepo(db)
		deadLetterRepo = postgres.NewDeadLetterRepo(db)
		slog.Info("Using PostgreSQL storage")
	} else {
		store := memory.NewMemoryStorage()
		attemptRepo = memory.NewAttemptRepo(store)
		deadLetterRepo = memory.NewDeadLetterRepo(store)
		slog.Info("Using Memory storage")
	}

	// 2. Redis dead letter queue takes precedence when configured
	var redisClient *redisclient.Client
	if cfg.Redis.URL != "" {
		var err error
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("Failed to connect to Redis, falling back to storage dead letters", "error", err)
		} else {
			deadLetterRepo = redisclient.NewDeadLetterRepo(redisClient)
			slog.Info("Using Redis dead letter queue")
		}
	}

	// 3. Polling client
	client := cfg.Client
	if client == nil {
		client = github.NewClient(cfg.GitHub.BaseURL, cfg.GitHub.Token, cfg.GitHub.RequestTimeout)
	}

	// 4. Retry engine
	policies, err := cfg.Policies.Registry()
	if err != nil {
		return nil, fmt.Errorf("failed to build policies: %w", err)
	}

	engine := retry.NewEngine(client, policies, attemptRepo, retry.NewStatsTracker())
	engine.AttachDeadLetter(deadLetterRepo)

	// 5. Health monitor and server
	healthMon := health.NewMonitor(engine, deadLetterRepo)
	healthSrv := health.NewServer(healthMon, cfg.Port)

	// 6. History pruner
	var pruner *worker.Pruner
	if cfg.History.Retention > 0 {
		pruner = worker.NewPruner(cfg.History.Retention, attemptRepo)
	}

	return &Watchdog{
		cfg:         cfg,
		engine:      engine,
		healthMon:   healthMon,
		healthSrv:   healthSrv,
		pruner:      pruner,
		db:          db,
		redisClient: redisClient,
		log:         slog.Default(),
	}, nil
}

// Engine exposes the retry engine (for CLI status and tests).
func (w *Watchdog) Engine() *retry.Engine {
	return w.engine
}

// Start starts the watchdog and all its components. One goroutine per
// target runs the retry loop; loops for distinct PRs never share state
// beyond the synchronized history and statistics.
func (w *Watchdog) Start(ctx context.Context) error {
	// Start Health Server
	go func() {
		if err := w.healthSrv.Start(); err != nil {
			w.log.Error("Health server failed", "error", err)
		}
	}()

	// Start Health Monitor Background Tasks
	go w.healthMon.Start(ctx)

	// Start DB Metrics Collector
	if w.db != nil {
		w.db.StartMetricsCollector(ctx)
	}

	// Start Pruner
	if w.pruner != nil {
		go w.pruner.Start(ctx)
	}

	// Start one retry loop per configured target
	for _, target := range w.cfg.Targets {
		prID := target.ID()
		w.log.Info("Starting merge loop", "pr", prID)

		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			result, err := w.engine.Attempt(ctx, prID, nil)
			if err != nil {
				w.log.Error("Merge loop rejected config", "pr", prID, "error", err)
				return
			}
			if !result.Success {
				w.log.Warn("Merge loop finished without merging",
					"pr", prID, "state", result.FinalState, "reason", result.Reason)
			}
		}()
	}

	return nil
}

// Wait blocks until all target loops have finished.
func (w *Watchdog) Wait() {
	w.wg.Wait()
}

// Stop stops the watchdog.
func (w *Watchdog) Stop(ctx context.Context) error {
	w.log.Info("Stopping Watchdog...")

	// Close Redis
	if w.redisClient != nil {
		if err := w.redisClient.Close(); err != nil {
			w.log.Warn("Failed to close Redis", "error", err)
		}
	}

	// Close DB
	if w.db != nil {
		if err := w.db.Close(); err != nil {
			w.log.Warn("Failed to close database", "error", err)
		}
	}

	// Stop Health Server
	return w.healthSrv.Stop(ctx)
}
