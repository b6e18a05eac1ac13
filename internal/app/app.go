package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizbank/internal/config"
	"github.com/gokatarajesh/quizbank/internal/db/queries"
	"github.com/gokatarajesh/quizbank/internal/db/repository"
	"github.com/gokatarajesh/quizbank/internal/logging"
	"github.com/gokatarajesh/quizbank/internal/metrics"
	"github.com/gokatarajesh/quizbank/internal/pipeline"
	"github.com/gokatarajesh/quizbank/internal/question"
	"github.com/gokatarajesh/quizbank/internal/server"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	refreshWorker *pipeline.RefreshWorker
	bgCancels     []context.CancelFunc
}

// New bootstraps logger, optional Postgres and Redis, the question service and HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var (
		pool *pgxpool.Pool
		bank question.Bank
	)
	if cfg.Postgres.Enabled() {
		var err error
		pool, err = pgxpool.New(ctx, cfg.Postgres.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		bank = question.NewPostgresBank(repository.NewQuestionRepository(queries.NewStore(pool)))
		logger.Info().Str("host", cfg.Postgres.Host).Msg("serving question bank from postgres")
	} else {
		mem, err := question.LoadFile(cfg.Extract.OutputPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Warn().Str("path", cfg.Extract.OutputPath).Msg("no extractor output yet; starting with an empty bank")
			mem = question.NewMemoryBank(nil)
		case err != nil:
			return nil, fmt.Errorf("load question bank: %w", err)
		}
		bank = mem
		logger.Info().Str("path", cfg.Extract.OutputPath).Msg("serving question bank from file")
	}

	var (
		redisClient *redis.Client
		cache       question.ModuleCache
	)
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		cache = question.NewCache(redisClient, cfg.Redis.CacheTTL)
	} else {
		logger.Warn().Msg("REDIS_ADDR not configured; module cache disabled")
	}

	questionSvc := question.NewService(bank, cache, m, logger)

	var refreshWorker *pipeline.RefreshWorker
	if interval := cfg.Extract.RefreshInterval; interval > 0 {
		profile, err := config.LoadProfile(cfg.Extract.ProfilePath)
		if err != nil {
			return nil, err
		}
		router, expected, err := pipeline.NewRouter(profile)
		if err != nil {
			return nil, err
		}
		runner := pipeline.NewRunner(router, pipeline.Options{
			Workers:  cfg.Extract.Workers,
			Expected: expected,
			Metrics:  m,
		}, logging.Component(logger, "extractor"))
		refreshWorker = pipeline.NewRefreshWorker(
			runner,
			pipeline.NewDirSource(cfg.Extract.RawDir, cfg.Extract.Extensions),
			questionSvc,
			pipeline.RefreshOptions{Interval: interval, OutputPath: cfg.Extract.OutputPath},
			logger,
		)
	}

	apiServer := server.NewHTTPServer(cfg, logger, questionSvc, server.Dependencies{
		Pool:     pool,
		Redis:    redisClient,
		Gatherer: reg,
	})

	return &Application{
		cfg:           cfg,
		logger:        logger,
		pool:          pool,
		redis:         redisClient,
		http:          apiServer,
		refreshWorker: refreshWorker,
		bgCancels:     make([]context.CancelFunc, 0, 1),
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}

	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	if a.refreshWorker != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.refreshWorker.Run(bgCtx); err != nil && err != context.Canceled {
				a.logger.Warn().Err(err).Msg("refresh worker stopped")
			}
		}()
	}
}
