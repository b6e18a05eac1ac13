package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizbank/internal/config"
	"github.com/gokatarajesh/quizbank/internal/db/queries"
	"github.com/gokatarajesh/quizbank/internal/db/repository"
	"github.com/gokatarajesh/quizbank/internal/logging"
	"github.com/gokatarajesh/quizbank/internal/pipeline"
	"github.com/gokatarajesh/quizbank/internal/question"
)

var errAllFailed = errors.New("every document failed")

func main() {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var (
		dir     = flag.String("dir", cfg.Extract.RawDir, "Directory containing the raw exam sheets")
		output  = flag.String("output", cfg.Extract.OutputPath, "Path of the JSON question file to write")
		profile = flag.String("profile", cfg.Extract.ProfilePath, "Optional YAML extraction profile")
		workers = flag.Int("workers", cfg.Extract.Workers, "Documents processed in parallel")
		persist = flag.Bool("persist", false, "Also replace the question bank in Postgres")
		verbose = flag.Bool("verbose", false, "Log debug output")
	)
	flag.Parse()

	logger := logging.Component(logging.New(cfg.Name, cfg.Env), "extractor")
	if *verbose {
		logger = logger.Level(zerolog.DebugLevel)
	}

	opts := runOptions{
		dir:     *dir,
		output:  *output,
		profile: *profile,
		workers: *workers,
		persist: *persist,
	}
	if err := run(logging.IntoContext(ctx, logger), cfg, opts); err != nil {
		logger.Error().Err(err).Msg("extraction failed")
		os.Exit(1)
	}
}

type runOptions struct {
	dir     string
	output  string
	profile string
	workers int
	persist bool
}

func run(ctx context.Context, cfg *config.App, opts runOptions) error {
	logger := logging.FromContext(ctx)

	p, err := config.LoadProfile(opts.profile)
	if err != nil {
		return err
	}
	router, expected, err := pipeline.NewRouter(p)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(router, pipeline.Options{
		Workers:  opts.workers,
		Expected: expected,
	}, logger)

	report, err := runner.Run(ctx, pipeline.NewDirSource(opts.dir, cfg.Extract.Extensions))
	if err != nil {
		return err
	}
	if len(report.Documents) == 0 {
		logger.Warn().Str("dir", opts.dir).Msg("no documents found")
	} else if len(report.Failed()) == len(report.Documents) {
		return fmt.Errorf("%w (%d documents)", errAllFailed, len(report.Documents))
	}

	if err := pipeline.WriteJSON(opts.output, report.Questions); err != nil {
		return err
	}
	logger.Info().Str("output", opts.output).Int("questions", len(report.Questions)).Msg("question file written")

	if opts.persist {
		if err := persist(ctx, cfg, report, logger); err != nil {
			return fmt.Errorf("persist: %w", err)
		}
	}
	return nil
}

func persist(ctx context.Context, cfg *config.App, report *pipeline.Report, logger zerolog.Logger) error {
	if !cfg.Postgres.Enabled() {
		return errors.New("PG_HOST, PG_USER and PG_DATABASE are required with -persist")
	}
	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	var cache question.ModuleCache
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		defer client.Close()
		cache = question.NewCache(client, cfg.Redis.CacheTTL)
	}

	bank := question.NewPostgresBank(repository.NewQuestionRepository(queries.NewStore(pool)))
	svc := question.NewService(bank, cache, nil, logger)
	return svc.ReplaceBank(ctx, report.Summary(), report.Questions)
}
