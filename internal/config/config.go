package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across commands.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"quizbank"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Extract  Extract
	Postgres Postgres
	Redis    Redis
}

// Extract configures the document extraction run.
type Extract struct {
	RawDir          string        `env:"EXTRACT_RAW_DIR" envDefault:"data/raw"`
	OutputPath      string        `env:"EXTRACT_OUTPUT_PATH" envDefault:"data/questions.json"`
	ProfilePath     string        `env:"EXTRACT_PROFILE_PATH"`
	Workers         int           `env:"EXTRACT_WORKERS" envDefault:"1"`
	Extensions      []string      `env:"EXTRACT_EXTENSIONS" envSeparator:"," envDefault:".txt"`
	RefreshInterval time.Duration `env:"EXTRACT_REFRESH_INTERVAL" envDefault:"0s"`
}

// Postgres captures connection info for the question bank database.
type Postgres struct {
	Host     string `env:"PG_HOST"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER"`
	Password string `env:"PG_PASSWORD"`
	Database string `env:"PG_DATABASE"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// Enabled reports whether enough settings are present to connect.
func (p Postgres) Enabled() bool {
	return p.Host != "" && p.User != "" && p.Database != ""
}

// DSN builds a pgx connection string.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode, p.MaxConns)
}

// Redis holds module cache configuration.
type Redis struct {
	Addr     string        `env:"REDIS_ADDR"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	PoolSize int           `env:"REDIS_POOL_SIZE" envDefault:"20"`
	CacheTTL time.Duration `env:"REDIS_CACHE_TTL" envDefault:"10m"`
}

// Enabled reports whether a Redis address is configured.
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Extract.Workers < 1 {
		cfg.Extract.Workers = 1
	}
	return cfg, nil
}
