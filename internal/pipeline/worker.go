package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizbank/internal/question"
)

// BankReplacer swaps the served question bank for a new collection.
type BankReplacer interface {
	ReplaceBank(ctx context.Context, run question.RunSummary, qs []question.Question) error
}

// RefreshWorker re-runs extraction on an interval and replaces the bank
// whenever the serialized output changes.
type RefreshWorker struct {
	runner   *Runner
	source   Source
	sink     BankReplacer
	output   string
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger
	last     string
}

// RefreshOptions tunes a RefreshWorker. An empty OutputPath skips writing the JSON file.
type RefreshOptions struct {
	Interval   time.Duration
	Timeout    time.Duration
	OutputPath string
}

func NewRefreshWorker(runner *Runner, source Source, sink BankReplacer, opts RefreshOptions, logger zerolog.Logger) *RefreshWorker {
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &RefreshWorker{
		runner:   runner,
		source:   source,
		sink:     sink,
		output:   opts.OutputPath,
		interval: opts.Interval,
		timeout:  opts.Timeout,
		logger:   logger.With().Str("component", "refresh_worker").Logger(),
	}
}

// Run blocks until context cancellation.
func (w *RefreshWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// run immediately
	w.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Refresh(ctx)
		}
	}
}

// Refresh runs one extraction and reports whether the bank was replaced.
func (w *RefreshWorker) Refresh(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	report, err := w.runner.Run(ctx, w.source)
	if err != nil {
		w.logger.Warn().Err(err).Msg("refresh extraction failed")
		return false
	}
	if len(report.Questions) == 0 {
		w.logger.Warn().Int("failed", len(report.Failed())).Msg("refresh produced no questions; keeping current bank")
		return false
	}

	sum, err := Checksum(report.Questions)
	if err != nil {
		w.logger.Error().Err(err).Msg("checksum failed")
		return false
	}
	if sum == w.last {
		w.logger.Debug().Str("checksum", sum).Msg("question bank unchanged")
		return false
	}

	if w.output != "" {
		if err := WriteJSON(w.output, report.Questions); err != nil {
			w.logger.Error().Err(err).Msg("write output failed")
			return false
		}
	}
	if err := w.sink.ReplaceBank(ctx, report.Summary(), report.Questions); err != nil {
		w.logger.Error().Err(err).Msg("replace bank failed")
		return false
	}
	w.last = sum
	w.logger.Info().Str("checksum", sum).Int("questions", len(report.Questions)).Msg("question bank replaced")
	return true
}
