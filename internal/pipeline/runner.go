package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gokatarajesh/quizbank/internal/config"
	"github.com/gokatarajesh/quizbank/internal/extract"
	"github.com/gokatarajesh/quizbank/internal/metrics"
	"github.com/gokatarajesh/quizbank/internal/question"
)

// DocumentResult is the outcome of one document.
type DocumentResult struct {
	Name      string
	Module    string
	Strategy  extract.StrategyKind
	Questions []question.Question
	Err       error
}

// CountMismatch records a module whose record count differs from the expected count.
type CountMismatch struct {
	Module   string
	Expected int
	Actual   int
}

// Report summarizes an extraction run.
type Report struct {
	RunID      uuid.UUID
	Documents  []DocumentResult
	Questions  []question.Question
	Duplicates int
	Mismatches []CountMismatch
	Duration   time.Duration
}

// Failed returns the documents that produced no records.
func (r *Report) Failed() []DocumentResult {
	var failed []DocumentResult
	for _, d := range r.Documents {
		if d.Err != nil {
			failed = append(failed, d)
		}
	}
	return failed
}

// Summary converts the report into the persisted run record.
func (r *Report) Summary() question.RunSummary {
	return question.RunSummary{
		ID:        r.RunID,
		Documents: len(r.Documents),
		Failed:    len(r.Failed()),
		Questions: len(r.Questions),
	}
}

// Options tunes a Runner.
type Options struct {
	Workers  int
	Expected map[string]int
	Metrics  *metrics.Metrics
}

// Runner extracts every document of a Source and merges the records.
type Runner struct {
	router   *extract.Router
	workers  int
	expected map[string]int
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func NewRunner(router *extract.Router, opts Options, logger zerolog.Logger) *Runner {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	expected := opts.Expected
	if expected == nil {
		expected = extract.DefaultExpectedCounts()
	}
	return &Runner{
		router:   router,
		workers:  workers,
		expected: expected,
		metrics:  opts.Metrics,
		logger:   logger,
	}
}

// NewRouter builds the module router and expected counts described by p.
// A nil profile yields the built-in configuration.
func NewRouter(p *config.Profile) (*extract.Router, map[string]int, error) {
	expected := extract.DefaultExpectedCounts()
	base := extract.DefaultClassifier()
	if p == nil {
		return extract.NewRouter(base), expected, nil
	}

	base = mergeClassifier(base, p.Classifier)
	var opts []extract.RouterOption
	for key, mp := range p.Modules {
		module := canonicalModule(key)
		if mp.Strategy != "" {
			s, err := extract.StrategyFor(module, extract.StrategyKind(mp.Strategy))
			if err != nil {
				return nil, nil, err
			}
			opts = append(opts, extract.WithStrategy(module, s))
		}
		if !mp.Classifier.IsZero() {
			opts = append(opts, extract.WithClassifier(module, mergeClassifier(base, mp.Classifier)))
		}
		if mp.ExpectedCount > 0 {
			expected[module] = mp.ExpectedCount
		}
	}
	return extract.NewRouter(base, opts...), expected, nil
}

// canonicalModule restores the casing of profile keys, which the YAML loader
// lowercases. Numeric module identifiers are unaffected.
func canonicalModule(key string) string {
	if strings.EqualFold(key, extract.UnknownModule) {
		return extract.UnknownModule
	}
	return strings.Join(strings.Fields(key), "")
}

func mergeClassifier(base extract.Classifier, cp config.ClassifierProfile) extract.Classifier {
	if len(cp.Markers) > 0 {
		base.Markers = append([]string(nil), cp.Markers...)
	}
	if cp.QuestionFraction > 0 {
		base.QuestionFraction = cp.QuestionFraction
	}
	if cp.MeanLength > 0 {
		base.MeanLength = cp.MeanLength
	}
	return base
}

// Run processes every document of src. A failing document is recorded in the
// report and does not stop the others; only listing errors and cancellation
// abort the run.
func (r *Runner) Run(ctx context.Context, src Source) (*Report, error) {
	start := time.Now()
	runID := uuid.New()
	logger := r.logger.With().Str("run_id", runID.String()).Logger()

	names, err := src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	logger.Info().Int("documents", len(names)).Int("workers", r.workers).Msg("extraction started")

	results := make([]DocumentResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, name := range names {
		g.Go(func() error {
			results[i] = r.process(gctx, src, name)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{RunID: runID, Documents: results}
	r.merge(report, logger)
	report.Duration = time.Since(start)

	if r.metrics != nil {
		r.metrics.RunDuration.Observe(report.Duration.Seconds())
	}
	logger.Info().
		Int("questions", len(report.Questions)).
		Int("failed", len(report.Failed())).
		Dur("duration", report.Duration).
		Msg("extraction finished")
	return report, nil
}

func (r *Runner) process(ctx context.Context, src Source, name string) (res DocumentResult) {
	res.Name = name
	defer func() {
		if p := recover(); p != nil {
			res.Questions = nil
			res.Err = fmt.Errorf("extract %s: panic: %v", name, p)
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	raw, err := src.Read(ctx, name)
	if err != nil {
		res.Err = fmt.Errorf("read %s: %w", name, err)
		return res
	}
	doc, err := extract.NewDocument(name, raw)
	if err != nil {
		res.Err = fmt.Errorf("load %s: %w", name, err)
		return res
	}
	res.Module = doc.Module
	res.Strategy = r.router.Strategy(doc.Module).Kind()

	out, err := r.router.Extract(doc)
	if err != nil {
		res.Err = fmt.Errorf("extract %s: %w", name, err)
		return res
	}
	res.Questions = out.Questions
	return res
}

// merge concatenates document records in source order, drops repeated
// (module, number) pairs and runs the advisory checks.
func (r *Runner) merge(report *Report, logger zerolog.Logger) {
	seen := make(map[string]string)
	perModule := make(map[string]int)
	all := make([]question.Question, 0)

	for _, doc := range report.Documents {
		dlog := logger.With().Str("document", doc.Name).Str("module", doc.Module).Logger()
		if doc.Err != nil {
			if IsEmptyInput(doc.Err) {
				dlog.Warn().Err(doc.Err).Msg("document has no questions")
			} else {
				dlog.Error().Err(doc.Err).Msg("document failed")
			}
			r.countDocument("failed", doc.Strategy)
			continue
		}
		r.countDocument("ok", doc.Strategy)

		counts := question.CountByType(doc.Questions)
		event := dlog.Info().Str("strategy", string(doc.Strategy)).Int("questions", len(doc.Questions))
		for _, t := range question.Types {
			event = event.Int(string(t), counts[t])
		}
		event.Msg("document extracted")

		for _, q := range doc.Questions {
			if first, dup := seen[q.ID]; dup {
				report.Duplicates++
				dlog.Warn().Str("id", q.ID).Str("kept_from", first).Msg("duplicate question dropped")
				continue
			}
			seen[q.ID] = doc.Name
			perModule[q.Module]++
			all = append(all, q)
			if r.metrics != nil {
				r.metrics.Questions.WithLabelValues(string(q.Type)).Inc()
			}
		}
	}
	report.Questions = all

	modules := make([]string, 0, len(perModule))
	for module := range perModule {
		modules = append(modules, module)
	}
	sort.Strings(modules)
	for _, module := range modules {
		want, ok := r.expected[module]
		if !ok || want == perModule[module] {
			continue
		}
		report.Mismatches = append(report.Mismatches, CountMismatch{Module: module, Expected: want, Actual: perModule[module]})
		logger.Warn().Str("module", module).Int("expected", want).Int("actual", perModule[module]).Msg("question count mismatch")
		if r.metrics != nil {
			r.metrics.CountMismatch.WithLabelValues(module).Inc()
		}
	}

	for _, err := range question.ValidateCollection(all) {
		logger.Warn().Err(err).Msg("record check failed")
	}
}

func (r *Runner) countDocument(status string, kind extract.StrategyKind) {
	if r.metrics == nil {
		return
	}
	if kind == "" {
		kind = "none"
	}
	r.metrics.Documents.WithLabelValues(status, string(kind)).Inc()
}

// IsEmptyInput reports whether err marks a document with nothing to extract.
func IsEmptyInput(err error) bool {
	return errors.Is(err, extract.ErrEmptyDocument) || errors.Is(err, extract.ErrNoQuestions)
}
