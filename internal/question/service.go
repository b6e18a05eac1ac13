package question

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizbank/internal/metrics"
)

var (
	ErrInvalidResponse = errors.New("response is not a valid choice")
	ErrMissingResponse = errors.New("response is required")
)

// Service serves the question bank to the rendering layer and grades responses.
type Service struct {
	bank    Bank
	cache   ModuleCache
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewService wires a bank with an optional cache and metrics (both may be nil).
func NewService(bank Bank, cache ModuleCache, m *metrics.Metrics, logger zerolog.Logger) *Service {
	if cache == nil {
		cache = nopCache{}
	}
	return &Service{
		bank:    bank,
		cache:   cache,
		metrics: m,
		logger:  logger.With().Str("component", "question_service").Logger(),
	}
}

// Modules lists every module with its record count, in module order.
func (s *Service) Modules(ctx context.Context) ([]ModuleSummary, error) {
	if cached, err := s.cache.GetModules(ctx); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		s.logger.Warn().Err(err).Msg("module cache read failed")
	}

	modules, err := s.bank.Modules(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(modules, func(i, j int) bool {
		return moduleLess(modules[i].Module, modules[j].Module)
	})
	if err := s.cache.SetModules(ctx, modules); err != nil {
		s.logger.Warn().Err(err).Msg("module cache write failed")
	}
	return modules, nil
}

// ModuleQuestions returns one module's records ordered by number.
func (s *Service) ModuleQuestions(ctx context.Context, module string) ([]Question, error) {
	if cached, err := s.cache.GetModule(ctx, module); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		s.logger.Warn().Err(err).Str("module", module).Msg("module cache read failed")
	}

	qs, err := s.bank.ModuleQuestions(ctx, module)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetModule(ctx, module, qs); err != nil {
		s.logger.Warn().Err(err).Str("module", module).Msg("module cache write failed")
	}
	return qs, nil
}

// Question returns a single record by id.
func (s *Service) Question(ctx context.Context, id string) (Question, error) {
	return s.bank.Question(ctx, id)
}

// Grade checks response against the record's answer. Records without an
// auto-gradable answer return a self-assessment verdict. The answer and
// explanation are always revealed.
func (s *Service) Grade(ctx context.Context, id, response string) (Verdict, error) {
	q, err := s.bank.Question(ctx, id)
	if err != nil {
		return Verdict{}, err
	}

	v := Verdict{
		QuestionID:  q.ID,
		Type:        q.Type,
		Answer:      q.Answer,
		Explanation: q.Explanation,
	}
	if !q.AutoGraded() {
		v.SelfAssess = true
		s.countGrade("self_assess")
		return v, nil
	}

	if strings.TrimSpace(response) == "" {
		return Verdict{}, ErrMissingResponse
	}
	choice, err := normalizeResponse(q, response)
	if err != nil {
		return Verdict{}, err
	}
	correct := choice == *q.Answer
	v.Correct = &correct
	if correct {
		s.countGrade("correct")
	} else {
		s.countGrade("incorrect")
	}
	return v, nil
}

// LatestRun describes the extraction run behind the served collection.
func (s *Service) LatestRun(ctx context.Context) (RunSummary, error) {
	return s.bank.LatestRun(ctx)
}

// ReplaceBank swaps the served collection and drops cached listings.
func (s *Service) ReplaceBank(ctx context.Context, run RunSummary, qs []Question) error {
	if err := s.bank.Replace(ctx, run, qs); err != nil {
		return fmt.Errorf("replace bank: %w", err)
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("module cache invalidation failed")
	}
	if s.metrics != nil {
		s.metrics.BankSize.Set(float64(len(qs)))
	}
	s.logger.Info().Str("run_id", run.ID.String()).Int("questions", len(qs)).Msg("question bank replaced")
	return nil
}

func (s *Service) countGrade(outcome string) {
	if s.metrics != nil {
		s.metrics.GradeResponses.WithLabelValues(outcome).Inc()
	}
}

// normalizeResponse maps a raw response onto the answer vocabulary of q:
// an option label for multiple-choice, "true"/"false" for true-false.
func normalizeResponse(q Question, response string) (string, error) {
	r := strings.ToLower(strings.TrimSpace(response))
	switch q.Type {
	case TypeMultipleChoice:
		r = strings.TrimRight(r, ".)")
		if !q.HasOption(r) {
			return "", fmt.Errorf("%w: %q", ErrInvalidResponse, response)
		}
		return r, nil
	case TypeTrueFalse:
		switch r {
		case "true", "t":
			return "true", nil
		case "false", "f":
			return "false", nil
		}
		return "", fmt.Errorf("%w: %q", ErrInvalidResponse, response)
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidResponse, response)
}

// moduleLess orders module identifiers by their leading number, so "9-11"
// sorts before "10-12".
func moduleLess(a, b string) bool {
	na, okA := leadingNumber(a)
	nb, okB := leadingNumber(b)
	switch {
	case okA && okB && na != nb:
		return na < nb
	case okA != okB:
		return okA
	}
	return a < b
}

func leadingNumber(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}
