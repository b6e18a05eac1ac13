package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/gokatarajesh/quizbank/internal/db/queries"
)

var ErrNotFound = errors.New("not found")

type questionStore interface {
	ListModules(ctx context.Context) ([]queries.ListModulesRow, error)
	ListQuestionsByModule(ctx context.Context, module string) ([]queries.Question, error)
	GetQuestion(ctx context.Context, questionID string) (queries.Question, error)
	GetLatestExtractionRun(ctx context.Context) (queries.ExtractionRun, error)
	ReplaceBank(ctx context.Context, run queries.InsertExtractionRunParams, qs []queries.InsertQuestionParams) error
}

// QuestionRepository wraps the question bank queries.
type QuestionRepository struct {
	store questionStore
}

func NewQuestionRepository(store questionStore) *QuestionRepository {
	return &QuestionRepository{store: store}
}

// Modules lists module identifiers with their record counts, ordered by module.
func (r *QuestionRepository) Modules(ctx context.Context) ([]queries.ListModulesRow, error) {
	return r.store.ListModules(ctx)
}

// ByModule returns one module's records ordered by number.
func (r *QuestionRepository) ByModule(ctx context.Context, module string) ([]queries.Question, error) {
	return r.store.ListQuestionsByModule(ctx, module)
}

// Get returns a single record or ErrNotFound.
func (r *QuestionRepository) Get(ctx context.Context, id string) (queries.Question, error) {
	q, err := r.store.GetQuestion(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return queries.Question{}, ErrNotFound
	}
	return q, err
}

// LatestRun returns the most recent extraction run or ErrNotFound.
func (r *QuestionRepository) LatestRun(ctx context.Context) (queries.ExtractionRun, error) {
	run, err := r.store.GetLatestExtractionRun(ctx)
	if errors.Is(err, pgx.ErrNoRows) {
		return queries.ExtractionRun{}, ErrNotFound
	}
	return run, err
}

// Replace swaps the stored bank for qs under run.
func (r *QuestionRepository) Replace(ctx context.Context, run queries.InsertExtractionRunParams, qs []queries.InsertQuestionParams) error {
	return r.store.ReplaceBank(ctx, run, qs)
}
