package queries

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store adds transactional operations on top of Queries.
type Store struct {
	*Queries
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Queries: New(pool), pool: pool}
}

// ReplaceBank records run and swaps the whole question table for qs in one transaction.
func (s *Store) ReplaceBank(ctx context.Context, run InsertExtractionRunParams, qs []InsertQuestionParams) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		q := s.WithTx(tx)
		if err := q.InsertExtractionRun(ctx, run); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		if err := q.DeleteQuestions(ctx); err != nil {
			return fmt.Errorf("delete questions: %w", err)
		}
		for _, arg := range qs {
			arg.RunID = run.RunID
			if err := q.InsertQuestion(ctx, arg); err != nil {
				return fmt.Errorf("insert %s: %w", arg.QuestionID, err)
			}
		}
		return nil
	})
}
