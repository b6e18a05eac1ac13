package question

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/gokatarajesh/quizbank/internal/db/queries"
	"github.com/gokatarajesh/quizbank/internal/db/repository"
)

// PostgresBank serves the collection stored in Postgres.
type PostgresBank struct {
	repo *repository.QuestionRepository
}

var _ Bank = (*PostgresBank)(nil)

func NewPostgresBank(repo *repository.QuestionRepository) *PostgresBank {
	return &PostgresBank{repo: repo}
}

func (b *PostgresBank) Modules(ctx context.Context) ([]ModuleSummary, error) {
	rows, err := b.repo.Modules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	out := make([]ModuleSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, ModuleSummary{Module: row.Module, Count: int(row.Count)})
	}
	return out, nil
}

func (b *PostgresBank) ModuleQuestions(ctx context.Context, module string) ([]Question, error) {
	rows, err := b.repo.ByModule(ctx, module)
	if err != nil {
		return nil, fmt.Errorf("list module %s: %w", module, err)
	}
	if len(rows) == 0 {
		return nil, ErrUnknownModule
	}
	out := make([]Question, 0, len(rows))
	for _, row := range rows {
		q, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func (b *PostgresBank) Question(ctx context.Context, id string) (Question, error) {
	row, err := b.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return Question{}, ErrNotFound
	}
	if err != nil {
		return Question{}, fmt.Errorf("get %s: %w", id, err)
	}
	return fromRow(row)
}

func (b *PostgresBank) Replace(ctx context.Context, run RunSummary, qs []Question) error {
	params := make([]queries.InsertQuestionParams, 0, len(qs))
	for _, q := range qs {
		p, err := toParams(q)
		if err != nil {
			return err
		}
		params = append(params, p)
	}
	return b.repo.Replace(ctx, queries.InsertExtractionRunParams{
		RunID:     pgtype.UUID{Bytes: run.ID, Valid: true},
		Documents: int32(run.Documents),
		Failed:    int32(run.Failed),
		Questions: int32(run.Questions),
	}, params)
}

func (b *PostgresBank) LatestRun(ctx context.Context) (RunSummary, error) {
	row, err := b.repo.LatestRun(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return RunSummary{}, ErrNoRun
	}
	if err != nil {
		return RunSummary{}, fmt.Errorf("latest run: %w", err)
	}
	return RunSummary{
		ID:        uuid.UUID(row.RunID.Bytes),
		Documents: int(row.Documents),
		Failed:    int(row.Failed),
		Questions: int(row.Questions),
	}, nil
}

func fromRow(row queries.Question) (Question, error) {
	q := Question{
		ID:           row.QuestionID,
		Number:       int(row.Number),
		Module:       row.Module,
		Question:     row.Prompt,
		Options:      []Item{},
		SubQuestions: []Item{},
		Type:         Type(row.Kind),
		Explanation:  row.Explanation,
	}
	if err := decodeItems(row.Options, &q.Options); err != nil {
		return Question{}, fmt.Errorf("%s options: %w", row.QuestionID, err)
	}
	if err := decodeItems(row.SubQuestions, &q.SubQuestions); err != nil {
		return Question{}, fmt.Errorf("%s sub_questions: %w", row.QuestionID, err)
	}
	if row.Answer.Valid {
		q.Answer = StringPtr(row.Answer.String)
	}
	return q, nil
}

func toParams(q Question) (queries.InsertQuestionParams, error) {
	options, err := encodeItems(q.Options)
	if err != nil {
		return queries.InsertQuestionParams{}, err
	}
	subs, err := encodeItems(q.SubQuestions)
	if err != nil {
		return queries.InsertQuestionParams{}, err
	}
	p := queries.InsertQuestionParams{
		QuestionID:   q.ID,
		Module:       q.Module,
		Number:       int32(q.Number),
		Prompt:       q.Question,
		Kind:         string(q.Type),
		Options:      options,
		SubQuestions: subs,
		Explanation:  q.Explanation,
	}
	if q.Answer != nil {
		p.Answer = pgtype.Text{String: *q.Answer, Valid: true}
	}
	return p, nil
}

func decodeItems(raw []byte, dst *[]Item) error {
	if len(raw) == 0 {
		return nil
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return err
	}
	if items != nil {
		*dst = items
	}
	return nil
}

func encodeItems(items []Item) ([]byte, error) {
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(items)
}
