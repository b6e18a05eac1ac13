package queries

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const listModules = `-- name: ListModules :many
SELECT module, COUNT(*) AS count
FROM questions
GROUP BY module
ORDER BY module
`

type ListModulesRow struct {
	Module string `json:"module"`
	Count  int64  `json:"count"`
}

func (q *Queries) ListModules(ctx context.Context) ([]ListModulesRow, error) {
	rows, err := q.db.Query(ctx, listModules)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListModulesRow
	for rows.Next() {
		var i ListModulesRow
		if err := rows.Scan(&i.Module, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listQuestionsByModule = `-- name: ListQuestionsByModule :many
SELECT question_id, module, number, prompt, kind, options, sub_questions, answer, explanation, run_id
FROM questions
WHERE module = $1
ORDER BY number
`

func (q *Queries) ListQuestionsByModule(ctx context.Context, module string) ([]Question, error) {
	rows, err := q.db.Query(ctx, listQuestionsByModule, module)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Question
	for rows.Next() {
		var i Question
		if err := rows.Scan(
			&i.QuestionID,
			&i.Module,
			&i.Number,
			&i.Prompt,
			&i.Kind,
			&i.Options,
			&i.SubQuestions,
			&i.Answer,
			&i.Explanation,
			&i.RunID,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getQuestion = `-- name: GetQuestion :one
SELECT question_id, module, number, prompt, kind, options, sub_questions, answer, explanation, run_id
FROM questions
WHERE question_id = $1
`

func (q *Queries) GetQuestion(ctx context.Context, questionID string) (Question, error) {
	row := q.db.QueryRow(ctx, getQuestion, questionID)
	var i Question
	err := row.Scan(
		&i.QuestionID,
		&i.Module,
		&i.Number,
		&i.Prompt,
		&i.Kind,
		&i.Options,
		&i.SubQuestions,
		&i.Answer,
		&i.Explanation,
		&i.RunID,
	)
	return i, err
}

const insertExtractionRun = `-- name: InsertExtractionRun :exec
INSERT INTO extraction_runs (run_id, documents, failed, questions)
VALUES ($1, $2, $3, $4)
`

type InsertExtractionRunParams struct {
	RunID     pgtype.UUID `json:"run_id"`
	Documents int32       `json:"documents"`
	Failed    int32       `json:"failed"`
	Questions int32       `json:"questions"`
}

func (q *Queries) InsertExtractionRun(ctx context.Context, arg InsertExtractionRunParams) error {
	_, err := q.db.Exec(ctx, insertExtractionRun,
		arg.RunID,
		arg.Documents,
		arg.Failed,
		arg.Questions,
	)
	return err
}

const getLatestExtractionRun = `-- name: GetLatestExtractionRun :one
SELECT run_id, documents, failed, questions, created_at
FROM extraction_runs
ORDER BY created_at DESC
LIMIT 1
`

func (q *Queries) GetLatestExtractionRun(ctx context.Context) (ExtractionRun, error) {
	row := q.db.QueryRow(ctx, getLatestExtractionRun)
	var i ExtractionRun
	err := row.Scan(
		&i.RunID,
		&i.Documents,
		&i.Failed,
		&i.Questions,
		&i.CreatedAt,
	)
	return i, err
}

const deleteQuestions = `-- name: DeleteQuestions :exec
DELETE FROM questions
`

func (q *Queries) DeleteQuestions(ctx context.Context) error {
	_, err := q.db.Exec(ctx, deleteQuestions)
	return err
}

const insertQuestion = `-- name: InsertQuestion :exec
INSERT INTO questions (question_id, module, number, prompt, kind, options, sub_questions, answer, explanation, run_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

type InsertQuestionParams struct {
	QuestionID   string      `json:"question_id"`
	Module       string      `json:"module"`
	Number       int32       `json:"number"`
	Prompt       string      `json:"prompt"`
	Kind         string      `json:"kind"`
	Options      []byte      `json:"options"`
	SubQuestions []byte      `json:"sub_questions"`
	Answer       pgtype.Text `json:"answer"`
	Explanation  string      `json:"explanation"`
	RunID        pgtype.UUID `json:"run_id"`
}

func (q *Queries) InsertQuestion(ctx context.Context, arg InsertQuestionParams) error {
	_, err := q.db.Exec(ctx, insertQuestion,
		arg.QuestionID,
		arg.Module,
		arg.Number,
		arg.Prompt,
		arg.Kind,
		arg.Options,
		arg.SubQuestions,
		arg.Answer,
		arg.Explanation,
		arg.RunID,
	)
	return err
}
