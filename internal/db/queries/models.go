package queries

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type ExtractionRun struct {
	RunID     pgtype.UUID        `json:"run_id"`
	Documents int32              `json:"documents"`
	Failed    int32              `json:"failed"`
	Questions int32              `json:"questions"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type Question struct {
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
