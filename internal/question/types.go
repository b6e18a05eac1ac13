package question

import (
	"fmt"

	"github.com/google/uuid"
)

// Type is the rendering mode of a question record.
type Type string

// Type constants.
const (
	TypeMultipleChoice Type = "multiple-choice"
	TypeMultiPart      Type = "multi-part"
	TypeTrueFalse      Type = "true-false"
	TypeOpenEnded      Type = "open-ended"
)

// Types lists every record type in a fixed order (used for per-type counts).
var Types = []Type{TypeMultipleChoice, TypeMultiPart, TypeTrueFalse, TypeOpenEnded}

// Item is a lettered entry: an answer option or a sub-question part.
type Item struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Question is the normalized record delivered to the rendering layer.
type Question struct {
	ID           string  `json:"id"`
	Number       int     `json:"number"`
	Module       string  `json:"module"`
	Question     string  `json:"question"`
	Options      []Item  `json:"options"`
	SubQuestions []Item  `json:"subQuestions"`
	Type         Type    `json:"type"`
	Answer       *string `json:"answer"`
	Explanation  string  `json:"explanation"`
}

// ID builds the stable record key for a module and question number.
func ID(module string, number int) string {
	return fmt.Sprintf("mod%s-%d", module, number)
}

// HasOption reports whether label is one of the question's option labels.
func (q Question) HasOption(label string) bool {
	for _, opt := range q.Options {
		if opt.Label == label {
			return true
		}
	}
	return false
}

// AutoGraded reports whether a response to q can be checked without self-assessment.
func (q Question) AutoGraded() bool {
	return q.Answer != nil && (q.Type == TypeMultipleChoice || q.Type == TypeTrueFalse)
}

// ModuleSummary is a module identifier with its record count.
type ModuleSummary struct {
	Module string `json:"module"`
	Count  int    `json:"count"`
}

// Verdict is the outcome of grading a single response.
type Verdict struct {
	QuestionID  string  `json:"questionId"`
	Type        Type    `json:"type"`
	Correct     *bool   `json:"correct"`
	SelfAssess  bool    `json:"selfAssess"`
	Answer      *string `json:"answer"`
	Explanation string  `json:"explanation"`
}

// RunSummary describes the extraction run that produced a bank.
type RunSummary struct {
	ID        uuid.UUID `json:"id"`
	Documents int       `json:"documents"`
	Failed    int       `json:"failed"`
	Questions int       `json:"questions"`
}

// CountByType tallies records per type.
func CountByType(qs []Question) map[Type]int {
	counts := make(map[Type]int, len(Types))
	for _, q := range qs {
		counts[q.Type]++
	}
	return counts
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
