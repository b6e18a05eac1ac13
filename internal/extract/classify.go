package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/gokatarajesh/quizbank/internal/question"
)

// Default classifier parameters.
const (
	DefaultQuestionFraction = 0.5
	DefaultMeanLength       = 80
)

// DefaultMarkers are the interrogative markers that make an item read like a question.
var DefaultMarkers = []string{"what", "how", "by what", "by how", "calculate", "which", "why", "explain"}

// Classifier decides whether a set of lettered items are answer options or
// the parts of a compound question. It is a lexical heuristic: items form a
// question group when at least QuestionFraction of them contain a marker (or
// a question mark), or when their mean length exceeds MeanLength runes.
type Classifier struct {
	Markers          []string
	QuestionFraction float64
	MeanLength       float64
}

// DefaultClassifier returns the classifier with the default markers and thresholds.
func DefaultClassifier() Classifier {
	return Classifier{
		Markers:          append([]string(nil), DefaultMarkers...),
		QuestionFraction: DefaultQuestionFraction,
		MeanLength:       DefaultMeanLength,
	}
}

// IsQuestionGroup reports whether items are sub-questions rather than options.
func (c Classifier) IsQuestionGroup(items []question.Item) bool {
	if len(items) == 0 {
		return false
	}
	var matches, runes int
	for _, it := range items {
		runes += utf8.RuneCountInString(it.Text)
		if c.interrogative(it.Text) {
			matches++
		}
	}
	n := float64(len(items))
	mean := float64(runes) / n
	return float64(matches) >= c.QuestionFraction*n || mean > c.MeanLength
}

// Classify maps an item set to the record type it implies.
func (c Classifier) Classify(items []question.Item) question.Type {
	switch {
	case len(items) == 0:
		return question.TypeOpenEnded
	case c.IsQuestionGroup(items):
		return question.TypeMultiPart
	default:
		return question.TypeMultipleChoice
	}
}

func (c Classifier) interrogative(text string) bool {
	if strings.Contains(text, "?") {
		return true
	}
	lower := strings.ToLower(text)
	for _, m := range c.Markers {
		if m != "" && strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}
