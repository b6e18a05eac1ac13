package extract

import (
	"regexp"
	"strings"

	"github.com/gokatarajesh/quizbank/internal/question"
)

var (
	letterAnswer     = regexp.MustCompile(`(?i)^([a-e])\b`)
	truthAnswer      = regexp.MustCompile(`(?i)^(true|false)\b`)
	leadingSeparator = regexp.MustCompile(`^[ \t]*[.):,\-–—][ \t]*`)
)

// ResolveAnswer applies an answer span to rec and returns the result.
//
// Extraction order:
//  1. a multiple-choice record whose span opens with one of its option letters
//     gets that letter as the answer;
//  2. an open-ended record whose span opens with True/False becomes true-false;
//  3. anything else is kept as a free-form explanation without an answer.
func ResolveAnswer(rec question.Question, span string) question.Question {
	span = strings.TrimSpace(span)

	if rec.Type == question.TypeMultipleChoice {
		if m := letterAnswer.FindStringSubmatch(span); m != nil {
			label := strings.ToLower(m[1])
			if rec.HasOption(label) {
				rec.Answer = question.StringPtr(label)
				rec.Explanation = remainder(span[len(m[0]):])
				return rec
			}
		}
	}

	if trueFalseEligible(rec) {
		if m := truthAnswer.FindStringSubmatch(span); m != nil {
			rec.Answer = question.StringPtr(strings.ToLower(m[1]))
			rec.Type = question.TypeTrueFalse
			rec.Explanation = remainder(span[len(m[0]):])
			return rec
		}
	}

	rec.Explanation = FormatExplanation(span)
	return rec
}

// trueFalseEligible reports whether rec has no lettered items to contradict a true/false key.
func trueFalseEligible(rec question.Question) bool {
	return rec.Type == question.TypeOpenEnded || rec.Type == question.TypeTrueFalse
}

// remainder formats what follows an answer token, minus one leading separator.
func remainder(s string) string {
	return FormatExplanation(leadingSeparator.ReplaceAllString(s, ""))
}

// answerLookup indexes answer spans by question number for one document.
func answerLookup(section string) map[int]string {
	blocks := SegmentAnswers(section)
	lookup := make(map[int]string, len(blocks))
	for _, b := range blocks {
		lookup[b.Number] = b.Text
	}
	return lookup
}
