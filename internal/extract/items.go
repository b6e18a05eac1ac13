package extract

import (
	"regexp"
	"strings"

	"github.com/gokatarajesh/quizbank/internal/question"
)

var (
	itemLine = regexp.MustCompile(`(?m)^[ \t]*([a-e])[.)][ \t]+(\S[^\n]*)$`)
	stemLine = regexp.MustCompile(`(?m)^[ \t]*[A-C]\)[ \t]+\S[^\n]*$`)
)

// scanItems returns the lowercase lettered items of a block body in source order.
func scanItems(body string) []question.Item {
	matches := itemLine.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}
	items := make([]question.Item, 0, len(matches))
	for _, m := range matches {
		items = append(items, question.Item{
			Label: strings.ToLower(m[1]),
			Text:  cleanLine(m[2]),
		})
	}
	return items
}

// scanStem returns uppercase "A)"-style lines that belong to the question stem.
func scanStem(body string) []string {
	lines := stemLine.FindAllString(body, -1)
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}
