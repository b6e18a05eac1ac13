package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gokatarajesh/quizbank/internal/question"
)

var (
	answersHeader      = regexp.MustCompile(`(?im)^[ \t]*answers[ \t]*:?[ \t]*$`)
	questionLine       = regexp.MustCompile(`(?m)^[ \t]*(\d+)\.[ \t]+(\S[^\n]*)$`)
	bulletQuestionLine = regexp.MustCompile(`(?m)^[ \t]*(?:[•▪●◦*-][ \t]*)?(\d+)\.[ \t]+(\S[^\n]*)$`)
	answerMarker       = regexp.MustCompile(`(?m)^[ \t]*(\d+)\.`)
)

// Sections is a document split at its "Answers" header.
type Sections struct {
	Questions  string
	Answers    string
	HasAnswers bool
}

// SplitSections splits text at the first "Answers" header line. Without a
// header the whole text is the question section.
func SplitSections(text string) Sections {
	loc := answersHeader.FindStringIndex(text)
	if loc == nil {
		return Sections{Questions: text}
	}
	return Sections{
		Questions:  text[:loc[0]],
		Answers:    text[loc[1]:],
		HasAnswers: true,
	}
}

// SegmentOptions tunes question segmentation.
type SegmentOptions struct {
	// BulletPrefix accepts numbered lines behind a bullet glyph ("• 16. ...").
	BulletPrefix bool
}

// QuestionBlock is the text of one numbered question.
type QuestionBlock struct {
	Number int
	Lead   string
	Body   string
	Items  []question.Item
	Stem   []string

	start int
}

// Prompt is the lead text with any uppercase stem items appended on their own lines.
func (b QuestionBlock) Prompt() string {
	if len(b.Stem) == 0 {
		return b.Lead
	}
	return b.Lead + "\n" + strings.Join(b.Stem, "\n")
}

// AnswerBlock is the answer-section span for one question number.
type AnswerBlock struct {
	Number int
	Text   string
}

type marker struct {
	number int
	start  int
	end    int
	lead   string
}

// SegmentQuestions cuts the question section into numbered blocks. A repeated
// number keeps its first occurrence; the duplicate line stays inside the
// preceding block.
func SegmentQuestions(section string, opts SegmentOptions) []QuestionBlock {
	pattern := questionLine
	if opts.BulletPrefix {
		pattern = bulletQuestionLine
	}

	seen := make(map[int]struct{})
	var markers []marker
	for _, loc := range pattern.FindAllStringSubmatchIndex(section, -1) {
		n, err := strconv.Atoi(section[loc[2]:loc[3]])
		if err != nil || n <= 0 {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		markers = append(markers, marker{
			number: n,
			start:  loc[0],
			end:    loc[1],
			lead:   cleanLine(section[loc[4]:loc[5]]),
		})
	}

	blocks := make([]QuestionBlock, 0, len(markers))
	for i, m := range markers {
		end := len(section)
		if i+1 < len(markers) {
			end = markers[i+1].start
		}
		body := section[m.end:end]
		blocks = append(blocks, QuestionBlock{
			Number: m.number,
			Lead:   m.lead,
			Body:   body,
			Items:  scanItems(body),
			Stem:   scanStem(body),
			start:  m.start,
		})
	}
	return blocks
}

// SegmentAnswers cuts the answer section into one span per distinct number.
// A marker directly followed by a digit ("3.5%") is not a marker.
func SegmentAnswers(section string) []AnswerBlock {
	seen := make(map[int]struct{})
	var markers []marker
	for _, loc := range answerMarker.FindAllStringSubmatchIndex(section, -1) {
		if loc[1] < len(section) && isASCIIDigit(section[loc[1]]) {
			continue
		}
		n, err := strconv.Atoi(section[loc[2]:loc[3]])
		if err != nil || n <= 0 {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		markers = append(markers, marker{number: n, start: loc[0], end: loc[1]})
	}

	blocks := make([]AnswerBlock, 0, len(markers))
	for i, m := range markers {
		end := len(section)
		if i+1 < len(markers) {
			end = markers[i+1].start
		}
		blocks = append(blocks, AnswerBlock{
			Number: m.number,
			Text:   strings.TrimSpace(section[m.end:end]),
		})
	}
	return blocks
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
