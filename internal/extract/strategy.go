package extract

import (
	"regexp"

	"github.com/gokatarajesh/quizbank/internal/question"
)

// StrategyKind tags how a module's document is assembled.
type StrategyKind string

// Strategy kinds.
const (
	KindGeneral          StrategyKind = "general"
	KindBulletLeading    StrategyKind = "bullet-leading"
	KindSynthesizedRange StrategyKind = "synthesized-range"
)

// Strategy assembles the records of one document.
type Strategy interface {
	Kind() StrategyKind
	Extract(doc Document, a Assembler) ([]question.Question, error)
}

// General applies the numbered-question grammar unchanged.
type General struct{}

func (General) Kind() StrategyKind { return KindGeneral }

func (General) Extract(doc Document, a Assembler) ([]question.Question, error) {
	return a.Assemble(doc)
}

// DefaultBulletExplanation is used when a bullet question has no answer entry.
const DefaultBulletExplanation = "See class notes/discussion."

var bulletLine = regexp.MustCompile(`(?m)^[ \t]*[•▪●◦][ \t]+(\S[^\n]*)$`)

// BulletLeading handles documents whose first question is a bullet line
// instead of "1.". The bullet becomes question 1, any numbered 1 is ignored
// and numbers above MaxNumber (when set) are dropped.
type BulletLeading struct {
	MaxNumber           int
	FallbackExplanation string
}

func (BulletLeading) Kind() StrategyKind { return KindBulletLeading }

func (s BulletLeading) Extract(doc Document, a Assembler) ([]question.Question, error) {
	p := a.parse(doc.Text)

	bullet, ok := leadingBullet(p)
	blocks := make([]QuestionBlock, 0, len(p.blocks)+1)
	if ok {
		blocks = append(blocks, bullet)
	}
	for _, b := range p.blocks {
		if ok && b.Number == 1 {
			continue
		}
		if s.MaxNumber > 0 && b.Number > s.MaxNumber {
			continue
		}
		blocks = append(blocks, b)
	}
	if len(blocks) == 0 {
		return nil, ErrNoQuestions
	}

	recs := a.finish(a.records(doc.Module, blocks), p.answers)
	if _, answered := p.answers[1]; ok && !answered {
		for i := range recs {
			if recs[i].Number == 1 {
				recs[i].Explanation = s.FallbackExplanation
			}
		}
	}
	return recs, nil
}

// leadingBullet finds a bullet line that precedes the first numbered question.
func leadingBullet(p parsedDocument) (QuestionBlock, bool) {
	loc := bulletLine.FindStringSubmatchIndex(p.questions)
	if loc == nil {
		return QuestionBlock{}, false
	}
	end := len(p.questions)
	if len(p.blocks) > 0 {
		end = p.blocks[0].start
	}
	if loc[0] >= end {
		return QuestionBlock{}, false
	}
	body := p.questions[loc[1]:end]
	return QuestionBlock{
		Number: 1,
		Lead:   cleanLine(p.questions[loc[2]:loc[3]]),
		Body:   body,
		Items:  scanItems(body),
		Stem:   scanStem(body),
		start:  loc[0],
	}, true
}

// SynthesizedGroup is a run of numbers whose records share a generated prompt.
type SynthesizedGroup struct {
	From, To     int
	Prompt       func(n int) string
	SubQuestions []question.Item
}

// AuthoredQuestion is a record written out in full.
type AuthoredQuestion struct {
	Number       int
	Prompt       string
	SubQuestions []question.Item
}

// SynthesizedRange handles documents whose numbering runs past the questions
// present in the text. Numbers up to LastParsed come from the document (bullet
// prefixed numbers allowed); the groups and the final record are generated.
type SynthesizedRange struct {
	LastParsed int
	Groups     []SynthesizedGroup
	Final      *AuthoredQuestion
}

func (SynthesizedRange) Kind() StrategyKind { return KindSynthesizedRange }

func (s SynthesizedRange) Extract(doc Document, a Assembler) ([]question.Question, error) {
	a.Segment.BulletPrefix = true
	p := a.parse(doc.Text)

	blocks := make([]QuestionBlock, 0, len(p.blocks))
	for _, b := range p.blocks {
		if s.LastParsed > 0 && b.Number > s.LastParsed {
			continue
		}
		blocks = append(blocks, b)
	}

	recs := a.records(doc.Module, blocks)
	for _, g := range s.Groups {
		for n := g.From; n <= g.To; n++ {
			recs = append(recs, synthesized(doc.Module, n, g.Prompt(n), g.SubQuestions))
		}
	}
	if s.Final != nil {
		recs = append(recs, synthesized(doc.Module, s.Final.Number, s.Final.Prompt, s.Final.SubQuestions))
	}
	if len(recs) == 0 {
		return nil, ErrNoQuestions
	}
	return a.finish(recs, p.answers), nil
}

func synthesized(module string, n int, prompt string, subs []question.Item) question.Question {
	rec := question.Question{
		ID:           question.ID(module, n),
		Number:       n,
		Module:       module,
		Question:     prompt,
		Options:      []question.Item{},
		SubQuestions: append([]question.Item{}, subs...),
		Type:         question.TypeOpenEnded,
	}
	if len(subs) > 0 {
		rec.Type = question.TypeMultiPart
	}
	return rec
}
