package extract

import (
	"sort"

	"github.com/gokatarajesh/quizbank/internal/question"
)

// Assembler builds question records from a document using the general grammar.
type Assembler struct {
	Classifier Classifier
	Segment    SegmentOptions
}

// parsedDocument is one document's question blocks and answer spans keyed by
// number. It lives for a single extraction.
type parsedDocument struct {
	questions string
	blocks    []QuestionBlock
	answers   map[int]string
}

func (a Assembler) parse(text string) parsedDocument {
	sections := SplitSections(text)
	p := parsedDocument{
		questions: sections.Questions,
		blocks:    SegmentQuestions(sections.Questions, a.Segment),
		answers:   map[int]string{},
	}
	if sections.HasAnswers {
		p.answers = answerLookup(sections.Answers)
	}
	return p
}

// Assemble extracts every numbered question of doc.
func (a Assembler) Assemble(doc Document) ([]question.Question, error) {
	p := a.parse(doc.Text)
	if len(p.blocks) == 0 {
		return nil, ErrNoQuestions
	}
	return a.finish(a.records(doc.Module, p.blocks), p.answers), nil
}

// Record builds the unanswered record for a block.
func (a Assembler) Record(module string, b QuestionBlock) question.Question {
	rec := question.Question{
		ID:           question.ID(module, b.Number),
		Number:       b.Number,
		Module:       module,
		Question:     b.Prompt(),
		Options:      []question.Item{},
		SubQuestions: []question.Item{},
		Type:         a.Classifier.Classify(b.Items),
	}
	switch rec.Type {
	case question.TypeMultipleChoice:
		rec.Options = append(rec.Options, b.Items...)
	case question.TypeMultiPart:
		rec.SubQuestions = append(rec.SubQuestions, b.Items...)
	}
	return rec
}

func (a Assembler) records(module string, blocks []QuestionBlock) []question.Question {
	recs := make([]question.Question, 0, len(blocks))
	for _, b := range blocks {
		recs = append(recs, a.Record(module, b))
	}
	return recs
}

// finish attaches answer spans by number, drops repeated numbers (first wins)
// and orders the records by number.
func (a Assembler) finish(recs []question.Question, answers map[int]string) []question.Question {
	seen := make(map[int]struct{}, len(recs))
	out := make([]question.Question, 0, len(recs))
	for _, rec := range recs {
		if _, dup := seen[rec.Number]; dup {
			continue
		}
		seen[rec.Number] = struct{}{}
		if span, ok := answers[rec.Number]; ok {
			rec = ResolveAnswer(rec, span)
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Number < out[j].Number
	})
	return out
}
