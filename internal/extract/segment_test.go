package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/quizbank/internal/question"
)

func TestSplitSections(t *testing.T) {
	s := SplitSections("1. Q one\nANSWERS\n1. b")
	assert.True(t, s.HasAnswers)
	assert.Equal(t, "1. Q one\n", s.Questions)
	assert.Equal(t, "\n1. b", s.Answers)

	s = SplitSections("1. Q one\n  Answers:  \n1. b")
	assert.True(t, s.HasAnswers)
	assert.Equal(t, "\n1. b", s.Answers)
}

func TestSplitSectionsWithoutHeader(t *testing.T) {
	text := "1. Q one\nAnswers to common objections are in the notes.\n"
	s := SplitSections(text)
	assert.False(t, s.HasAnswers)
	assert.Equal(t, text, s.Questions)
	assert.Empty(t, s.Answers)
}

func TestSegmentQuestionsFirstOccurrenceWins(t *testing.T) {
	section := "1. First\na. x\n2. Second\n1. Repeat\nb. y\n"
	blocks := SegmentQuestions(section, SegmentOptions{})
	require.Len(t, blocks, 2)

	assert.Equal(t, 1, blocks[0].Number)
	assert.Equal(t, "First", blocks[0].Lead)
	assert.Equal(t, []question.Item{{Label: "a", Text: "x"}}, blocks[0].Items)

	assert.Equal(t, 2, blocks[1].Number)
	assert.Contains(t, blocks[1].Body, "1. Repeat")
	assert.Equal(t, []question.Item{{Label: "b", Text: "y"}}, blocks[1].Items)
}

func TestSegmentQuestionsIgnoresDecimalsAndZero(t *testing.T) {
	section := "  3. Indented   question\n1.5 million units were sold\n0. not a question\n"
	blocks := SegmentQuestions(section, SegmentOptions{})
	require.Len(t, blocks, 1)
	assert.Equal(t, 3, blocks[0].Number)
	assert.Equal(t, "Indented question", blocks[0].Lead)
}

func TestSegmentQuestionsBulletPrefix(t *testing.T) {
	section := "15. Plain\n• 16. Bulleted number\n"
	assert.Len(t, SegmentQuestions(section, SegmentOptions{}), 1)

	blocks := SegmentQuestions(section, SegmentOptions{BulletPrefix: true})
	require.Len(t, blocks, 2)
	assert.Equal(t, 16, blocks[1].Number)
	assert.Equal(t, "Bulleted number", blocks[1].Lead)
}

func TestSegmentQuestionsStemItems(t *testing.T) {
	section := "4. Consider the statements:\nA) Prices rise\n  B) Output falls\na. A only\nb) B only\n"
	blocks := SegmentQuestions(section, SegmentOptions{})
	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"A) Prices rise", "B) Output falls"}, blocks[0].Stem)
	assert.Equal(t, "Consider the statements:\nA) Prices rise\nB) Output falls", blocks[0].Prompt())
	assert.Equal(t, []question.Item{
		{Label: "a", Text: "A only"},
		{Label: "b", Text: "B only"},
	}, blocks[0].Items)
}

func TestSegmentAnswers(t *testing.T) {
	section := "\n1. b Because\n2.True\nsecond line\n3.5% is not a marker\n2. dup\n"
	blocks := SegmentAnswers(section)
	require.Len(t, blocks, 2)
	assert.Equal(t, AnswerBlock{Number: 1, Text: "b Because"}, blocks[0])
	assert.Equal(t, 2, blocks[1].Number)
	assert.Equal(t, "True\nsecond line\n3.5% is not a marker\n2. dup", blocks[1].Text)
}
