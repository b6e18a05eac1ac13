package question

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBankKeepsFirstDuplicate(t *testing.T) {
	qs := sampleBank()
	dup := qs[0]
	dup.Question = "Shadowed"
	bank := NewMemoryBank(append(qs, dup))

	q, err := bank.Question(context.Background(), "mod1-3-1")
	require.NoError(t, err)
	assert.Equal(t, "What is GDP?", q.Question)

	modules, err := bank.Modules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ModuleSummary{Module: "1-3", Count: 2}, modules[0])
}

func TestMemoryBankReturnsCopies(t *testing.T) {
	bank := NewMemoryBank(sampleBank())

	qs, err := bank.ModuleQuestions(context.Background(), "1-3")
	require.NoError(t, err)
	qs[0].Question = "mutated"

	again, err := bank.ModuleQuestions(context.Background(), "1-3")
	require.NoError(t, err)
	assert.Equal(t, "What is GDP?", again[0].Question)
}

func TestMemoryBankReplace(t *testing.T) {
	bank := NewMemoryBank(sampleBank())
	run := RunSummary{Documents: 2, Failed: 1, Questions: 1}

	require.NoError(t, bank.Replace(context.Background(), run, sampleBank()[3:4]))

	_, err := bank.Question(context.Background(), "mod1-3-1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = bank.ModuleQuestions(context.Background(), "1-3")
	assert.ErrorIs(t, err, ErrUnknownModule)
	got, err := bank.LatestRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, run, got)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	body := `[
  {
    "id": "mod1-3-1",
    "number": 1,
    "module": "1-3",
    "question": "What is GDP?",
    "options": [{"label": "a", "text": "Output"}],
    "subQuestions": [],
    "type": "multiple-choice",
    "answer": "a",
    "explanation": ""
  }
]
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	bank, err := LoadFile(path)
	require.NoError(t, err)
	q, err := bank.Question(context.Background(), "mod1-3-1")
	require.NoError(t, err)
	require.NotNil(t, q.Answer)
	assert.Equal(t, "a", *q.Answer)
	assert.Equal(t, []Item{{Label: "a", Text: "Output"}}, q.Options)
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}

func TestMemoryBankLatestRunEmpty(t *testing.T) {
	_, err := NewMemoryBank(nil).LatestRun(context.Background())
	assert.ErrorIs(t, err, ErrNoRun)

	got, err := NewMemoryBank(sampleBank()).LatestRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(sampleBank()), got.Questions)
}
