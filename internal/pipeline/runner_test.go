package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/quizbank/internal/config"
	"github.com/gokatarajesh/quizbank/internal/extract"
	"github.com/gokatarajesh/quizbank/internal/metrics"
	"github.com/gokatarajesh/quizbank/internal/question"
)

const macroSheet = `1. What is GDP?
a. Output
b. Income
2. Scarcity exists only in poor countries.
Answers
1. a Output measures production.
2. False. Scarcity is universal.
`

const policySheet = `1. Describe the multiplier.
2. Inflation is always bad.
Answers
2. true Moderate inflation can be harmless.
`

func writeDocs(t *testing.T, docs map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), body, 0o644))
	}
	return dir
}

func newTestRunner(t *testing.T, opts Options) *Runner {
	t.Helper()
	router, expected, err := NewRouter(nil)
	require.NoError(t, err)
	if opts.Expected == nil {
		opts.Expected = expected
	}
	return NewRunner(router, opts, zerolog.Nop())
}

type failingSource struct {
	Source
	fail string
}

func (s failingSource) Read(ctx context.Context, name string) ([]byte, error) {
	if name == s.fail {
		return nil, errors.New("disk on fire")
	}
	return s.Source.Read(ctx, name)
}

func TestRunIsolatesDocumentFailures(t *testing.T) {
	dir := writeDocs(t, map[string][]byte{
		"Modules 1 - 3.txt":   []byte(macroSheet),
		"Modules 4 - 6.txt":   []byte(policySheet),
		"Modules 12.txt":      {0xff, 0xfe, 0x00},
		"Modules 13.txt":      []byte("  \n\n"),
		"Modules 14.txt":      []byte("No numbered lines here.\n"),
		"Modules 15.txt":      []byte(policySheet),
		"instructor notes.md": []byte(macroSheet),
	})
	src := failingSource{Source: NewDirSource(dir, []string{".txt"}), fail: "Modules 15.txt"}

	report, err := newTestRunner(t, Options{Workers: 3}).Run(context.Background(), src)
	require.NoError(t, err)

	require.Len(t, report.Documents, 6)
	assert.Len(t, report.Questions, 4)

	failed := map[string]error{}
	for _, d := range report.Failed() {
		failed[d.Name] = d.Err
	}
	require.Len(t, failed, 4)
	assert.ErrorIs(t, failed["Modules 12.txt"], extract.ErrNotText)
	assert.ErrorIs(t, failed["Modules 13.txt"], extract.ErrEmptyDocument)
	assert.ErrorIs(t, failed["Modules 14.txt"], extract.ErrNoQuestions)
	assert.ErrorContains(t, failed["Modules 15.txt"], "disk on fire")
	assert.True(t, IsEmptyInput(failed["Modules 13.txt"]))
	assert.False(t, IsEmptyInput(failed["Modules 15.txt"]))

	summary := report.Summary()
	assert.Equal(t, report.RunID, summary.ID)
	assert.Equal(t, 6, summary.Documents)
	assert.Equal(t, 4, summary.Failed)
	assert.Equal(t, 4, summary.Questions)
}

func TestRunKeepsSourceOrder(t *testing.T) {
	dir := writeDocs(t, map[string][]byte{
		"Modules 4 - 6.txt": []byte(policySheet),
		"Modules 1 - 3.txt": []byte(macroSheet),
	})

	report, err := newTestRunner(t, Options{Workers: 4}).Run(context.Background(), NewDirSource(dir, nil))
	require.NoError(t, err)

	var ids []string
	for _, q := range report.Questions {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []string{"mod1-3-1", "mod1-3-2", "mod4-6-1", "mod4-6-2"}, ids)

	q := report.Questions[1]
	assert.Equal(t, question.TypeTrueFalse, q.Type)
	require.NotNil(t, q.Answer)
	assert.Equal(t, "false", *q.Answer)
	assert.Equal(t, "Scarcity is universal.", q.Explanation)
	assert.Empty(t, question.ValidateCollection(report.Questions))
}

func TestRunDropsCrossDocumentDuplicates(t *testing.T) {
	dir := writeDocs(t, map[string][]byte{
		"A Modules 1 - 3.txt": []byte(macroSheet),
		"B Modules 1-3.txt":   []byte("2. A different second question.\n3. A third question.\n"),
	})

	report, err := newTestRunner(t, Options{}).Run(context.Background(), NewDirSource(dir, nil))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Duplicates)
	require.Len(t, report.Questions, 3)
	assert.Equal(t, "Scarcity exists only in poor countries.", report.Questions[1].Question)
	assert.Equal(t, "mod1-3-3", report.Questions[2].ID)
}

func TestRunCountMismatchIsAdvisory(t *testing.T) {
	dir := writeDocs(t, map[string][]byte{"Modules 1 - 3.txt": []byte(macroSheet)})
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	report, err := newTestRunner(t, Options{Metrics: m}).Run(context.Background(), NewDirSource(dir, nil))
	require.NoError(t, err)

	assert.Len(t, report.Questions, 2)
	assert.Equal(t, []CountMismatch{{Module: "1-3", Expected: 20, Actual: 2}}, report.Mismatches)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CountMismatch.WithLabelValues("1-3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Documents.WithLabelValues("ok", "general")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Questions.WithLabelValues("multiple-choice")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Questions.WithLabelValues("true-false")))
}

func TestRunMatchingCountHasNoMismatch(t *testing.T) {
	dir := writeDocs(t, map[string][]byte{"Modules 1 - 3.txt": []byte(macroSheet)})

	report, err := newTestRunner(t, Options{Expected: map[string]int{"1-3": 2}}).Run(context.Background(), NewDirSource(dir, nil))
	require.NoError(t, err)
	assert.Empty(t, report.Mismatches)
}

func TestRunListError(t *testing.T) {
	_, err := newTestRunner(t, Options{}).Run(context.Background(), NewDirSource(filepath.Join(t.TempDir(), "missing"), nil))
	require.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	dir := writeDocs(t, map[string][]byte{"Modules 1 - 3.txt": []byte(macroSheet)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestRunner(t, Options{}).Run(ctx, NewDirSource(dir, nil))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRouterAppliesProfile(t *testing.T) {
	profile := &config.Profile{
		Classifier: config.ClassifierProfile{MeanLength: 500},
		Modules: map[string]config.ModuleProfile{
			"1-3": {ExpectedCount: 2, Strategy: string(extract.KindBulletLeading)},
			"7-8": {Strategy: string(extract.KindGeneral)},
		},
	}

	router, expected, err := NewRouter(profile)
	require.NoError(t, err)
	assert.Equal(t, 2, expected["1-3"])
	assert.Equal(t, 34, expected["9-11"])
	assert.Equal(t, extract.KindBulletLeading, router.Strategy("1-3").Kind())
	assert.Equal(t, extract.KindGeneral, router.Strategy("7-8").Kind())
	assert.Equal(t, extract.KindSynthesizedRange, router.Strategy("9-11").Kind())
}

func TestNewRouterRestoresModuleKeyCase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	body := "modules:\n  Unknown:\n    strategy: bullet-leading\n    expected_count: 3\n  \"7-8\":\n    strategy: general\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	profile, err := config.LoadProfile(path)
	require.NoError(t, err)

	router, expected, err := NewRouter(profile)
	require.NoError(t, err)
	assert.Equal(t, extract.KindBulletLeading, router.Strategy(extract.UnknownModule).Kind())
	assert.Equal(t, 3, expected[extract.UnknownModule])
	assert.NotContains(t, expected, "unknown")
	assert.Equal(t, extract.KindGeneral, router.Strategy("7-8").Kind())
}

func TestNewRouterRejectsUnknownStrategy(t *testing.T) {
	_, _, err := NewRouter(&config.Profile{Modules: map[string]config.ModuleProfile{"1-3": {Strategy: "freestyle"}}})
	assert.ErrorIs(t, err, extract.ErrUnknownStrategy)

	_, _, err = NewRouter(&config.Profile{Modules: map[string]config.ModuleProfile{"1-3": {Strategy: string(extract.KindSynthesizedRange)}}})
	assert.ErrorIs(t, err, extract.ErrUnknownStrategy)
}

func TestMergeClassifierKeepsUnsetDefaults(t *testing.T) {
	base := extract.DefaultClassifier()
	merged := mergeClassifier(base, config.ClassifierProfile{Markers: []string{"justify"}})
	assert.Equal(t, []string{"justify"}, merged.Markers)
	assert.Equal(t, base.QuestionFraction, merged.QuestionFraction)
	assert.Equal(t, base.MeanLength, merged.MeanLength)
}
