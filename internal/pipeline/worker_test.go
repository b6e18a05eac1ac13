package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/quizbank/internal/question"
)

type recordingSink struct {
	mu      sync.Mutex
	calls   [][]question.Question
	runs    []question.RunSummary
	err     error
	replace chan struct{}
}

func (s *recordingSink) ReplaceBank(_ context.Context, run question.RunSummary, qs []question.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.calls = append(s.calls, qs)
	s.runs = append(s.runs, run)
	if s.replace != nil {
		select {
		case s.replace <- struct{}{}:
		default:
		}
	}
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func TestRefreshReplacesOnlyOnChange(t *testing.T) {
	dir := writeDocs(t, map[string][]byte{"Modules 1 - 3.txt": []byte(macroSheet)})
	out := filepath.Join(t.TempDir(), "questions.json")
	sink := &recordingSink{}
	w := NewRefreshWorker(newTestRunner(t, Options{}), NewDirSource(dir, nil), sink, RefreshOptions{OutputPath: out}, zerolog.Nop())

	assert.True(t, w.Refresh(context.Background()))
	assert.False(t, w.Refresh(context.Background()))
	require.Equal(t, 1, sink.count())
	assert.Len(t, sink.calls[0], 2)
	assert.Equal(t, 2, sink.runs[0].Questions)
	assert.FileExists(t, out)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Modules 4 - 6.txt"), []byte(policySheet), 0o644))
	assert.True(t, w.Refresh(context.Background()))
	require.Equal(t, 2, sink.count())
	assert.Len(t, sink.calls[1], 4)
}

func TestRefreshKeepsBankWhenNothingExtracted(t *testing.T) {
	dir := writeDocs(t, map[string][]byte{"Modules 1 - 3.txt": []byte("no questions\n")})
	sink := &recordingSink{}
	w := NewRefreshWorker(newTestRunner(t, Options{}), NewDirSource(dir, nil), sink, RefreshOptions{}, zerolog.Nop())

	assert.False(t, w.Refresh(context.Background()))
	assert.Equal(t, 0, sink.count())
}

func TestRefreshRetriesAfterSinkError(t *testing.T) {
	dir := writeDocs(t, map[string][]byte{"Modules 1 - 3.txt": []byte(macroSheet)})
	sink := &recordingSink{err: errors.New("db down")}
	w := NewRefreshWorker(newTestRunner(t, Options{}), NewDirSource(dir, nil), sink, RefreshOptions{}, zerolog.Nop())

	assert.False(t, w.Refresh(context.Background()))

	sink.mu.Lock()
	sink.err = nil
	sink.mu.Unlock()
	assert.True(t, w.Refresh(context.Background()))
}

func TestRefreshWorkerRunStopsOnCancel(t *testing.T) {
	dir := writeDocs(t, map[string][]byte{"Modules 1 - 3.txt": []byte(macroSheet)})
	sink := &recordingSink{replace: make(chan struct{}, 1)}
	w := NewRefreshWorker(newTestRunner(t, Options{}), NewDirSource(dir, nil), sink, RefreshOptions{Interval: 10 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()

	select {
	case <-sink.replace:
	case <-time.After(2 * time.Second):
		t.Fatal("bank was never replaced")
	}
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Equal(t, 1, sink.count())
}
