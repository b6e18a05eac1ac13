package question

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("question not found")
	ErrUnknownModule = errors.New("module not found")
	ErrNoRun         = errors.New("no extraction run recorded")
)

// Bank is the store behind the served question collection.
type Bank interface {
	Modules(ctx context.Context) ([]ModuleSummary, error)
	ModuleQuestions(ctx context.Context, module string) ([]Question, error)
	Question(ctx context.Context, id string) (Question, error)
	Replace(ctx context.Context, run RunSummary, qs []Question) error
	LatestRun(ctx context.Context) (RunSummary, error)
}

// MemoryBank serves a collection held in process memory.
type MemoryBank struct {
	mu       sync.RWMutex
	modules  []string
	byModule map[string][]Question
	byID     map[string]Question
	run      RunSummary
}

var _ Bank = (*MemoryBank)(nil)

func NewMemoryBank(qs []Question) *MemoryBank {
	b := &MemoryBank{}
	b.load(RunSummary{Questions: len(qs)}, qs)
	return b
}

// LoadFile builds a MemoryBank from an extractor output file.
func LoadFile(path string) (*MemoryBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var qs []Question
	if err := json.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return NewMemoryBank(qs), nil
}

func (b *MemoryBank) load(run RunSummary, qs []Question) {
	modules := make([]string, 0)
	byModule := make(map[string][]Question)
	byID := make(map[string]Question, len(qs))
	for _, q := range qs {
		if _, dup := byID[q.ID]; dup {
			continue
		}
		if _, ok := byModule[q.Module]; !ok {
			modules = append(modules, q.Module)
		}
		byModule[q.Module] = append(byModule[q.Module], q)
		byID[q.ID] = q
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.modules = modules
	b.byModule = byModule
	b.byID = byID
	b.run = run
}

func (b *MemoryBank) Modules(_ context.Context) ([]ModuleSummary, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]ModuleSummary, 0, len(b.modules))
	for _, m := range b.modules {
		out = append(out, ModuleSummary{Module: m, Count: len(b.byModule[m])})
	}
	return out, nil
}

func (b *MemoryBank) ModuleQuestions(_ context.Context, module string) ([]Question, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	qs, ok := b.byModule[module]
	if !ok {
		return nil, ErrUnknownModule
	}
	return append([]Question(nil), qs...), nil
}

func (b *MemoryBank) Question(_ context.Context, id string) (Question, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	q, ok := b.byID[id]
	if !ok {
		return Question{}, ErrNotFound
	}
	return q, nil
}

func (b *MemoryBank) Replace(_ context.Context, run RunSummary, qs []Question) error {
	b.load(run, qs)
	return nil
}

// LatestRun returns the summary of the run that produced the current
// collection. A bank loaded from a file carries a summary without an id.
func (b *MemoryBank) LatestRun(_ context.Context) (RunSummary, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.run.ID == uuid.Nil && b.run.Questions == 0 {
		return RunSummary{}, ErrNoRun
	}
	return b.run, nil
}
