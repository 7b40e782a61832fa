package archive

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store using Go maps. Thread-safe via sync.RWMutex.
// Its contents live only as long as the process.
type MemStore struct {
	mu    sync.RWMutex
	runs  map[string]Run
	order []string // insertion order, used to break CreatedAt ties
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{runs: make(map[string]Run)}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

// SaveRun stores a copy of run keyed by its ID.
func (m *MemStore) SaveRun(_ context.Context, run Run) error {
	if err := validate(run); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[run.ID]; ok {
		return fmt.Errorf("archive: run %s already exists", run.ID)
	}
	m.runs[run.ID] = copyRun(run)
	m.order = append(m.order, run.ID)
	return nil
}

// GetRun returns the run with the given ID or ErrNotFound.
func (m *MemStore) GetRun(_ context.Context, id string) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyRun(r)
	return &out, nil
}

// ListRuns returns up to limit runs, newest first.
func (m *MemStore) ListRuns(_ context.Context, limit int) ([]Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := m.sortedLocked(func(Run) bool { return true })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// FindByTopic returns runs whose topic contains query (case-insensitive),
// newest first.
func (m *MemStore) FindByTopic(_ context.Context, query string) ([]Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q := strings.ToLower(query)
	return m.sortedLocked(func(r Run) bool {
		return strings.Contains(strings.ToLower(r.Topic), q)
	}), nil
}

// Stats returns counts of runs and their linked insights and trends.
func (m *MemStore) Stats(_ context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := &Stats{RunCount: len(m.runs)}
	for _, r := range m.runs {
		st.InsightCount += len(r.Insights)
		st.TrendCount += len(r.Trends)
	}
	return st, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}

func (m *MemStore) sortedLocked(keep func(Run) bool) []Run {
	out := make([]Run, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		r := m.runs[m.order[i]]
		if keep(r) {
			out = append(out, copyRun(r))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func copyRun(r Run) Run {
	r.Insights = cloneStrings(r.Insights)
	r.Trends = cloneStrings(r.Trends)
	r.Recommendations = cloneStrings(r.Recommendations)
	return r
}
