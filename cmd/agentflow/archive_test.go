package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/agentflow/internal/archive"
	"github.com/dusk-indust/agentflow/internal/config"
	"github.com/dusk-indust/agentflow/internal/llm"
	"github.com/dusk-indust/agentflow/internal/llm/llmtest"
)

// closeRecorder is a MemStore that remembers whether it was closed.
type closeRecorder struct {
	*archive.MemStore
	closed int
}

func (s *closeRecorder) Close() error {
	s.closed++
	return s.MemStore.Close()
}

// executeWithStore runs args with store standing in for the configured
// archive backend.
func executeWithStore(t *testing.T, store archive.Store, args ...string) error {
	t.Helper()
	stub := llmtest.ResearchStub()
	a := newApp(withGenerator(func(*config.Config, string) (llm.Generator, error) { return stub, nil }))
	a.store = store
	cmd := a.rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return a.execute(cmd)
}

func TestResearch_MemoryBackendSkipsArchive(t *testing.T) {
	store := &closeRecorder{MemStore: archive.NewMemStore()}
	err := executeWithStore(t, store, "--config", writeConfig(t, ""), "research", "Remote Work")
	require.NoError(t, err)

	runs, err := store.MemStore.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs, "a per-process archive would hand out ids nobody can look up")
}

func TestResearch_PersistentBackendArchives(t *testing.T) {
	store := &closeRecorder{MemStore: archive.NewMemStore()}
	cfg := writeConfig(t, "archive:\n  backend: kuzu\n")
	err := executeWithStore(t, store, "--config", cfg, "research", "Remote Work")
	require.NoError(t, err)

	runs, err := store.MemStore.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "Remote Work", runs[0].Topic)
	assert.Equal(t, 1, store.closed)
}

func TestExecute_ClosesArchiveWhenCommandFails(t *testing.T) {
	store := &closeRecorder{MemStore: archive.NewMemStore()}
	cfg := writeConfig(t, "archive:\n  backend: kuzu\n")

	err := executeWithStore(t, store, "--config", cfg, "diagram", "--run", "missing")
	require.ErrorIs(t, err, archive.ErrNotFound)
	assert.Equal(t, 1, store.closed)
}
