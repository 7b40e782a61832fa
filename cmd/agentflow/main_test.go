package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/agentflow/internal/config"
	"github.com/dusk-indust/agentflow/internal/llm"
	"github.com/dusk-indust/agentflow/internal/llm/llmtest"
)

// writeConfig writes an agentflow.yml into a fresh directory and returns
// its path.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agentflow.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

type result struct {
	stdout string
	stderr string
	err    error
}

// execute runs the root command with gen standing in for every model.
func execute(t *testing.T, gen llm.Generator, stdin string, args ...string) result {
	t.Helper()
	a := newApp(withGenerator(func(*config.Config, string) (llm.Generator, error) {
		return gen, nil
	}))
	cmd := a.rootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := a.execute(cmd)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestRoot_UnknownLogLevel(t *testing.T) {
	cfg := writeConfig(t, "")
	res := execute(t, llmtest.NewStub(), "", "--config", cfg, "--log-level", "loud", "diagram")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "unknown level")
}

func TestRoot_InvalidConfig(t *testing.T) {
	cfg := writeConfig(t, "archive:\n  backend: postgres\n")
	res := execute(t, llmtest.NewStub(), "", "--config", cfg, "diagram")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "unknown backend")
}

func TestRoot_MissingAPIKey(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "")
	cfg := writeConfig(t, "")

	a := newApp()
	cmd := a.rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfg, "research", "Remote Work"})
	err := a.execute(cmd)
	assert.ErrorIs(t, err, errNoAPIKey)
}

func TestApp_PerRoleModels(t *testing.T) {
	cfg := writeConfig(t, "model: base-model\nagents:\n  writer:\n    model: big-model\n  analyzer:\n    model: base-model\n")

	var (
		mu     sync.Mutex
		models []string
	)
	stub := llmtest.ResearchStub()
	a := &app{newGenerator: func(_ *config.Config, model string) (llm.Generator, error) {
		mu.Lock()
		defer mu.Unlock()
		models = append(models, model)
		return stub, nil
	}}
	a.flags.configPath = cfg
	require.NoError(t, a.setup(nil))

	_, err := a.agents()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"base-model", "big-model"}, models,
		"one client for the default model plus one per distinct override")
}

func TestApp_GenerateCallsAreMetered(t *testing.T) {
	stub := llmtest.ResearchStub()
	a := &app{newGenerator: func(*config.Config, string) (llm.Generator, error) { return stub, nil }}
	a.flags.configPath = writeConfig(t, "")
	require.NoError(t, a.setup(nil))

	wf, err := a.researchWorkflow()
	require.NoError(t, err)
	_, err = wf.Run(context.Background(), "Remote Work")
	require.NoError(t, err)

	assert.Equal(t, float64(8), testutil.ToFloat64(a.metrics.GenerateCalls.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(a.metrics.StageRuns.WithLabelValues("research", "write", "complete")))
}
