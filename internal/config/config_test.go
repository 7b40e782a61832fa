package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/agentflow/internal/agent"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAPIKey, EnvBaseURL, EnvModel} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_NoFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Archive.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, DefaultSystemPrompt, cfg.SystemPrompt)
	assert.Empty(t, cfg.APIKey)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "agentflow.yaml", `
model: gpt-4o-mini
timeout: 15s
systemPrompt: Be brief.
agents:
  writer:
    model: gpt-4o
    temperature: 0.9
  research:
    temperature: 0
server:
  addr: 127.0.0.1:9000
archive:
  backend: kuzu
  path: .agentflow/archive
log:
  level: debug
  format: json
`)
	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, "Be brief.", cfg.SystemPrompt)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, ArchiveConfig{Backend: "kuzu", Path: ".agentflow/archive"}, cfg.Archive)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)

	w := cfg.Agent(agent.RoleWriter)
	assert.Equal(t, "gpt-4o", w.Model)
	require.NotNil(t, w.Temperature)
	assert.InDelta(t, 0.9, *w.Temperature, 1e-6)

	r := cfg.Agent(agent.RoleResearch)
	require.NotNil(t, r.Temperature, "explicit zero must survive")
	assert.Zero(t, *r.Temperature)

	assert.Nil(t, cfg.Agent(agent.RoleAnalyzer).Temperature)
}

func TestLoad_YMLPreferredOverYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "agentflow.yml", "model: from-yml\n")
	writeFile(t, dir, "agentflow.yaml", "model: from-yaml\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-yml", cfg.Model)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "agentflow.yml", "model: file-model\nbaseURL: http://file\n")
	t.Setenv(EnvModel, "env-model")
	t.Setenv(EnvBaseURL, "http://env")
	t.Setenv(EnvAPIKey, "sk-env")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "env-model", cfg.Model)
	assert.Equal(t, "http://env", cfg.BaseURL)
	assert.Equal(t, "sk-env", cfg.APIKey)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	// Unset so godotenv may fill it; t.Setenv restores the original value.
	require.NoError(t, os.Unsetenv(EnvAPIKey))
	dir := t.TempDir()
	writeFile(t, dir, ".env", "OPENAI_API_KEY=sk-dotenv\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sk-dotenv", cfg.APIKey)
	require.NoError(t, os.Unsetenv(EnvAPIKey))
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "custom.yml", "server:\n  addr: :7070\n")
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad yaml", "model: [unclosed", "parse"},
		{"unknown role", "agents:\n  critic:\n    model: x\n", `unknown role "critic"`},
		{"temperature", "agents:\n  writer:\n    temperature: 3\n", "out of range"},
		{"archive", "archive:\n  backend: sqlite\n", `unknown backend "sqlite"`},
		{"log format", "log:\n  format: xml\n", `unknown format "xml"`},
		{"timeout", "timeout: -1s\n", "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			writeFile(t, dir, "agentflow.yml", tt.content)
			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
