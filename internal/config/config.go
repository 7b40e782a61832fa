// Package config loads agentflow settings from agentflow.yml, a .env file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/agentflow/internal/agent"
	"github.com/dusk-indust/agentflow/internal/archive"
)

// Defaults applied to zero fields after loading.
const (
	DefaultModel        = "gpt-3.5-turbo"
	DefaultTimeout      = 60 * time.Second
	DefaultAddr         = ":8080"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultSystemPrompt = "You are a helpful assistant."
)

// Environment variables that override file settings.
const (
	EnvAPIKey  = "OPENAI_API_KEY"
	EnvBaseURL = "OPENAI_BASE_URL"
	EnvModel   = "AGENTFLOW_MODEL"
)

// Config holds process-level settings.
type Config struct {
	// APIKey is only read from the environment, never from the file.
	APIKey       string                   `yaml:"-"`
	Model        string                   `yaml:"model,omitempty"`
	BaseURL      string                   `yaml:"baseURL,omitempty"`
	Timeout      time.Duration            `yaml:"timeout,omitempty"`
	SystemPrompt string                   `yaml:"systemPrompt,omitempty"`
	Agents       map[string]AgentSettings `yaml:"agents,omitempty"`
	Server       ServerConfig             `yaml:"server,omitempty"`
	Archive      ArchiveConfig            `yaml:"archive,omitempty"`
	Log          LogConfig                `yaml:"log,omitempty"`
}

// AgentSettings overrides the model or temperature of one agent role.
type AgentSettings struct {
	Model       string   `yaml:"model,omitempty"`
	Temperature *float32 `yaml:"temperature,omitempty"`
}

// ServerConfig configures the web UI.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// ArchiveConfig selects where completed runs are kept.
type ArchiveConfig struct {
	Backend string `yaml:"backend,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Load reads agentflow.yml or agentflow.yaml from dir, plus dir/.env. A
// missing config file is not an error: the defaults are returned.
func Load(dir string) (*Config, error) {
	for _, name := range []string{"agentflow.yml", "agentflow.yaml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return finish(&Config{}, dir)
}

// LoadFile reads the config file at path. The .env file is looked up next
// to it.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return finish(&cfg, filepath.Dir(path))
}

func finish(cfg *Config, dir string) (*Config, error) {
	// Variables already set in the environment win over .env entries.
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		c.Model = v
	}
}

func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = DefaultSystemPrompt
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Archive.Backend == "" {
		c.Archive.Backend = archive.BackendMemory
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative, got %s", c.Timeout)
	}
	for name, s := range c.Agents {
		if !knownRole(name) {
			return fmt.Errorf("config: agents: unknown role %q", name)
		}
		if s.Temperature != nil && (*s.Temperature < 0 || *s.Temperature > 2) {
			return fmt.Errorf("config: agents.%s: temperature %.2f out of range [0, 2]", name, *s.Temperature)
		}
	}
	switch c.Archive.Backend {
	case archive.BackendMemory, archive.BackendKuzu:
	default:
		return fmt.Errorf("config: archive: unknown backend %q", c.Archive.Backend)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: log: unknown format %q", c.Log.Format)
	}
	return nil
}

// Agent returns the settings for role, or the zero value.
func (c *Config) Agent(role agent.Role) AgentSettings {
	return c.Agents[string(role)]
}

func knownRole(name string) bool {
	for _, r := range agent.Roles() {
		if string(r) == name {
			return true
		}
	}
	return false
}
