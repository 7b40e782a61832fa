package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/agentflow/internal/agent"
	"github.com/dusk-indust/agentflow/internal/archive"
	"github.com/dusk-indust/agentflow/internal/config"
	"github.com/dusk-indust/agentflow/internal/llm"
	"github.com/dusk-indust/agentflow/internal/logging"
	"github.com/dusk-indust/agentflow/internal/metrics"
	"github.com/dusk-indust/agentflow/internal/workflow"
)

// generatorFactory builds the generator for one model name.
type generatorFactory func(cfg *config.Config, model string) (llm.Generator, error)

// errNoAPIKey is returned when a command needs the model but no key is set.
var errNoAPIKey = errors.New("OPENAI_API_KEY is not set (export it or put it in .env)")

func openAIGenerator(cfg *config.Config, model string) (llm.Generator, error) {
	if cfg.APIKey == "" {
		return nil, errNoAPIKey
	}
	return llm.NewOpenAIClient(cfg.APIKey,
		llm.WithModel(model),
		llm.WithBaseURL(cfg.BaseURL),
		llm.WithTimeout(cfg.Timeout),
	), nil
}

// app holds the process-scoped values every subcommand shares. The
// expensive parts are built on first use so that commands such as
// "diagram" work without an API key.
type app struct {
	flags        rootFlags
	newGenerator generatorFactory

	cfg     *config.Config
	metrics *metrics.Metrics

	once     sync.Once
	registry *agent.Registry
	regErr   error

	store archive.Store
}

func (a *app) setup(_ *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if a.flags.configPath != "" {
		cfg, err = config.LoadFile(a.flags.configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return err
	}
	if a.flags.logLevel != "" {
		cfg.Log.Level = a.flags.logLevel
	}
	if a.flags.logFormat != "" {
		cfg.Log.Format = a.flags.logFormat
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	// Logs always go to stderr so that stdout carries only command output.
	logging.Init(level, cfg.Log.Format)

	a.cfg = cfg
	a.metrics = metrics.New()
	return nil
}

// agents builds the agent registry: one instrumented generator for the
// configured model plus a separate one for every role that overrides it.
func (a *app) agents() (*agent.Registry, error) {
	a.once.Do(func() {
		base, err := a.generator(a.cfg.Model)
		if err != nil {
			a.regErr = err
			return
		}
		reg := agent.NewRegistry(base)
		reg.SetSystemPrompt(a.cfg.SystemPrompt)

		for _, role := range agent.Roles() {
			s := a.cfg.Agent(role)
			settings := agent.Settings{Temperature: s.Temperature}
			if s.Model != "" && s.Model != a.cfg.Model {
				gen, err := a.generator(s.Model)
				if err != nil {
					a.regErr = err
					return
				}
				settings.Generator = gen
			}
			if err := reg.Configure(role, settings); err != nil {
				a.regErr = err
				return
			}
		}
		a.registry = reg
	})
	return a.registry, a.regErr
}

func (a *app) generator(model string) (llm.Generator, error) {
	gen, err := a.newGenerator(a.cfg, model)
	if err != nil {
		return nil, err
	}
	return a.metrics.Instrument(gen), nil
}

func (a *app) researchWorkflow() (*workflow.ResearchWorkflow, error) {
	reg, err := a.agents()
	if err != nil {
		return nil, err
	}
	return workflow.NewResearchWorkflow(reg, workflow.WithObserver(a.metrics.ObserveProgress)), nil
}

func (a *app) chatWorkflow() (*workflow.ChatWorkflow, error) {
	reg, err := a.agents()
	if err != nil {
		return nil, err
	}
	return workflow.NewChatWorkflow(reg, workflow.WithObserver(a.metrics.ObserveProgress)), nil
}

// archive opens the configured run archive once per process.
func (a *app) archive(ctx context.Context) (archive.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := archive.Open(ctx, a.cfg.Archive.Backend, a.cfg.Archive.Path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	a.store = store
	return store, nil
}

// errMemoryArchive is returned when a command needs runs archived by an
// earlier process but the archive lives in memory.
var errMemoryArchive = errors.New("the memory archive does not outlive a process; set archive.backend: kuzu to keep runs")

// persistentArchive reports whether runs saved by one CLI process can be
// read by the next. The memory backend is per process, which only suits the
// long-running serve and mcp commands.
func (a *app) persistentArchive() bool {
	return a.cfg.Archive.Backend != archive.BackendMemory
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}
