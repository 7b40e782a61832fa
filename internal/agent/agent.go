package agent

import (
	"context"
	"log/slog"

	"github.com/dusk-indust/agentflow/internal/llm"
	"github.com/dusk-indust/agentflow/internal/logging"
)

// Role identifies a specialist agent type.
type Role string

const (
	RoleResearch     Role = "research"
	RoleAnalyzer     Role = "analyzer"
	RoleWriter       Role = "writer"
	RoleConversation Role = "conversation"
)

// Agent names written into each stage record so the producer of every
// record is identifiable.
const (
	NameResearch     = "ResearchAgent"
	NameAnalyzer     = "AnalyzerAgent"
	NameWriter       = "WriterAgent"
	NameConversation = "ConversationAgent"
)

// Default sampling temperatures per role.
const (
	DefaultResearchTemperature     float32 = 0.3
	DefaultAnalyzerTemperature     float32 = 0.2
	DefaultWriterTemperature       float32 = 0.5
	DefaultConversationTemperature float32 = 0.7
)

// Option configures an agent.
type Option func(*base)

// WithTemperature overrides the agent's default sampling temperature.
func WithTemperature(t float32) Option {
	return func(b *base) {
		if t >= 0 {
			b.temperature = t
		}
	}
}

// base holds what every agent shares: the generator and its settings.
type base struct {
	gen         llm.Generator
	temperature float32
	log         *slog.Logger
}

func newBase(gen llm.Generator, role Role, temperature float32, opts []Option) base {
	b := base{
		gen:         gen,
		temperature: temperature,
		log:         logging.New("agent").With(slog.String("role", string(role))),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Temperature returns the sampling temperature the agent sends.
func (b *base) Temperature() float32 {
	return b.temperature
}

// ask sends a single user prompt and returns the raw generated text.
func (b *base) ask(ctx context.Context, task, prompt string) (string, error) {
	b.log.Debug("calling model", "task", task, "prompt_chars", len(prompt))
	out, err := b.gen.Generate(ctx, llm.Prompt(prompt, b.temperature))
	if err != nil {
		b.log.Debug("model call failed", "task", task, "error", err)
		return "", err
	}
	return out, nil
}
