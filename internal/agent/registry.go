package agent

import (
	"fmt"
	"sync"

	"github.com/dusk-indust/agentflow/internal/llm"
)

// Settings overrides how one role's agent is built. Zero fields keep the
// registry defaults.
type Settings struct {
	// Generator replaces the registry's shared generator for this role,
	// e.g. to use a different model.
	Generator llm.Generator

	// Temperature overrides the role's default temperature when non-nil.
	Temperature *float32
}

// Registry builds agents for every role from a shared generator plus
// optional per-role settings.
type Registry struct {
	mu       sync.Mutex
	gen      llm.Generator
	settings map[Role]Settings
	system   string
}

// NewRegistry creates a Registry whose agents call gen unless overridden.
func NewRegistry(gen llm.Generator) *Registry {
	return &Registry{
		gen:      gen,
		settings: make(map[Role]Settings),
	}
}

// Roles lists every role the registry can build, in pipeline order.
func Roles() []Role {
	return []Role{RoleResearch, RoleAnalyzer, RoleWriter, RoleConversation}
}

// Configure sets the overrides for role.
func (r *Registry) Configure(role Role, s Settings) error {
	if !knownRole(role) {
		return fmt.Errorf("agent: no agent registered for role %q", role)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[role] = s
	return nil
}

// SetSystemPrompt sets the system prompt used by conversation agents.
func (r *Registry) SetSystemPrompt(prompt string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.system = prompt
}

// Research builds the research agent.
func (r *Registry) Research() *ResearchAgent {
	gen, opts := r.resolve(RoleResearch)
	return NewResearchAgent(gen, opts...)
}

// Analyzer builds the analyzer agent.
func (r *Registry) Analyzer() *AnalyzerAgent {
	gen, opts := r.resolve(RoleAnalyzer)
	return NewAnalyzerAgent(gen, opts...)
}

// Writer builds the writer agent.
func (r *Registry) Writer() *WriterAgent {
	gen, opts := r.resolve(RoleWriter)
	return NewWriterAgent(gen, opts...)
}

// Conversation builds the conversation agent.
func (r *Registry) Conversation() *ConversationAgent {
	gen, opts := r.resolve(RoleConversation)
	r.mu.Lock()
	system := r.system
	r.mu.Unlock()
	var copts []ConversationOption
	if system != "" {
		copts = append(copts, WithSystemPrompt(system))
	}
	return NewConversationAgent(gen, opts, copts...)
}

func (r *Registry) resolve(role Role) (llm.Generator, []Option) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.settings[role]
	gen := r.gen
	if s.Generator != nil {
		gen = s.Generator
	}
	var opts []Option
	if s.Temperature != nil {
		opts = append(opts, WithTemperature(*s.Temperature))
	}
	return gen, opts
}

func knownRole(role Role) bool {
	for _, r := range Roles() {
		if r == role {
			return true
		}
	}
	return false
}
