package agent

import (
	"context"

	"github.com/dusk-indust/agentflow/internal/llm"
)

// ConversationAgent answers a user message given the prior turn history.
type ConversationAgent struct {
	base
	system string
}

// ConversationOption configures a ConversationAgent beyond the shared options.
type ConversationOption func(*ConversationAgent)

// WithSystemPrompt prepends a system message to every request. The system
// message is never recorded in the conversation history.
func WithSystemPrompt(prompt string) ConversationOption {
	return func(a *ConversationAgent) { a.system = prompt }
}

// NewConversationAgent creates a ConversationAgent that calls gen.
func NewConversationAgent(gen llm.Generator, opts []Option, copts ...ConversationOption) *ConversationAgent {
	a := &ConversationAgent{base: newBase(gen, RoleConversation, DefaultConversationTemperature, opts)}
	for _, o := range copts {
		o(a)
	}
	return a
}

// Respond sends history followed by input as a user message and returns the
// model's reply. history is not modified.
func (a *ConversationAgent) Respond(ctx context.Context, history []llm.Message, input string) (string, error) {
	msgs := make([]llm.Message, 0, len(history)+2)
	if a.system != "" {
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: a.system})
	}
	msgs = append(msgs, history...)
	msgs = append(msgs, llm.UserMessage(input))

	a.log.Debug("calling model", "task", "respond", "history", len(history))
	return a.gen.Generate(ctx, llm.GenerateRequest{
		Messages:    msgs,
		Temperature: a.temperature,
	})
}
