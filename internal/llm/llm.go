package llm

import "context"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the supported roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Message is a single role-tagged entry in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage returns a message authored by the user.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage returns a message authored by the model.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// GenerateRequest is one call to a text-generation service.
type GenerateRequest struct {
	Messages []Message

	// Temperature is passed through to the model. Zero uses the
	// provider default.
	Temperature float32
}

// Generator sends a list of role-tagged messages to a hosted model and
// returns the generated text. Implementations must be safe for concurrent
// use; agents issue independent calls in parallel.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GeneratorFunc adapts an ordinary function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req GenerateRequest) (string, error)

// Generate calls f(ctx, req).
func (f GeneratorFunc) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	return f(ctx, req)
}

// Prompt builds a single-message request with the given user prompt.
func Prompt(prompt string, temperature float32) GenerateRequest {
	return GenerateRequest{
		Messages:    []Message{UserMessage(prompt)},
		Temperature: temperature,
	}
}
