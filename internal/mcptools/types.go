package mcptools

import "github.com/dusk-indust/agentflow/internal/llm"

// ResearchInput is the input for the research MCP tool.
type ResearchInput struct {
	Topic string `json:"topic" jsonschema:"the subject to research, e.g. Renewable Energy"`
}

// ResearchOutput is the result of the research MCP tool.
type ResearchOutput struct {
	Topic           string   `json:"topic"`
	Report          string   `json:"report"`
	WordCount       int      `json:"wordCount"`
	Insights        []string `json:"insights"`
	Trends          []string `json:"trends"`
	Recommendations []string `json:"recommendations"`
	Filename        string   `json:"filename"`
	RunID           string   `json:"runId,omitempty"`
}

// ChatInput is the input for the chat MCP tool. History is carried by the
// caller between calls.
type ChatInput struct {
	Message string        `json:"message" jsonschema:"the user message to answer"`
	History []llm.Message `json:"history,omitempty" jsonschema:"prior user and assistant messages, oldest first"`
}

// ChatOutput is the result of the chat MCP tool.
type ChatOutput struct {
	Response string        `json:"response"`
	History  []llm.Message `json:"history"`
}

// ListRunsInput is the input for the list_runs MCP tool.
type ListRunsInput struct {
	Query string `json:"query,omitempty" jsonschema:"only runs whose topic contains this text"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of runs to return (default: all)"`
}

// ListRunsOutput is the result of the list_runs MCP tool.
type ListRunsOutput struct {
	Runs []RunSummary `json:"runs"`
}

// RunSummary is a brief overview of one archived run.
type RunSummary struct {
	ID        string `json:"id"`
	Topic     string `json:"topic"`
	CreatedAt string `json:"createdAt"`
	WordCount int    `json:"wordCount"`
}
