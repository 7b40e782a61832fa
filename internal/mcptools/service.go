package mcptools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/agentflow/internal/archive"
	"github.com/dusk-indust/agentflow/internal/export"
	"github.com/dusk-indust/agentflow/internal/logging"
	"github.com/dusk-indust/agentflow/internal/workflow"
)

// ErrEmptyMessage is returned by the chat tool for a blank message.
var ErrEmptyMessage = errors.New("mcptools: message is empty")

// Service handles MCP tool calls by running the process-scoped workflows.
type Service struct {
	research *workflow.ResearchWorkflow
	chat     *workflow.ChatWorkflow
	store    archive.Store
	log      *slog.Logger
}

// NewService creates a Service. A nil store keeps archived runs in memory
// for the life of the process.
func NewService(research *workflow.ResearchWorkflow, chat *workflow.ChatWorkflow, store archive.Store) *Service {
	if store == nil {
		store = archive.NewMemStore()
	}
	return &Service{
		research: research,
		chat:     chat,
		store:    store,
		log:      logging.New("mcptools"),
	}
}

// Research runs the research pipeline for a topic and returns the report.
func (s *Service) Research(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ResearchInput,
) (*mcp.CallToolResult, ResearchOutput, error) {
	state, err := s.research.Run(ctx, input.Topic)
	if err != nil {
		return nil, ResearchOutput{}, err
	}

	out := ResearchOutput{
		Topic:           state.Topic,
		Report:          state.ReportData.FullReport,
		WordCount:       state.ReportData.WordCount,
		Insights:        state.AnalysisData.KeyInsights,
		Trends:          state.AnalysisData.Trends,
		Recommendations: state.AnalysisData.Recommendations,
		Filename:        export.ReportFilename(state.Topic),
	}
	run, err := archive.NewRun(state, time.Now())
	if err == nil {
		err = s.store.SaveRun(ctx, run)
	}
	if err != nil {
		s.log.Warn("run not archived", "topic", state.Topic, "error", err)
	} else {
		out.RunID = run.ID
	}
	return nil, out, nil
}

// Chat answers one message given the caller's history.
func (s *Service) Chat(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChatInput,
) (*mcp.CallToolResult, ChatOutput, error) {
	if strings.TrimSpace(input.Message) == "" {
		return nil, ChatOutput{}, ErrEmptyMessage
	}
	for i, m := range input.History {
		if !m.Role.Valid() {
			return nil, ChatOutput{}, fmt.Errorf("mcptools: history[%d]: unknown role %q", i, m.Role)
		}
	}

	state := workflow.NewChatState()
	state.Messages = append(state.Messages, input.History...)
	next, err := s.chat.Turn(ctx, state, input.Message)
	if err != nil {
		return nil, ChatOutput{}, err
	}
	return nil, ChatOutput{Response: next.Response, History: next.Messages}, nil
}

// ListRuns returns archived research runs, newest first.
func (s *Service) ListRuns(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListRunsInput,
) (*mcp.CallToolResult, ListRunsOutput, error) {
	var (
		runs []archive.Run
		err  error
	)
	if input.Query != "" {
		runs, err = s.store.FindByTopic(ctx, input.Query)
		if err == nil && input.Limit > 0 && len(runs) > input.Limit {
			runs = runs[:input.Limit]
		}
	} else {
		runs, err = s.store.ListRuns(ctx, input.Limit)
	}
	if err != nil {
		return nil, ListRunsOutput{}, err
	}

	out := ListRunsOutput{Runs: make([]RunSummary, 0, len(runs))}
	for _, r := range runs {
		out.Runs = append(out.Runs, RunSummary{
			ID:        r.ID,
			Topic:     r.Topic,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
			WordCount: r.WordCount,
		})
	}
	return nil, out, nil
}

