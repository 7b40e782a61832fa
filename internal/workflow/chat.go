package workflow

import (
	"context"

	"github.com/dusk-indust/agentflow/internal/agent"
	"github.com/dusk-indust/agentflow/internal/llm"
	"github.com/dusk-indust/agentflow/internal/orchestrator"
)

// ChatWorkflow answers one user message per run through a single process
// stage.
type ChatWorkflow struct {
	pipeline *orchestrator.Pipeline[ChatState]
	opts     options
}

// NewChatWorkflow builds the chat pipeline from the registry's conversation
// agent.
func NewChatWorkflow(agents *agent.Registry, opts ...Option) *ChatWorkflow {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	conv := agents.Conversation()
	return &ChatWorkflow{
		opts: o,
		pipeline: orchestrator.MustPipeline(PipelineChat,
			orchestrator.StageFunc(StageProcess, func(ctx context.Context, s ChatState) (orchestrator.Update[ChatState], error) {
				reply, err := conv.Respond(ctx, s.Messages, s.UserInput)
				if err != nil {
					return nil, err
				}
				return turnUpdate{input: s.UserInput, response: reply}, nil
			}),
		),
	}
}

// Turn sends input with the conversation so far and returns the next state.
// The caller's state is never modified: on success the returned state holds
// two more messages, on failure the caller keeps its own unchanged copy.
func (w *ChatWorkflow) Turn(ctx context.Context, state ChatState, input string, opts ...orchestrator.RunOption) (ChatState, error) {
	next := ChatState{
		Messages:  make([]llm.Message, len(state.Messages)),
		UserInput: input,
	}
	copy(next.Messages, state.Messages)
	return w.pipeline.Run(ctx, next, w.opts.runOptions(opts)...)
}

// Steps returns the stage chain including the start and done markers.
func (w *ChatWorkflow) Steps() []string {
	return w.pipeline.Steps()
}
