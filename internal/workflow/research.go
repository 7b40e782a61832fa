package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/dusk-indust/agentflow/internal/agent"
	"github.com/dusk-indust/agentflow/internal/orchestrator"
)

// ErrEmptyTopic is returned when a research run is requested without a topic.
var ErrEmptyTopic = errors.New("workflow: topic is empty")

// ResearchWorkflow runs research, analyze and write in order. It is built
// once per process and is safe for concurrent runs.
type ResearchWorkflow struct {
	pipeline *orchestrator.Pipeline[ResearchState]
	opts     options
}

// NewResearchWorkflow builds the research pipeline from the registry's
// research, analyzer and writer agents.
func NewResearchWorkflow(agents *agent.Registry, opts ...Option) *ResearchWorkflow {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	researcher := agents.Research()
	analyzer := agents.Analyzer()
	writer := agents.Writer()

	return &ResearchWorkflow{
		opts: o,
		pipeline: orchestrator.MustPipeline(PipelineResearch,
			orchestrator.StageFunc(StageResearch, func(ctx context.Context, s ResearchState) (orchestrator.Update[ResearchState], error) {
				data, err := researcher.Research(ctx, s.Topic)
				if err != nil {
					return nil, err
				}
				return researchUpdate{data}, nil
			}),
			orchestrator.StageFunc(StageAnalyze, func(ctx context.Context, s ResearchState) (orchestrator.Update[ResearchState], error) {
				data, err := analyzer.Analyze(ctx, s.ResearchData)
				if err != nil {
					return nil, err
				}
				return analysisUpdate{data}, nil
			}),
			orchestrator.StageFunc(StageWrite, func(ctx context.Context, s ResearchState) (orchestrator.Update[ResearchState], error) {
				data, err := writer.WriteReport(ctx, s.AnalysisData)
				if err != nil {
					return nil, err
				}
				return reportUpdate{data}, nil
			}),
		),
	}
}

// Run executes the pipeline for topic. Surrounding whitespace is trimmed; a
// blank topic fails with ErrEmptyTopic before any model call.
func (w *ResearchWorkflow) Run(ctx context.Context, topic string, opts ...orchestrator.RunOption) (ResearchState, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return ResearchState{}, ErrEmptyTopic
	}
	return w.pipeline.Run(ctx, NewResearchState(topic), w.opts.runOptions(opts)...)
}

// Steps returns the stage chain including the start and done markers.
func (w *ResearchWorkflow) Steps() []string {
	return w.pipeline.Steps()
}
