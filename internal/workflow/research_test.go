package workflow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/agentflow/internal/agent"
	"github.com/dusk-indust/agentflow/internal/llm/llmtest"
	"github.com/dusk-indust/agentflow/internal/orchestrator"
)

func TestNewResearchState(t *testing.T) {
	s := NewResearchState("Quantum Computing")
	assert.Equal(t, "Quantum Computing", s.Topic)
	assert.Equal(t, "start", s.CurrentStep)
	assert.Equal(t, 0, s.Progress)
	assert.NotNil(t, s.ResearchData.Questions)
	assert.NotNil(t, s.AnalysisData.KeyInsights)
	assert.NotNil(t, s.AnalysisData.Trends)
	assert.NotNil(t, s.AnalysisData.Recommendations)
	assert.Empty(t, s.ReportData.FullReport)
	assert.False(t, s.Complete())
}

func TestResearchWorkflow_RenewableEnergy(t *testing.T) {
	stub := llmtest.ResearchStub()
	wf := NewResearchWorkflow(agent.NewRegistry(stub))

	got, err := wf.Run(context.Background(), "Renewable Energy")
	require.NoError(t, err)

	assert.Equal(t, "Renewable Energy", got.Topic)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, StageWrite, got.CurrentStep)
	assert.True(t, got.Complete())
	assert.True(t, strings.HasPrefix(got.ReportData.FullReport, "# Research Report: Renewable Energy"))
	assert.Len(t, got.ResearchData.Questions, 5)
	assert.Len(t, got.AnalysisData.KeyInsights, 5)
	assert.Len(t, got.AnalysisData.Trends, 3)
	assert.Equal(t, agent.NameResearch, got.ResearchData.Agent)
	assert.Equal(t, agent.NameAnalyzer, got.AnalysisData.Agent)
	assert.Equal(t, agent.NameWriter, got.ReportData.Agent)
	assert.Equal(t, "Renewable Energy", got.ReportData.Topic)

	// 2 research + 3 analysis + 3 writing calls.
	assert.Equal(t, 8, stub.CallCount())
}

func TestResearchWorkflow_EmptyQuestionsStillCompletes(t *testing.T) {
	stub := llmtest.ResearchStub()
	stub.Rules[0].Response = ""
	wf := NewResearchWorkflow(agent.NewRegistry(stub))

	got, err := wf.Run(context.Background(), "Edge Computing")
	require.NoError(t, err)
	assert.Empty(t, got.ResearchData.Questions)
	assert.Equal(t, "Findings text.", got.ResearchData.Findings)
	assert.Equal(t, 100, got.Progress)
}

func TestResearchWorkflow_ProgressMonotone(t *testing.T) {
	wf := NewResearchWorkflow(agent.NewRegistry(llmtest.ResearchStub()))

	var completed []string
	_, err := wf.Run(context.Background(), "Space Exploration", orchestrator.WithObserver(func(ev orchestrator.ProgressEvent) {
		if ev.Status == orchestrator.ProgressComplete {
			completed = append(completed, ev.Stage)
		}
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{StageResearch, StageAnalyze, StageWrite}, completed)

	// Applying updates in order never lowers progress.
	s := NewResearchState("x")
	last := s.Progress
	for _, u := range []orchestrator.Update[ResearchState]{researchUpdate{}, analysisUpdate{}, reportUpdate{}} {
		u.Apply(&s)
		assert.GreaterOrEqual(t, s.Progress, last)
		last = s.Progress
	}
	assert.Equal(t, 100, last)
}

func TestResearchWorkflow_StagesOwnTheirFields(t *testing.T) {
	s := NewResearchState("Topic")
	before := s
	analysisUpdate{data: agent.AnalysisResult{Topic: "Topic", Agent: agent.NameAnalyzer}}.Apply(&s)

	if diff := cmp.Diff(before.ResearchData, s.ResearchData); diff != "" {
		t.Errorf("analysis update touched research data (-before +after):\n%s", diff)
	}
	assert.Equal(t, before.ReportData, s.ReportData)
	assert.Equal(t, "Topic", s.Topic)
	assert.Equal(t, StageAnalyze, s.CurrentStep)
	assert.Equal(t, 66, s.Progress)
}

func TestResearchWorkflow_EmptyTopic(t *testing.T) {
	stub := llmtest.ResearchStub()
	wf := NewResearchWorkflow(agent.NewRegistry(stub))

	for _, topic := range []string{"", "   ", "\n\t"} {
		_, err := wf.Run(context.Background(), topic)
		assert.ErrorIs(t, err, ErrEmptyTopic)
	}
	assert.Equal(t, 0, stub.CallCount())
}

func TestResearchWorkflow_FailureStopsPipeline(t *testing.T) {
	boom := errors.New("invalid api key")
	stub := llmtest.ResearchStub()
	stub.Rules = append([]llmtest.Rule{{Match: "key insights:", Err: boom}}, stub.Rules...)

	var events []orchestrator.ProgressEvent
	var mu sync.Mutex
	wf := NewResearchWorkflow(agent.NewRegistry(stub), WithObserver(func(ev orchestrator.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	}))

	got, err := wf.Run(context.Background(), "Renewable Energy")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, ResearchState{}, got)

	last := events[len(events)-1]
	assert.Equal(t, StageAnalyze, last.Stage)
	assert.Equal(t, orchestrator.ProgressFailed, last.Status)
	for _, c := range stub.Calls() {
		assert.NotContains(t, c.Messages[0].Content, "executive summary", "write stage must not run")
	}
}

func TestResearchWorkflow_Steps(t *testing.T) {
	wf := NewResearchWorkflow(agent.NewRegistry(llmtest.NewStub()))
	assert.Equal(t, []string{"start", "research", "analyze", "write", "done"}, wf.Steps())
}
