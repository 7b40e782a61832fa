package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/agentflow/internal/llm/llmtest"
)

func TestResearchAgent_Research(t *testing.T) {
	stub := pipelineStub()
	a := NewResearchAgent(stub)

	got, err := a.Research(context.Background(), "Renewable Energy")
	require.NoError(t, err)

	assert.Equal(t, "Renewable Energy", got.Topic)
	assert.Equal(t, []string{"Q1?", "Q2?", "Q3?", "Q4?", "Q5?"}, got.Questions)
	assert.Equal(t, "Solar capacity doubled.", got.Findings)
	assert.Equal(t, NameResearch, got.Agent)

	calls := stub.Calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[0].Messages[0].Content, `"Renewable Energy"`)
	assert.Contains(t, calls[1].Messages[0].Content, "- Q5?")
	assert.NotContains(t, calls[1].Messages[0].Content, "Q6?")
	assert.Equal(t, DefaultResearchTemperature, calls[0].Temperature)
}

func TestResearchAgent_EmptyQuestions(t *testing.T) {
	stub := llmtest.NewStub(
		llmtest.Rule{Match: markQuestions, Response: ""},
		llmtest.Rule{Match: markFindings, Response: "general findings"},
	)
	got, err := NewResearchAgent(stub).Research(context.Background(), "X")
	require.NoError(t, err)
	assert.NotNil(t, got.Questions)
	assert.Empty(t, got.Questions)
	assert.Equal(t, "general findings", got.Findings)
}

func TestResearchAgent_ErrorStopsBeforeFindings(t *testing.T) {
	boom := errors.New("connection reset")
	stub := llmtest.NewStub(llmtest.Rule{Match: markQuestions, Err: boom})

	_, err := NewResearchAgent(stub, WithTemperature(0.9)).Research(context.Background(), "X")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, stub.CallCount())
	assert.Equal(t, float32(0.9), stub.Calls()[0].Temperature)
}
