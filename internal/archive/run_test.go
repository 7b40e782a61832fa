package archive

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/agentflow/internal/agent"
	"github.com/dusk-indust/agentflow/internal/workflow"
)

func TestNewRun(t *testing.T) {
	state := workflow.NewResearchState("Renewable Energy")
	state.AnalysisData = agent.AnalysisResult{
		KeyInsights:     []string{"- a"},
		Trends:          []string{"- b"},
		Recommendations: []string{"- c"},
	}
	state.ReportData = agent.ReportResult{FullReport: "report body", WordCount: 2}
	state.Progress = workflow.ProgressWritten

	now := time.Date(2026, 5, 6, 7, 8, 9, 123456789, time.FixedZone("x", 3600))
	run, err := NewRun(state, now)
	require.NoError(t, err)

	_, err = uuid.Parse(run.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Renewable Energy", run.Topic)
	assert.Equal(t, time.Date(2026, 5, 6, 6, 8, 9, 123000000, time.UTC), run.CreatedAt)
	assert.Equal(t, "report body", run.Report)
	assert.Equal(t, 2, run.WordCount)
	assert.Equal(t, []string{"- a"}, run.Insights)

	state.AnalysisData.KeyInsights[0] = "changed"
	assert.Equal(t, "- a", run.Insights[0])
}

func TestNewRun_Incomplete(t *testing.T) {
	_, err := NewRun(workflow.NewResearchState("x"), time.Now())
	assert.ErrorIs(t, err, ErrIncomplete)
}
