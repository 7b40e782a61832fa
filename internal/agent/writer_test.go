package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/agentflow/internal/llm/llmtest"
)

func sampleAnalysis() AnalysisResult {
	return AnalysisResult{
		Topic:           "Renewable Energy",
		KeyInsights:     []string{"- solar"},
		Trends:          []string{"- storage"},
		Recommendations: []string{"- invest"},
		Agent:           NameAnalyzer,
	}
}

func TestCompileReport_Layout(t *testing.T) {
	got := CompileReport("Renewable Energy", "S", "A", "R")
	want := "# Research Report: Renewable Energy\n" +
		"\n" +
		"## Executive Summary\nS\n\n" +
		"## Detailed Analysis\nA\n\n" +
		"## Recommendations\nR\n\n" +
		"---\n" +
		"*Report generated by Multi-Agent Research Assistant*\n"
	assert.Equal(t, want, got)
}

func TestCompileReport_Idempotent(t *testing.T) {
	a := CompileReport("T", "summary", "analysis", "recs")
	b := CompileReport("T", "summary", "analysis", "recs")
	assert.Equal(t, []byte(a), []byte(b))
}

func TestCompileReport_SectionOrder(t *testing.T) {
	r := CompileReport("T", "s", "a", "r")
	idx := func(s string) int { return strings.Index(r, s) }
	assert.Less(t, idx("# Research Report: T"), idx("## Executive Summary"))
	assert.Less(t, idx("## Executive Summary"), idx("## Detailed Analysis"))
	assert.Less(t, idx("## Detailed Analysis"), idx("## Recommendations"))
	assert.Less(t, idx("## Recommendations"), idx(ReportAttribution))
}

func TestWriterAgent_WriteReport(t *testing.T) {
	stub := pipelineStub()
	got, err := NewWriterAgent(stub).WriteReport(context.Background(), sampleAnalysis())
	require.NoError(t, err)

	assert.Equal(t, "Summary text.", got.ExecutiveSummary)
	assert.Equal(t, "Analysis text.", got.DetailedAnalysis)
	assert.Equal(t, "Recommendation text.", got.Recommendations)
	assert.Equal(t, CompileReport("Renewable Energy", "Summary text.", "Analysis text.", "Recommendation text."), got.FullReport)
	assert.Equal(t, WordCount(got.FullReport), got.WordCount)
	assert.Equal(t, NameWriter, got.Agent)
	assert.Equal(t, 3, stub.CallCount())
	for _, c := range stub.Calls() {
		assert.Equal(t, DefaultWriterTemperature, c.Temperature)
	}
}

func TestWriterAgent_Failure(t *testing.T) {
	boom := errors.New("unauthorized")
	stub := llmtest.NewStub(llmtest.Rule{Match: markDetailed, Err: boom})
	stub.Default = "text"

	got, err := NewWriterAgent(stub).WriteReport(context.Background(), sampleAnalysis())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, got.FullReport)
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 3, WordCount(" one\ttwo\nthree "))
}
