package agent

import (
	"github.com/dusk-indust/agentflow/internal/llm/llmtest"
)

// Prompt markers unique to each sub-task.
const (
	markQuestions       = "specific research questions"
	markFindings        = "As a research expert"
	markInsights        = "key insights:"
	markTrends          = "major trends:"
	markRecommendations = "actionable recommendations"
	markSummary         = "executive summary for a report"
	markDetailed        = "detailed analysis section"
	markRecSection      = "recommendations section based"
)

const eightBullets = "- one\n- two\n- three\n- four\n- five\n- six\n- seven\n- eight"

// pipelineStub answers every sub-task of the research pipeline.
func pipelineStub() *llmtest.Stub {
	return llmtest.NewStub(
		llmtest.Rule{Match: markQuestions, Response: "Q1?\nQ2?\n\nQ3?\nQ4?\nQ5?\nQ6?"},
		llmtest.Rule{Match: markFindings, Response: "Solar capacity doubled."},
		llmtest.Rule{Match: markInsights, Response: "Insights:\n" + eightBullets},
		llmtest.Rule{Match: markTrends, Response: eightBullets},
		llmtest.Rule{Match: markRecommendations, Response: "- invest\n- train\n- measure"},
		llmtest.Rule{Match: markSummary, Response: "Summary text."},
		llmtest.Rule{Match: markDetailed, Response: "Analysis text."},
		llmtest.Rule{Match: markRecSection, Response: "Recommendation text."},
	)
}
