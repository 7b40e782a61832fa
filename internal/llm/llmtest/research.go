package llmtest

// ResearchStub scripts every prompt of the research pipeline for topic-
// independent runs. Lists come back longer than the pipeline keeps so
// truncation is exercised.
func ResearchStub() *Stub {
	const bullets = "- one\n- two\n- three\n- four\n- five\n- six\n- seven\n- eight"
	return NewStub(
		Rule{Match: "specific research questions", Response: "Q1?\nQ2?\nQ3?\nQ4?\nQ5?\nQ6?\nQ7?"},
		Rule{Match: "As a research expert", Response: "Findings text."},
		Rule{Match: "key insights:", Response: bullets},
		Rule{Match: "major trends:", Response: bullets},
		Rule{Match: "actionable recommendations", Response: "- invest\n- train\n- measure"},
		Rule{Match: "executive summary for a report", Response: "Summary text."},
		Rule{Match: "detailed analysis section", Response: "Analysis text."},
		Rule{Match: "recommendations section based", Response: "Recommendation text."},
	)
}
