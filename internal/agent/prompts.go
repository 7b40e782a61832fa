package agent

import (
	"fmt"
	"strings"
)

func questionsPrompt(topic string) string {
	return fmt.Sprintf(`Generate %d specific research questions about %q.
These questions should cover different aspects like:
- Current trends
- Key challenges
- Future outlook
- Important statistics
- Main players/companies

Return only the questions, one per line.`, MaxQuestions, topic)
}

func findingsPrompt(topic string, questions []string) string {
	var b strings.Builder
	for _, q := range questions {
		fmt.Fprintf(&b, "- %s\n", q)
	}
	return fmt.Sprintf(`As a research expert, provide comprehensive information about %q.

Address these specific questions:
%s
Provide detailed, factual information with specific examples and data where possible.
Structure your response clearly with key findings.`, topic, b.String())
}

func insightsPrompt(topic, findings string) string {
	return fmt.Sprintf(`Analyze this research data and extract %d key insights:

Topic: %s
Research Findings: %s

Extract the most important insights, focusing on:
- Key statistics or numbers
- Major opportunities
- Significant challenges
- Important trends
- Critical success factors

Return only the insights, one per line, starting with a bullet point.`, MaxInsights, topic, findings)
}

func trendsPrompt(topic, findings string) string {
	return fmt.Sprintf(`Based on this research about %q, identify %d major trends:

%s

Focus on:
- Emerging patterns
- Market movements
- Technology developments
- Future directions

Return only the trends, one per line with bullet points.`, topic, MaxTrends, findings)
}

func recommendationsPrompt(topic string, insights, trends []string) string {
	return fmt.Sprintf(`Based on this analysis of %q, provide 3 actionable recommendations:

Key Insights: %s
Trends: %s

Provide specific, actionable recommendations for someone interested in this field.
Return only the recommendations, one per line with bullet points.`,
		topic, strings.Join(insights, "\n"), strings.Join(trends, "\n"))
}

func summaryPrompt(a AnalysisResult) string {
	return fmt.Sprintf(`Write a professional executive summary for a report on %q.

Key Insights: %s
Major Trends: %s

Write a concise 2-3 paragraph executive summary that captures the most important points.
Use professional business language.`,
		a.Topic, strings.Join(a.KeyInsights, "\n"), strings.Join(a.Trends, "\n"))
}

func detailedAnalysisPrompt(a AnalysisResult) string {
	return fmt.Sprintf(`Write a detailed analysis section for a report on %q.

Key Insights: %s
Trends: %s

Structure this as:
1. Current State Analysis
2. Key Findings
3. Market Trends & Opportunities

Write 4-5 paragraphs with professional depth and analysis.`,
		a.Topic, strings.Join(a.KeyInsights, "\n"), strings.Join(a.Trends, "\n"))
}

func recommendationsSectionPrompt(a AnalysisResult) string {
	return fmt.Sprintf(`Write a recommendations section based on this analysis of %q:

Recommendations: %s

Expand each recommendation with:
- Why it's important
- How to implement it
- Expected outcomes

Write in a professional, actionable format.`,
		a.Topic, strings.Join(a.Recommendations, "\n"))
}
