package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dusk-indust/agentflow/internal/export"
	"github.com/dusk-indust/agentflow/internal/workflow"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	headStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF4D4D"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// findingsPreview caps the findings text shown in the research panel.
const findingsPreview = 600

// RenderResult draws the research, analysis and report panels for a
// finished run. width <= 0 lets each panel size itself to its content.
func RenderResult(state workflow.ResearchState, width int) string {
	research := section("Research Questions", numbered(state.ResearchData.Questions)) + "\n\n" +
		section("Findings", preview(state.ResearchData.Findings, findingsPreview))

	analysis := section("Key Insights", lines(state.AnalysisData.KeyInsights)) + "\n\n" +
		section("Trends", lines(state.AnalysisData.Trends)) + "\n\n" +
		section("Recommendations", lines(state.AnalysisData.Recommendations))

	report := state.ReportData.FullReport + "\n" +
		mutedStyle.Render(fmt.Sprintf("%d words · %d key insights · %d trends · %s",
			state.ReportData.WordCount, len(state.AnalysisData.KeyInsights), len(state.AnalysisData.Trends),
			export.ReportFilename(state.Topic)))

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Research Report: "+state.Topic),
		panel("Research", research, width),
		panel("Analysis", analysis, width),
		panel("Report", report, width),
	)
}

func panel(title, body string, width int) string {
	style := panelStyle
	if width > 0 {
		style = style.Width(max(20, width-2))
	}
	return style.Render(titleStyle.Render(title) + "\n" + body)
}

func section(title, body string) string {
	if strings.TrimSpace(body) == "" {
		body = mutedStyle.Render("(none)")
	}
	return headStyle.Render(title) + "\n" + body
}

func numbered(items []string) string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = fmt.Sprintf("%d. %s", i+1, it)
	}
	return strings.Join(out, "\n")
}

func lines(items []string) string {
	return strings.Join(items, "\n")
}

func preview(text string, n int) string {
	r := []rune(strings.TrimSpace(text))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "…"
}
