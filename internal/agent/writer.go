package agent

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/agentflow/internal/llm"
)

// ReportResult is the record produced by the write stage.
type ReportResult struct {
	Topic            string `json:"topic"`
	ExecutiveSummary string `json:"executive_summary"`
	DetailedAnalysis string `json:"detailed_analysis"`
	Recommendations  string `json:"recommendations"`
	FullReport       string `json:"full_report"`
	WordCount        int    `json:"word_count"`
	Agent            string `json:"agent"`
}

// ReportAttribution is the trailing line of every compiled report.
const ReportAttribution = "*Report generated by Multi-Agent Research Assistant*"

// WriterAgent turns an analysis into a markdown report.
type WriterAgent struct {
	base
}

// NewWriterAgent creates a WriterAgent that calls gen.
func NewWriterAgent(gen llm.Generator, opts ...Option) *WriterAgent {
	return &WriterAgent{base: newBase(gen, RoleWriter, DefaultWriterTemperature, opts)}
}

// WriteReport drafts the three report sections concurrently and compiles
// them into the final document.
func (a *WriterAgent) WriteReport(ctx context.Context, analysis AnalysisResult) (ReportResult, error) {
	a.log.Info("writing report", "topic", analysis.Topic)

	var summary, detailed, recommendations string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary, err = a.ask(gctx, "executive_summary", summaryPrompt(analysis))
		return err
	})
	g.Go(func() (err error) {
		detailed, err = a.ask(gctx, "detailed_analysis", detailedAnalysisPrompt(analysis))
		return err
	})
	g.Go(func() (err error) {
		recommendations, err = a.ask(gctx, "recommendations", recommendationsSectionPrompt(analysis))
		return err
	})
	if err := g.Wait(); err != nil {
		return ReportResult{}, err
	}

	full := CompileReport(analysis.Topic, summary, detailed, recommendations)
	return ReportResult{
		Topic:            analysis.Topic,
		ExecutiveSummary: summary,
		DetailedAnalysis: detailed,
		Recommendations:  recommendations,
		FullReport:       full,
		WordCount:        WordCount(full),
		Agent:            NameWriter,
	}, nil
}

// CompileReport assembles the report document. The heading text and section
// order are fixed; the output depends only on the arguments.
func CompileReport(topic, summary, analysis, recommendations string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Research Report: %s\n\n", topic)
	fmt.Fprintf(&b, "## Executive Summary\n%s\n\n", summary)
	fmt.Fprintf(&b, "## Detailed Analysis\n%s\n\n", analysis)
	fmt.Fprintf(&b, "## Recommendations\n%s\n\n", recommendations)
	b.WriteString("---\n")
	b.WriteString(ReportAttribution + "\n")
	return b.String()
}

// WordCount returns the number of whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
