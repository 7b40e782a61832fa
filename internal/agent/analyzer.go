package agent

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/agentflow/internal/llm"
)

// AnalysisResult is the record produced by the analyze stage.
type AnalysisResult struct {
	Topic           string   `json:"topic"`
	KeyInsights     []string `json:"key_insights"`
	Trends          []string `json:"trends"`
	Recommendations []string `json:"recommendations"`
	Agent           string   `json:"agent"`
}

// EmptyAnalysisResult returns the record's explicit empty value.
func EmptyAnalysisResult() AnalysisResult {
	return AnalysisResult{
		KeyInsights:     []string{},
		Trends:          []string{},
		Recommendations: []string{},
	}
}

// AnalyzerAgent extracts insights, trends and recommendations from research
// findings.
type AnalyzerAgent struct {
	base
}

// NewAnalyzerAgent creates an AnalyzerAgent that calls gen.
func NewAnalyzerAgent(gen llm.Generator, opts ...Option) *AnalyzerAgent {
	return &AnalyzerAgent{base: newBase(gen, RoleAnalyzer, DefaultAnalyzerTemperature, opts)}
}

// Analyze extracts insights and trends concurrently, then asks for
// recommendations grounded in both. The first failing call cancels the
// other and its error is returned.
func (a *AnalyzerAgent) Analyze(ctx context.Context, research ResearchResult) (AnalysisResult, error) {
	a.log.Info("analyzing", "topic", research.Topic)

	var insights, trends []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := a.ask(gctx, "insights", insightsPrompt(research.Topic, research.Findings))
		if err != nil {
			return err
		}
		insights = Truncate(BulletLines(raw), MaxInsights)
		return nil
	})
	g.Go(func() error {
		raw, err := a.ask(gctx, "trends", trendsPrompt(research.Topic, research.Findings))
		if err != nil {
			return err
		}
		trends = Truncate(BulletLines(raw), MaxTrends)
		return nil
	})
	if err := g.Wait(); err != nil {
		return AnalysisResult{}, err
	}

	raw, err := a.ask(ctx, "recommendations", recommendationsPrompt(research.Topic, insights, trends))
	if err != nil {
		return AnalysisResult{}, err
	}

	return AnalysisResult{
		Topic:           research.Topic,
		KeyInsights:     insights,
		Trends:          trends,
		Recommendations: Truncate(BulletLines(raw), MaxRecommendations),
		Agent:           NameAnalyzer,
	}, nil
}
