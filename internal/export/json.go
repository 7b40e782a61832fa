package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dusk-indust/agentflow/internal/workflow"
)

// ResearchExport is the top-level JSON export structure for a research run.
type ResearchExport struct {
	Topic       string        `json:"topic"`
	ExportedAt  string        `json:"exportedAt"`
	CurrentStep string        `json:"currentStep"`
	Progress    int           `json:"progress"`
	Research    ResearchPart  `json:"research"`
	Analysis    AnalysisPart  `json:"analysis"`
	Report      ReportPart    `json:"report"`
	Stages      []StageExport `json:"stages"`
}

// ResearchPart is the research stage record.
type ResearchPart struct {
	Questions []string `json:"questions"`
	Findings  string   `json:"findings"`
	Agent     string   `json:"agent,omitempty"`
}

// AnalysisPart is the analyze stage record.
type AnalysisPart struct {
	KeyInsights     []string `json:"keyInsights"`
	Trends          []string `json:"trends"`
	Recommendations []string `json:"recommendations"`
	Agent           string   `json:"agent,omitempty"`
}

// ReportPart is the write stage record plus the download filename.
type ReportPart struct {
	ExecutiveSummary string `json:"executiveSummary"`
	DetailedAnalysis string `json:"detailedAnalysis"`
	Recommendations  string `json:"recommendations"`
	FullReport       string `json:"fullReport"`
	WordCount        int    `json:"wordCount"`
	Filename         string `json:"filename"`
	Agent            string `json:"agent,omitempty"`
}

// StageExport describes one pipeline stage.
type StageExport struct {
	Stage  int    `json:"stage"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// NewResearchExport builds the export for state, stamped with at.
func NewResearchExport(state workflow.ResearchState, at time.Time) *ResearchExport {
	exp := &ResearchExport{
		Topic:       state.Topic,
		ExportedAt:  at.UTC().Format(time.RFC3339),
		CurrentStep: state.CurrentStep,
		Progress:    state.Progress,
		Research: ResearchPart{
			Questions: nonNil(state.ResearchData.Questions),
			Findings:  state.ResearchData.Findings,
			Agent:     state.ResearchData.Agent,
		},
		Analysis: AnalysisPart{
			KeyInsights:     nonNil(state.AnalysisData.KeyInsights),
			Trends:          nonNil(state.AnalysisData.Trends),
			Recommendations: nonNil(state.AnalysisData.Recommendations),
			Agent:           state.AnalysisData.Agent,
		},
		Report: ReportPart{
			ExecutiveSummary: state.ReportData.ExecutiveSummary,
			DetailedAnalysis: state.ReportData.DetailedAnalysis,
			Recommendations:  state.ReportData.Recommendations,
			FullReport:       state.ReportData.FullReport,
			WordCount:        state.ReportData.WordCount,
			Filename:         ReportFilename(state.Topic),
			Agent:            state.ReportData.Agent,
		},
	}

	done := map[string]bool{
		workflow.StageResearch: state.Progress >= workflow.ProgressResearched,
		workflow.StageAnalyze:  state.Progress >= workflow.ProgressAnalyzed,
		workflow.StageWrite:    state.Progress >= workflow.ProgressWritten,
	}
	for i, name := range []string{workflow.StageResearch, workflow.StageAnalyze, workflow.StageWrite} {
		s := "pending"
		if done[name] {
			s = "complete"
		}
		exp.Stages = append(exp.Stages, StageExport{Stage: i + 1, Name: name, Status: s})
	}
	return exp
}

// ResearchJSON renders state as an indented JSON document stamped with the
// current time.
func ResearchJSON(state workflow.ResearchState) ([]byte, error) {
	data, err := json.MarshalIndent(NewResearchExport(state, time.Now()), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: marshal research: %w", err)
	}
	return data, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
