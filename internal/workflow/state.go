// Package workflow wires the agents into the two fixed pipelines: the
// single-stage chat turn and the three-stage research run.
package workflow

import (
	"github.com/dusk-indust/agentflow/internal/agent"
	"github.com/dusk-indust/agentflow/internal/llm"
	"github.com/dusk-indust/agentflow/internal/orchestrator"
)

// ExampleTopics are the sample research topics every shell offers.
var ExampleTopics = []string{
	"Blockchain in Supply Chain",
	"Remote Work Trends 2024",
	"Renewable Energy Market",
	"Cybersecurity Threats",
	"AI Ethics and Governance",
}

// Stage names.
const (
	StageProcess  = "process"
	StageResearch = "research"
	StageAnalyze  = "analyze"
	StageWrite    = "write"
)

// Pipeline names.
const (
	PipelineChat     = "chat"
	PipelineResearch = "research"
)

// Progress reached when each research stage completes.
const (
	ProgressResearched = 33
	ProgressAnalyzed   = 66
	ProgressWritten    = 100
)

// ResearchState is the record threaded through the research pipeline. Every
// field is present from construction; each stage owns exactly one record.
type ResearchState struct {
	Topic        string               `json:"topic"`
	ResearchData agent.ResearchResult `json:"research_data"`
	AnalysisData agent.AnalysisResult `json:"analysis_data"`
	ReportData   agent.ReportResult   `json:"report_data"`
	CurrentStep  string               `json:"current_step"`
	Progress     int                  `json:"progress"`
}

// NewResearchState returns the initial state for topic.
func NewResearchState(topic string) ResearchState {
	return ResearchState{
		Topic:        topic,
		ResearchData: agent.EmptyResearchResult(),
		AnalysisData: agent.EmptyAnalysisResult(),
		ReportData:   agent.ReportResult{},
		CurrentStep:  orchestrator.StepStart,
	}
}

// Complete reports whether the write stage has run.
func (s ResearchState) Complete() bool {
	return s.Progress == ProgressWritten
}

// ChatState is the record threaded through one chat turn.
type ChatState struct {
	Messages  []llm.Message `json:"messages"`
	UserInput string        `json:"user_input"`
	Response  string        `json:"response"`
}

// NewChatState returns an empty conversation.
func NewChatState() ChatState {
	return ChatState{Messages: []llm.Message{}}
}

// researchUpdate, analysisUpdate and reportUpdate can each reach only
// their own record, so a stage cannot overwrite another stage's output.

type researchUpdate struct{ data agent.ResearchResult }

func (u researchUpdate) Apply(s *ResearchState) {
	s.ResearchData = u.data
	s.CurrentStep = StageResearch
	s.Progress = ProgressResearched
}

type analysisUpdate struct{ data agent.AnalysisResult }

func (u analysisUpdate) Apply(s *ResearchState) {
	s.AnalysisData = u.data
	s.CurrentStep = StageAnalyze
	s.Progress = ProgressAnalyzed
}

type reportUpdate struct{ data agent.ReportResult }

func (u reportUpdate) Apply(s *ResearchState) {
	s.ReportData = u.data
	s.CurrentStep = StageWrite
	s.Progress = ProgressWritten
}

// turnUpdate appends exactly one user and one assistant message.
type turnUpdate struct {
	input    string
	response string
}

func (u turnUpdate) Apply(s *ChatState) {
	s.Messages = append(s.Messages, llm.UserMessage(u.input), llm.AssistantMessage(u.response))
	s.Response = u.response
}
