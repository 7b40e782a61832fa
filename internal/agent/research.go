package agent

import (
	"context"

	"github.com/dusk-indust/agentflow/internal/llm"
)

// ResearchResult is the record produced by the research stage.
type ResearchResult struct {
	Topic     string   `json:"topic"`
	Questions []string `json:"questions"`
	Findings  string   `json:"findings"`
	Agent     string   `json:"agent"`
}

// EmptyResearchResult returns the record's explicit empty value.
func EmptyResearchResult() ResearchResult {
	return ResearchResult{Questions: []string{}}
}

// ResearchAgent generates research questions for a topic and then answers
// them from the model's own knowledge.
type ResearchAgent struct {
	base
}

// NewResearchAgent creates a ResearchAgent that calls gen.
func NewResearchAgent(gen llm.Generator, opts ...Option) *ResearchAgent {
	return &ResearchAgent{base: newBase(gen, RoleResearch, DefaultResearchTemperature, opts)}
}

// Research runs the two research sub-tasks. Findings are prompted with the
// generated questions, so the calls run one after the other.
func (a *ResearchAgent) Research(ctx context.Context, topic string) (ResearchResult, error) {
	a.log.Info("researching", "topic", topic)

	raw, err := a.ask(ctx, "questions", questionsPrompt(topic))
	if err != nil {
		return ResearchResult{}, err
	}
	questions := Truncate(SplitLines(raw), MaxQuestions)

	findings, err := a.ask(ctx, "findings", findingsPrompt(topic, questions))
	if err != nil {
		return ResearchResult{}, err
	}

	return ResearchResult{
		Topic:     topic,
		Questions: questions,
		Findings:  findings,
		Agent:     NameResearch,
	}, nil
}
