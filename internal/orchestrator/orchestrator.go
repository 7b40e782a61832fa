package orchestrator

import (
	"context"
	"time"
)

// Step names that bracket every pipeline's stage chain.
const (
	StepStart = "start"
	StepDone  = "done"
)

// Update is a partial state change produced by one stage. Apply assigns the
// fields the stage owns and leaves every other field untouched.
type Update[S any] interface {
	Apply(state *S)
}

// UpdateFunc adapts a function to the Update interface.
type UpdateFunc[S any] func(state *S)

// Apply calls f(state).
func (f UpdateFunc[S]) Apply(state *S) {
	f(state)
}

// Stage is one step of a linear pipeline. Run receives a copy of the
// accumulated state and returns the update to merge into it.
type Stage[S any] interface {
	Name() string
	Run(ctx context.Context, state S) (Update[S], error)
}

// StageFunc builds a Stage from a name and a function.
func StageFunc[S any](name string, run func(ctx context.Context, state S) (Update[S], error)) Stage[S] {
	return funcStage[S]{name: name, run: run}
}

type funcStage[S any] struct {
	name string
	run  func(ctx context.Context, state S) (Update[S], error)
}

func (s funcStage[S]) Name() string { return s.name }

func (s funcStage[S]) Run(ctx context.Context, state S) (Update[S], error) {
	return s.run(ctx, state)
}

// ProgressEvent is emitted to observers during pipeline execution.
type ProgressEvent struct {
	Pipeline string
	Stage    string
	Index    int // zero-based stage position
	Total    int // number of stages in the pipeline
	Status   ProgressStatus
	Message  string
	Elapsed  time.Duration // set on complete and failed
}

// ProgressStatus is the state of a stage within a run.
type ProgressStatus string

const (
	ProgressPending  ProgressStatus = "pending"
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressFailed   ProgressStatus = "failed"
)

// Observer receives progress events synchronously from the running pipeline.
type Observer func(ProgressEvent)
