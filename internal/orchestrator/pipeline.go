package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dusk-indust/agentflow/internal/logging"
)

// Pipeline runs a fixed, ordered list of stages against one state value.
// There are no branches, loops or conditional edges: every stage runs
// exactly once, in declaration order.
type Pipeline[S any] struct {
	name   string
	stages []Stage[S]
	log    *slog.Logger
}

// NewPipeline validates the stage list and returns a Pipeline. Stage names
// must be unique, non-empty, and must not collide with StepStart/StepDone.
func NewPipeline[S any](name string, stages ...Stage[S]) (*Pipeline[S], error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("orchestrator: pipeline %q has no stages", name)
	}
	seen := make(map[string]bool, len(stages))
	for i, s := range stages {
		if s == nil {
			return nil, fmt.Errorf("orchestrator: pipeline %q: stage %d is nil", name, i)
		}
		n := s.Name()
		switch {
		case n == "":
			return nil, fmt.Errorf("orchestrator: pipeline %q: stage %d has no name", name, i)
		case n == StepStart || n == StepDone:
			return nil, fmt.Errorf("orchestrator: pipeline %q: stage name %q is reserved", name, n)
		case seen[n]:
			return nil, fmt.Errorf("orchestrator: pipeline %q: duplicate stage %q", name, n)
		}
		seen[n] = true
	}
	return &Pipeline[S]{
		name:   name,
		stages: stages,
		log:    logging.New("orchestrator").With(slog.String("pipeline", name)),
	}, nil
}

// MustPipeline is like NewPipeline but panics on an invalid stage list. It is
// meant for package-level wiring of static pipelines.
func MustPipeline[S any](name string, stages ...Stage[S]) *Pipeline[S] {
	p, err := NewPipeline(name, stages...)
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the pipeline name.
func (p *Pipeline[S]) Name() string {
	return p.name
}

// Steps returns the linear state chain: start, each stage, done.
func (p *Pipeline[S]) Steps() []string {
	steps := make([]string, 0, len(p.stages)+2)
	steps = append(steps, StepStart)
	for _, s := range p.stages {
		steps = append(steps, s.Name())
	}
	return append(steps, StepDone)
}

type runConfig struct {
	observers []Observer
}

// RunOption configures a single Run call.
type RunOption func(*runConfig)

// WithObserver registers a progress observer for one run. Observers are
// called synchronously in registration order; nil observers are ignored.
func WithObserver(o Observer) RunOption {
	return func(c *runConfig) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// Run feeds initial through every stage in order and returns the merged
// result. A stage error is returned exactly as the stage produced it, with
// the zero state: a failed run yields no partial result.
func (p *Pipeline[S]) Run(ctx context.Context, initial S, opts ...RunOption) (S, error) {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	emit := func(ev ProgressEvent) {
		ev.Pipeline = p.name
		ev.Total = len(p.stages)
		for _, o := range cfg.observers {
			o(ev)
		}
	}

	var zero S
	for i, s := range p.stages {
		emit(ProgressEvent{Stage: s.Name(), Index: i, Status: ProgressPending})
	}

	state := initial
	runStart := time.Now()
	for i, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		name := s.Name()
		emit(ProgressEvent{Stage: name, Index: i, Status: ProgressWorking})
		p.log.Debug("stage starting", "stage", name, "index", i)

		start := time.Now()
		update, err := s.Run(ctx, state)
		elapsed := time.Since(start)
		if err != nil {
			emit(ProgressEvent{Stage: name, Index: i, Status: ProgressFailed, Message: err.Error(), Elapsed: elapsed})
			p.log.Warn("stage failed", "stage", name, "elapsed", elapsed, "error", err)
			return zero, err
		}
		if update == nil {
			err := fmt.Errorf("orchestrator: stage %q returned no update", name)
			emit(ProgressEvent{Stage: name, Index: i, Status: ProgressFailed, Message: err.Error(), Elapsed: elapsed})
			return zero, errors.Join(ErrNilUpdate, err)
		}
		update.Apply(&state)

		emit(ProgressEvent{Stage: name, Index: i, Status: ProgressComplete, Elapsed: elapsed})
		p.log.Debug("stage complete", "stage", name, "elapsed", elapsed)
	}

	p.log.Info("pipeline complete", "stages", len(p.stages), "elapsed", time.Since(runStart))
	return state, nil
}

// ErrNilUpdate is returned when a stage succeeds without an update.
var ErrNilUpdate = errors.New("orchestrator: nil update")
