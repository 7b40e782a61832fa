package workflow

import "github.com/dusk-indust/agentflow/internal/orchestrator"

type options struct {
	observers []orchestrator.Observer
}

// Option configures a workflow at construction.
type Option func(*options)

// WithObserver attaches o to every run of the workflow, in addition to any
// observers passed to a single run.
func WithObserver(o orchestrator.Observer) Option {
	return func(opts *options) {
		if o != nil {
			opts.observers = append(opts.observers, o)
		}
	}
}

func (o options) runOptions(extra []orchestrator.RunOption) []orchestrator.RunOption {
	out := make([]orchestrator.RunOption, 0, len(o.observers)+len(extra))
	for _, obs := range o.observers {
		out = append(out, orchestrator.WithObserver(obs))
	}
	return append(out, extra...)
}
