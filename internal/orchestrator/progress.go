package orchestrator

import (
	"fmt"
	"sync"
)

// ProgressReporter adapts observer callbacks to a buffered channel. One
// reporter serves one run; Close it once the run returns.
type ProgressReporter struct {
	ch     chan ProgressEvent
	mu     sync.Mutex
	closed bool
}

// NewProgressReporter creates a ProgressReporter with a buffered channel of size 64.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		ch: make(chan ProgressEvent, 64),
	}
}

// Emit sends a progress event in a non-blocking fashion.
// If the channel is full or closed, the event is silently dropped.
func (pr *ProgressReporter) Emit(event ProgressEvent) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if pr.closed {
		return
	}
	select {
	case pr.ch <- event:
	default:
	}
}

// Observer returns Emit as an Observer for use with WithObserver.
func (pr *ProgressReporter) Observer() Observer {
	return pr.Emit
}

// Subscribe returns a read-only channel for consuming progress events.
func (pr *ProgressReporter) Subscribe() <-chan ProgressEvent {
	return pr.ch
}

// Close closes the progress event channel. It is safe to call more than once.
func (pr *ProgressReporter) Close() {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if !pr.closed {
		pr.closed = true
		close(pr.ch)
	}
}

// FormatProgress formats a ProgressEvent as a human-readable status line.
func FormatProgress(event ProgressEvent) string {
	switch event.Status {
	case ProgressPending:
		return fmt.Sprintf("  \u25cb %s (pending)", event.Stage)
	case ProgressWorking:
		return fmt.Sprintf("  \u25cf %s...", event.Stage)
	case ProgressComplete:
		return fmt.Sprintf("  \u2713 %s complete", event.Stage)
	case ProgressFailed:
		return fmt.Sprintf("  \u2717 %s failed: %s", event.Stage, event.Message)
	default:
		return fmt.Sprintf("  ? %s (unknown status)", event.Stage)
	}
}

// FormatStageHeader formats a stage header for display.
// Returns: "[{pipeline}] Stage {N}/{Total}: {stage}"
func FormatStageHeader(event ProgressEvent) string {
	return fmt.Sprintf("[%s] Stage %d/%d: %s", event.Pipeline, event.Index+1, event.Total, event.Stage)
}
