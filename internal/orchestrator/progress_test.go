package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressReporter_EmitAndSubscribe(t *testing.T) {
	pr := NewProgressReporter()
	defer pr.Close()

	ch := pr.Subscribe()
	want := ProgressEvent{
		Pipeline: "research",
		Stage:    "analyze",
		Status:   ProgressWorking,
		Message:  "generating",
	}

	pr.Emit(want)

	select {
	case got := <-ch:
		assert.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for progress event")
	}
}

func TestProgressReporter_EmitWhenFull_DoesNotBlock(t *testing.T) {
	pr := NewProgressReporter()
	defer pr.Close()

	// The internal channel buffer is 64. Emitting 100 events must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			pr.Emit(ProgressEvent{Stage: "research", Status: ProgressWorking})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked when the channel was full")
	}
}

func TestProgressReporter_Close_ChannelClosed(t *testing.T) {
	pr := NewProgressReporter()
	ch := pr.Subscribe()

	pr.Emit(ProgressEvent{Stage: "write", Status: ProgressComplete})
	pr.Close()
	pr.Close()
	pr.Emit(ProgressEvent{Stage: "write", Status: ProgressComplete})

	var received []ProgressEvent
	for ev := range ch {
		received = append(received, ev)
	}
	require.Len(t, received, 1)
	assert.Equal(t, ProgressComplete, received[0].Status)
}

func TestProgressReporter_AsPipelineObserver(t *testing.T) {
	pr := NewProgressReporter()
	p := MustPipeline("test", threeStages()...)

	_, err := p.Run(context.Background(), testState{}, WithObserver(pr.Observer()))
	require.NoError(t, err)
	pr.Close()

	var complete []string
	for ev := range pr.Subscribe() {
		if ev.Status == ProgressComplete {
			complete = append(complete, ev.Stage)
		}
	}
	assert.Equal(t, []string{"first", "second", "third"}, complete)
}

func TestFormatProgress_AllStatuses(t *testing.T) {
	tests := []struct {
		name   string
		event  ProgressEvent
		expect string
	}{
		{
			name:   "pending",
			event:  ProgressEvent{Stage: "research", Status: ProgressPending},
			expect: "  ○ research (pending)",
		},
		{
			name:   "working",
			event:  ProgressEvent{Stage: "research", Status: ProgressWorking},
			expect: "  ● research...",
		},
		{
			name:   "complete",
			event:  ProgressEvent{Stage: "research", Status: ProgressComplete},
			expect: "  ✓ research complete",
		},
		{
			name:   "failed",
			event:  ProgressEvent{Stage: "research", Status: ProgressFailed, Message: "timeout"},
			expect: "  ✗ research failed: timeout",
		},
		{
			name:   "unknown",
			event:  ProgressEvent{Stage: "research", Status: "odd"},
			expect: "  ? research (unknown status)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, FormatProgress(tt.event))
		})
	}
}

func TestFormatStageHeader(t *testing.T) {
	got := FormatStageHeader(ProgressEvent{Pipeline: "research", Stage: "analyze", Index: 1, Total: 3})
	assert.Equal(t, "[research] Stage 2/3: analyze", got)
}
