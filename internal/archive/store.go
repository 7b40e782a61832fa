// Package archive keeps completed research runs so shells can list and
// re-open them. It sits beside the pipelines; nothing in the pipeline core
// reads or writes it.
package archive

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/dusk-indust/agentflow/internal/workflow"
)

// Sentinel errors returned by every Store.
var (
	ErrNotFound   = errors.New("archive: run not found")
	ErrIncomplete = errors.New("archive: only completed runs can be archived")
	ErrInvalidRun = errors.New("archive: run has no id or topic")
)

// Store is the interface for the run archive backend.
// Implementations: KuzuStore (embedded graph database), MemStore (in-process).
type Store interface {
	io.Closer

	// InitSchema is called once before any run is saved. It is idempotent.
	InitSchema(ctx context.Context) error

	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns returns runs newest first. A limit <= 0 returns all runs.
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// FindByTopic returns runs whose topic contains query, ignoring case.
	FindByTopic(ctx context.Context, query string) ([]Run, error)

	Stats(ctx context.Context) (*Stats, error)
}

// Run is one archived research run: the topic, the final report and the
// analysis lists it was built from.
type Run struct {
	ID              string    `json:"id"`
	Topic           string    `json:"topic"`
	CreatedAt       time.Time `json:"createdAt"`
	Report          string    `json:"report"`
	WordCount       int       `json:"wordCount"`
	Insights        []string  `json:"insights"`
	Trends          []string  `json:"trends"`
	Recommendations []string  `json:"recommendations"`
}

// Stats summarizes the archive.
type Stats struct {
	RunCount     int `json:"runCount"`
	InsightCount int `json:"insightCount"`
	TrendCount   int `json:"trendCount"`
}

// NewRun builds an archive entry from a finished research state. The
// timestamp is kept at millisecond precision, the resolution every backend
// stores.
func NewRun(state workflow.ResearchState, now time.Time) (Run, error) {
	if !state.Complete() {
		return Run{}, ErrIncomplete
	}
	return Run{
		ID:              uuid.NewString(),
		Topic:           state.Topic,
		CreatedAt:       now.UTC().Truncate(time.Millisecond),
		Report:          state.ReportData.FullReport,
		WordCount:       state.ReportData.WordCount,
		Insights:        cloneStrings(state.AnalysisData.KeyInsights),
		Trends:          cloneStrings(state.AnalysisData.Trends),
		Recommendations: cloneStrings(state.AnalysisData.Recommendations),
	}, nil
}

func validate(run Run) error {
	if run.ID == "" || run.Topic == "" {
		return ErrInvalidRun
	}
	return nil
}

func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
