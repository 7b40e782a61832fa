package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dusk-indust/agentflow/internal/workflow"
)

// ErrIncomplete is returned when a report is requested for a run that did
// not reach the write stage.
var ErrIncomplete = errors.New("export: research run is not complete")

// ErrUnsafeName is returned when a topic cannot be turned into a file name
// inside the output directory.
var ErrUnsafeName = errors.New("export: topic does not yield a safe file name")

// ReportFilename returns the download name for a topic's report: spaces
// become underscores and "_report.md" is appended. No other character is
// changed.
func ReportFilename(topic string) string {
	return strings.ReplaceAll(topic, " ", "_") + "_report.md"
}

// localFilename is ReportFilename with path separators mapped to
// underscores, so the result is always a single entry in the output dir.
func localFilename(topic string) (string, error) {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == filepath.Separator {
			return '_'
		}
		return r
	}, ReportFilename(topic))
	if !filepath.IsLocal(name) || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: %q", ErrUnsafeName, topic)
	}
	return name, nil
}

// WriteReport writes the full report of state into dir, creating dir if
// needed, and returns the written path. Separators in the topic never leave
// dir: "TCP/IP" is written as TCP_IP_report.md.
func WriteReport(dir string, state workflow.ResearchState) (string, error) {
	if !state.Complete() {
		return "", ErrIncomplete
	}
	name, err := localFilename(state.Topic)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(state.ReportData.FullReport), 0o644); err != nil {
		return "", fmt.Errorf("export: write report: %w", err)
	}
	return path, nil
}
