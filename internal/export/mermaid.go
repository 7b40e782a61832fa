package export

import (
	"fmt"
	"strings"

	"github.com/dusk-indust/agentflow/internal/archive"
)

// PipelineMermaid produces a Mermaid graph LR diagram of a linear stage
// chain such as the one returned by a workflow's Steps. The first and last
// steps are drawn as circles.
func PipelineMermaid(steps []string) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	for i, step := range steps {
		id := fmt.Sprintf("S%d", i)
		if i == 0 || i == len(steps)-1 {
			sb.WriteString(fmt.Sprintf("  %s((%s))\n", id, step))
		} else {
			sb.WriteString(fmt.Sprintf("  %s[%s]\n", id, step))
		}
	}
	for i := 1; i < len(steps); i++ {
		sb.WriteString(fmt.Sprintf("  S%d --> S%d\n", i-1, i))
	}
	return sb.String()
}

// RunMermaid produces a Mermaid graph TD diagram of an archived run: the run
// node with one edge per insight and trend, mirroring the archive's
// HAS_INSIGHT and HAS_TREND relations.
func RunMermaid(run archive.Run) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString(fmt.Sprintf("  R[\"%.40s\"]\n", escapeLabel(run.Topic)))

	for i, text := range run.Insights {
		sb.WriteString(fmt.Sprintf("  I%d[\"%.40s\"]\n", i, escapeLabel(trimBullet(text))))
		sb.WriteString(fmt.Sprintf("  R -->|insight| I%d\n", i))
	}
	for i, text := range run.Trends {
		sb.WriteString(fmt.Sprintf("  T%d[\"%.40s\"]\n", i, escapeLabel(trimBullet(text))))
		sb.WriteString(fmt.Sprintf("  R -->|trend| T%d\n", i))
	}
	return sb.String()
}

func trimBullet(s string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(s), "*-"))
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}
