package agent

import "strings"

// Maximum entries kept from each list-producing sub-task.
const (
	MaxQuestions       = 5
	MaxInsights        = 5
	MaxTrends          = 3
	MaxRecommendations = 5
)

// SplitLines splits text into trimmed, non-blank lines in original order.
// Empty input yields an empty, non-nil slice.
func SplitLines(text string) []string {
	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// BulletLines returns the non-blank lines that carry a bullet marker
// ('*' or '-' anywhere in the line). When the model ignored the formatting
// instruction and no line matches, every non-blank line is returned instead.
func BulletLines(text string) []string {
	all := SplitLines(text)
	bullets := make([]string, 0, len(all))
	for _, line := range all {
		if strings.ContainsAny(line, "*-") {
			bullets = append(bullets, line)
		}
	}
	if len(bullets) == 0 {
		return all
	}
	return bullets
}

// Truncate returns at most n leading items of items.
func Truncate(items []string, n int) []string {
	if n < 0 {
		n = 0
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}
