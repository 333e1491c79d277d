// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"todoctl/internal/service"
	"todoctl/internal/store"
)

// Format selects how list output is rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s", s)
	}
}

// FormatTask formats a task line.
// Format: "{N:>4}  [x] {TITLE}\n" (4-wide right-aligned number, two spaces, checkbox, title)
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, checkbox(task.Completed), normalizeTitle(task.Title))
}

// FormatStats writes the one-line progress summary.
func FormatStats(w io.Writer, st store.Stats) {
	fmt.Fprintf(w, "%d of %d done, %d remaining (%s)\n", st.Completed, st.Total, st.Remaining, Percent(st.Percent))
}

// FormatStatsDetail writes the stats command output.
func FormatStatsDetail(w io.Writer, st store.Stats) {
	fmt.Fprintf(w, "total:     %d\n", st.Total)
	fmt.Fprintf(w, "completed: %d\n", st.Completed)
	fmt.Fprintf(w, "remaining: %d\n", st.Remaining)
	fmt.Fprintf(w, "progress:  %s %s\n", ProgressBar(st.Percent, 20), Percent(st.Percent))
}

// Percent renders a percentage rounded to a whole number.
func Percent(p float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(p)))
}

// ProgressBar renders p (0-100) as a fixed-width bar.
func ProgressBar(p float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(p / 100 * float64(width)))
	filled = max(0, min(width, filled))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// Export writes tasks and their aggregates as JSON or YAML.
func Export(w io.Writer, format Format, tasks []service.Task, st store.Stats) error {
	if tasks == nil {
		tasks = []service.Task{}
	}
	doc := struct {
		Tasks []service.Task `json:"tasks" yaml:"tasks"`
		Stats store.Stats    `json:"stats" yaml:"stats"`
	}{tasks, st}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
