// Package output renders agent results for the console.
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"neurones/internal/agent"
	"neurones/internal/detect"
	"neurones/internal/util"
)

var (
	successColor = lipgloss.Color("#10B981") // Green
	warningColor = lipgloss.Color("#F59E0B") // Amber
	errorColor   = lipgloss.Color("#F87171") // Red
	mutedColor   = lipgloss.Color("#9CA3AF") // Gray
	primaryColor = lipgloss.Color("#A78BFA") // Purple
	borderColor  = lipgloss.Color("#6B7280") // Gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	agentNameStyle = lipgloss.NewStyle().
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	statusStyles = map[string]lipgloss.Style{
		"SUCCESS":      lipgloss.NewStyle().Foreground(successColor),
		"RATE_LIMITED": lipgloss.NewStyle().Foreground(warningColor),
		"TIMEOUT":      lipgloss.NewStyle().Foreground(errorColor),
		"FAILED":       lipgloss.NewStyle().Foreground(errorColor),
	}
)

// statusStyle maps a result status label to its display style. Retried
// success labels share the plain SUCCESS style.
func statusStyle(label string) lipgloss.Style {
	if strings.HasPrefix(label, "SUCCESS") {
		return statusStyles["SUCCESS"]
	}
	if style, ok := statusStyles[label]; ok {
		return style
	}
	return mutedStyle
}

// ResultPanel renders one agent result as a bordered panel with a status
// header and the (possibly truncated) output body.
func ResultPanel(r agent.Result) string {
	label := r.StatusLabel()
	header := fmt.Sprintf("%s  %s  %s",
		agentNameStyle.Render(r.Agent),
		statusStyle(label).Render(label),
		mutedStyle.Render(r.Duration.Round(10*time.Millisecond).String()))

	body := r.Output
	if !r.Success && body == "" {
		body = r.Stderr
	}
	if body == "" {
		body = mutedStyle.Render("(no output)")
	}
	return panelStyle.Render(header + "\n\n" + body)
}

// ComparisonTable renders side-by-side panels for a comparison run, one
// per agent, joined vertically.
func ComparisonTable(results []agent.Result) string {
	if len(results) == 0 {
		return mutedStyle.Render("No agents produced results.")
	}
	panels := make([]string, len(results))
	for i, r := range results {
		panels[i] = ResultPanel(r)
	}
	return strings.Join(panels, "\n")
}

// OrchestrationSummary renders the delegated-run report: the task, a line
// per worker result, and the synthesized answer.
func OrchestrationSummary(prompt string, results []agent.Result, final string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Task") + "\n")
	b.WriteString(prompt + "\n\n")

	if len(results) > 0 {
		b.WriteString(titleStyle.Render("Agents") + "\n")
		for _, r := range results {
			label := r.StatusLabel()
			summary := util.TruncateANSI(util.FirstLine(r.Output), 100)
			if summary == "" {
				summary = util.FirstLine(r.Stderr)
			}
			fmt.Fprintf(&b, "  %s %s %s\n",
				agentNameStyle.Render(r.Agent),
				statusStyle(label).Render(label),
				mutedStyle.Render(summary))
		}
		b.WriteString("\n")
	}

	b.WriteString(titleStyle.Render("Answer") + "\n")
	b.WriteString(final)
	return b.String()
}

// StatusTable renders the detected-agent overview for the status command.
func StatusTable(detected map[string]detect.Agent, primary string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Detected agents") + "\n")
	for _, name := range detect.Names() {
		ag, ok := detected[name]
		if !ok || !ag.Available {
			fmt.Fprintf(&b, "  %s %s\n",
				agentNameStyle.Render(name),
				mutedStyle.Render("not installed"))
			continue
		}
		marker := ""
		if name == primary {
			marker = " " + titleStyle.Render("(primary)")
		}
		fmt.Fprintf(&b, "  %s %s %s%s\n",
			agentNameStyle.Render(ag.Name),
			statusStyles["SUCCESS"].Render("available"),
			mutedStyle.Render(fmt.Sprintf("v%s at %s", ag.Version, ag.BinaryPath)),
			marker)
	}
	return b.String()
}
