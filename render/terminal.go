package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jatinchawla007/LangGraph-Research-Assistant/research"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5A56E0")).
			Padding(0, 1)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			MarginTop(1)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	failureStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5F87")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF5F87")).
			Padding(0, 1)
)

// Terminal renders b for a terminal, wrapping paragraphs at width columns.
// A width of zero or less disables wrapping.
func Terminal(b research.FinalBrief, width int) string {
	body := lipgloss.NewStyle()
	if width > 0 {
		body = body.Width(width)
	}

	var sections []string
	sections = append(sections,
		titleStyle.Render("Research Brief: "+b.Topic),
		headingStyle.Render("Introduction"),
		body.Render(strings.TrimSpace(b.Introduction)),
		headingStyle.Render("Synthesis"),
		body.Render(strings.TrimSpace(b.Synthesis)),
	)

	if len(b.PotentialFollowUps) > 0 {
		sections = append(sections, headingStyle.Render("Potential Follow-up Questions"))
		for i, q := range b.PotentialFollowUps {
			sections = append(sections, body.Render(fmt.Sprintf("%d. %s", i+1, q)))
		}
	}

	if len(b.References) > 0 {
		sections = append(sections, headingStyle.Render("References"))
		for i, ref := range b.References {
			sections = append(sections,
				fmt.Sprintf("%d. %s %s", i+1, referenceTitle(ref), mutedStyle.Render("("+ref.URL+")")))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

// Failure renders an unsuccessful outcome.
func Failure(msg string) string {
	return failureStyle.Render(msg) + "\n"
}
