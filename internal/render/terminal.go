package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/HendryAvila/surveyor/internal/projection"
	"github.com/HendryAvila/surveyor/internal/questionnaire"
)

var (
	colorAccent = lipgloss.Color("#20B9B4")
	colorMuted  = lipgloss.Color("#6C7A89")
	colorWarn   = lipgloss.Color("#F4D03F")
	colorOK     = lipgloss.Color("#2CD7C7")
)

// Styles used by Terminal.
var Styles = struct {
	Title    lipgloss.Style
	Group    lipgloss.Style
	Question lipgloss.Style
	Label    lipgloss.Style
	Answer   lipgloss.Style
	Missing  lipgloss.Style
	Hint     lipgloss.Style
	Box      lipgloss.Style
}{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Group:    lipgloss.NewStyle().Bold(true).Underline(true),
	Question: lipgloss.NewStyle(),
	Label:    lipgloss.NewStyle().Italic(true).Foreground(colorMuted),
	Answer:   lipgloss.NewStyle().Foreground(colorOK),
	Missing:  lipgloss.NewStyle().Foreground(colorWarn),
	Hint:     lipgloss.NewStyle().Foreground(colorMuted),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1),
}

// Terminal renders the questionnaire title and its projection for a TTY.
func Terminal(q *questionnaire.Questionnaire, items []projection.ViewItem) string {
	var b strings.Builder
	title := q.Title
	if title == "" {
		title = q.Reference()
	}
	b.WriteString(Styles.Title.Render(title))
	b.WriteString("\n\n")

	for _, v := range items {
		indent := strings.Repeat("  ", v.Depth)
		def := v.Definition
		w, err := WidgetFor(def.Type)
		if err != nil {
			b.WriteString(indent + Styles.Missing.Render(err.Error()) + "\n")
			continue
		}
		switch w {
		case WidgetGroup:
			b.WriteString(indent + Styles.Group.Render(def.Text) + "\n")
			continue
		case WidgetLabel:
			b.WriteString(indent + Styles.Label.Render(def.Text) + "\n")
			continue
		}

		line := indent + Styles.Question.Render(def.Text)
		if def.Required {
			line += Styles.Missing.Render(" *")
		}
		if v.Answer != nil {
			line += "  " + Styles.Answer.Render(v.Answer.String())
		} else {
			line += "  " + Styles.Hint.Render(fmt.Sprintf("[%s]", w))
		}
		b.WriteString(line + "\n")
	}
	return Styles.Box.Render(strings.TrimRight(b.String(), "\n"))
}
