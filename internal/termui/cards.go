package termui

import (
	"fmt"
	"strings"
	"time"

	"ledger/internal/directive"
	"ledger/internal/ledger"
	"ledger/internal/ui"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("#C9A227")
	dim    = lipgloss.Color("#8A8A8A")
	border = lipgloss.Color("#3A3A3A")
	failed = lipgloss.Color("#7F1D1D")

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginTop(1)
	labelStyle   = lipgloss.NewStyle().Foreground(dim)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")).Border(lipgloss.NormalBorder()).Padding(0, 1)

	statusColors = map[directive.Status]lipgloss.Color{
		directive.StatusPending:   lipgloss.Color("#FACC15"),
		directive.StatusCompleted: lipgloss.Color("#4ADE80"),
		directive.StatusFailed:    lipgloss.Color("#F87171"),
	}
)

// Card renders one directive as a bordered block of the given width.
func Card(c ui.CardView, width int) string {
	borderColor := border
	if c.Failed {
		borderColor = failed
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(width)

	due := c.Due
	if c.Overdue {
		due += " (overdue)"
	}
	report := c.Report
	if report == "" {
		report = "No report submitted."
	}
	appraisal := c.Appraisal
	if appraisal == "" {
		appraisal = "Awaiting appraisal."
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render(c.Title),
		field("ID", c.ID) + "   " + field("Type", c.Type),
		field("Assigned", c.Assigned) + "   " + field("Due Date", due),
		labelStyle.Render("Status: ") + lipgloss.NewStyle().Foreground(statusColors[c.Status]).Render(string(c.Status)),
		labelStyle.Render("User Report:"),
		report,
		labelStyle.Render("Mistress Appraisal:"),
		appraisal,
	}
	return box.Render(strings.Join(lines, "\n"))
}

func field(label, value string) string {
	return labelStyle.Render(label+": ") + value
}

// Ledger renders the full snapshot: the load error alone, or the pending
// section followed by the archives.
func Ledger(l *ledger.Ledger, now time.Time, width int) string {
	if msg := l.Message(); msg != "" {
		return errorStyle.Render(msg)
	}

	var b strings.Builder
	section := func(title, empty string, cards []ui.CardView) {
		b.WriteString(headingStyle.Render(fmt.Sprintf("%s (%d)", title, len(cards))))
		b.WriteString("\n")
		if len(cards) == 0 {
			b.WriteString(labelStyle.Render(empty))
			b.WriteString("\n")
			return
		}
		for _, c := range cards {
			b.WriteString(Card(c, width))
			b.WriteString("\n")
		}
	}
	section("Pending Directives", "No pending directives. Awaiting new instructions.", ui.Cards(l.Pending(), now))
	section("The Archives", "The archives are empty.", ui.Cards(l.Archived(), now))
	return b.String()
}
