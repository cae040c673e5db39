package ui

import (
	"context"
	"embed"
	"html/template"
	"io"
	"time"

	"ledger/internal/clock"
	"ledger/internal/directive"
	"ledger/internal/generator"
	"ledger/internal/ledger"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type CardView struct {
	ID          string
	Title       string
	Type        string
	Assigned    string
	Due         string
	Status      directive.Status
	StatusClass string
	Failed      bool
	Overdue     bool
	Report      string
	Appraisal   string
}

type GeneratorView struct {
	Open     bool
	Form     generator.Form
	Error    string
	Output   string
	Statuses []directive.Status
}

type DashboardView struct {
	Title     string
	Clock     string
	Year      int
	Error     string
	Pending   []CardView
	Archived  []CardView
	Generator GeneratorView
}

func statusClass(s directive.Status) string {
	switch s {
	case directive.StatusCompleted:
		return "status-completed"
	case directive.StatusFailed:
		return "status-failed"
	default:
		return "status-pending"
	}
}

// Card builds the display form of d. A pending directive whose dated due day
// is before today's date is flagged overdue.
func Card(d directive.Directive, now time.Time) CardView {
	return CardView{
		ID:          string(d.ID),
		Title:       d.Title,
		Type:        d.Type,
		Assigned:    directive.FormatDate(d.AssignedDate),
		Due:         directive.FormatDate(d.DueDate),
		Status:      d.Status,
		StatusClass: statusClass(d.Status),
		Failed:      d.Status == directive.StatusFailed,
		Overdue:     d.OverdueOn(now),
		Report:      d.Report(),
		Appraisal:   d.Appraisal(),
	}
}

func Cards(ds []directive.Directive, now time.Time) []CardView {
	out := make([]CardView, 0, len(ds))
	for _, d := range ds {
		out = append(out, Card(d, now))
	}
	return out
}

// NewDashboardView renders the ledger snapshot as of now with the generator
// panel collapsed and empty.
func NewDashboardView(l *ledger.Ledger, now time.Time, title string) DashboardView {
	return DashboardView{
		Title:    title,
		Clock:    clock.Format(now),
		Year:     now.Year(),
		Error:    l.Message(),
		Pending:  Cards(l.Pending(), now),
		Archived: Cards(l.Archived(), now),
		Generator: GeneratorView{
			Form:     generator.Form{Status: string(directive.StatusPending)},
			Statuses: directive.Statuses(),
		},
	}
}

func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pageTmpl.ExecuteTemplate(w, name, data)
	})
}

func Dashboard(v DashboardView) templ.Component {
	return render("dashboard.html", v)
}
