package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ledger/internal/directive"
	"ledger/internal/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 1, 8, 30, 5, 0, time.UTC)

func strp(s string) *string { return &s }

func renderDashboard(t *testing.T, v DashboardView) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Dashboard(v).Render(context.Background(), &buf))
	return buf.String()
}

func TestCard_FormatsDatesAndFlags(t *testing.T) {
	c := Card(directive.Directive{
		ID: "task-1", Title: "Write", Type: "Action",
		AssignedDate: "2024-01-02", DueDate: "2024-02-15",
		Status: directive.StatusPending,
	}, now)

	assert.Equal(t, "02-01-2024", c.Assigned)
	assert.Equal(t, "15-02-2024", c.Due)
	assert.True(t, c.Overdue)
	assert.False(t, c.Failed)
	assert.Equal(t, "status-pending", c.StatusClass)

	c = Card(directive.Directive{ID: "x", DueDate: "Daily", Status: directive.StatusFailed}, now)
	assert.Equal(t, "Daily", c.Due)
	assert.True(t, c.Failed)
	assert.False(t, c.Overdue)
}

func TestCard_OffsetDueDateOnTodayIsNotOverdue(t *testing.T) {
	noon := time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC)

	c := Card(directive.Directive{ID: "x", DueDate: "2024-05-05T01:00:00+05:00", Status: directive.StatusPending}, noon)

	assert.Equal(t, "05-05-2024", c.Due)
	assert.False(t, c.Overdue)
}

func TestDashboard_RendersPartitions(t *testing.T) {
	l := ledger.New([]directive.Directive{
		{ID: "p1", Title: "Kneel <now>", Type: "Action", AssignedDate: "2024-01-01", DueDate: "2024-04-01", Status: directive.StatusPending},
		{ID: "a1", Title: "Old task", Type: "Service", AssignedDate: "2024-01-01", DueDate: "2024-01-10", Status: directive.StatusCompleted,
			UserReport: strp("Finished"), MistressAppraisal: strp("Good")},
	}, nil, now)

	html := renderDashboard(t, NewDashboardView(l, now, "The Unalterable Ledger"))

	assert.Contains(t, html, "Pending Directives")
	assert.Contains(t, html, "The Archives")
	assert.Contains(t, html, "Kneel &lt;now&gt;")
	assert.Contains(t, html, "01-04-2024")
	assert.Contains(t, html, "Finished")
	assert.Contains(t, html, "No report submitted.")
	assert.Contains(t, html, "Awaiting appraisal.")
	assert.Contains(t, html, "08:30:05")
	assert.Contains(t, html, "&copy; 2024")
	assert.Less(t, strings.Index(html, "Kneel"), strings.Index(html, "Old task"))
	assert.NotContains(t, html, "<details id=\"directive-generator\" class=\"generator\" open>")
}

func TestDashboard_EmptyStates(t *testing.T) {
	html := renderDashboard(t, NewDashboardView(ledger.New(nil, nil, now), now, "Ledger"))

	assert.Contains(t, html, "No pending directives. Awaiting new instructions.")
	assert.Contains(t, html, "The archives are empty.")
}

func TestDashboard_ErrorReplacesContent(t *testing.T) {
	l := ledger.New(nil, errors.New("HTTP error! status: 404 - Not Found"), now)

	html := renderDashboard(t, NewDashboardView(l, now, "Ledger"))

	assert.Contains(t, html, "Failed to load directives: HTTP error! status: 404 - Not Found")
	assert.NotContains(t, html, "Pending Directives")
	assert.NotContains(t, html, "The Archives")
}

func TestDashboard_GeneratorOutputAndError(t *testing.T) {
	v := NewDashboardView(ledger.New(nil, nil, now), now, "Ledger")
	v.Generator.Open = true
	v.Generator.Error = "ID must be a number."
	v.Generator.Form.Status = "Failed"

	html := renderDashboard(t, v)
	assert.Contains(t, html, " open>")
	assert.Contains(t, html, "ID must be a number.")
	assert.Contains(t, html, `<option value="Failed" selected>`)
	assert.NotContains(t, html, "Generated JSON:")

	v.Generator.Error = ""
	v.Generator.Output = `{"directives":[]}`
	html = renderDashboard(t, v)
	assert.Contains(t, html, "Generated JSON:")
	assert.Contains(t, html, "data-copy-target=\"generated-json\"")
}
