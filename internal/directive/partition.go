package directive

import (
	"slices"
	"time"
)

// Partition splits ds into pending and archived directives. Pending is ordered
// soonest due first, archived most recent first. Directives whose due date is
// a label rather than a date sort after all dated ones in both lists; ties keep
// input order. A directive with no valid status belongs to neither list; the
// loader rejects such documents before they are partitioned. ds is not
// modified.
func Partition(ds []Directive) (pending, archived []Directive) {
	pending = make([]Directive, 0, len(ds))
	archived = make([]Directive, 0, len(ds))
	for _, d := range ds {
		switch {
		case d.Status == StatusPending:
			pending = append(pending, d)
		case d.Status.Archived():
			archived = append(archived, d)
		}
	}

	slices.SortStableFunc(pending, func(a, b Directive) int {
		return compareDue(a, b, false)
	})
	slices.SortStableFunc(archived, func(a, b Directive) int {
		return compareDue(a, b, true)
	})
	return pending, archived
}

func compareDue(a, b Directive, desc bool) int {
	ta, okA := a.Due()
	tb, okB := b.Due()
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}
	c := ta.Compare(tb)
	if desc {
		return -c
	}
	return c
}

// DueBefore reports whether the calendar day written in d's due date comes
// strictly before the calendar day of t. Offsets in the due date are ignored,
// matching how the date is displayed.
func (d Directive) DueBefore(t time.Time) bool {
	due, ok := d.Due()
	if !ok {
		return false
	}
	return calendarDay(due).Before(calendarDay(t))
}

// OverdueOn reports whether d is still pending on a day after its due day.
func (d Directive) OverdueOn(now time.Time) bool {
	return d.Status == StatusPending && d.DueBefore(now)
}

func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
