package ledger

import (
	"time"

	"ledger/internal/directive"
)

type Stats struct {
	Total    int                      `json:"total"`
	ByStatus map[directive.Status]int `json:"by_status"`
	ByType   map[string]int           `json:"by_type"`
	// Overdue counts pending directives whose dated due day is before today.
	Overdue int `json:"overdue"`
	// Labelled counts directives whose due date is a label such as "Daily".
	Labelled int `json:"labelled"`
}

// Stats summarizes the snapshot as of now.
func (l *Ledger) Stats(now time.Time) Stats {
	s := Stats{
		ByStatus: make(map[directive.Status]int, 3),
		ByType:   make(map[string]int),
	}
	for _, st := range directive.Statuses() {
		s.ByStatus[st] = 0
	}

	count := func(d directive.Directive) {
		s.Total++
		s.ByStatus[d.Status]++
		s.ByType[d.Type]++
		if _, ok := d.Due(); !ok {
			s.Labelled++
		}
		if d.OverdueOn(now) {
			s.Overdue++
		}
	}
	for _, d := range l.pending {
		count(d)
	}
	for _, d := range l.archived {
		count(d)
	}
	return s
}
