package ledger

import (
	"context"
	"slices"
	"time"

	"ledger/internal/directive"
	"ledger/internal/loader"
)

// Ledger is the read-only result of the startup load. It is safe for
// concurrent use because nothing mutates it after New.
type Ledger struct {
	pending  []directive.Directive
	archived []directive.Directive
	total    int
	err      error
	loadedAt time.Time
}

// New partitions ds into the snapshot. A non-nil loadErr wins: both lists are
// empty and Message reports the failure.
func New(ds []directive.Directive, loadErr error, loadedAt time.Time) *Ledger {
	l := &Ledger{err: loadErr, loadedAt: loadedAt}
	if loadErr != nil {
		l.pending = []directive.Directive{}
		l.archived = []directive.Directive{}
		return l
	}
	l.pending, l.archived = directive.Partition(ds)
	l.total = len(l.pending) + len(l.archived)
	return l
}

// Load runs the loader once and wraps the outcome.
func Load(ctx context.Context, ld *loader.Loader, now func() time.Time) *Ledger {
	ds, err := ld.Load(ctx)
	return New(ds, err, now())
}

func (l *Ledger) Pending() []directive.Directive  { return slices.Clone(l.pending) }
func (l *Ledger) Archived() []directive.Directive { return slices.Clone(l.archived) }
func (l *Ledger) Len() int                        { return l.total }
func (l *Ledger) Err() error                      { return l.err }
func (l *Ledger) LoadedAt() time.Time             { return l.loadedAt }

// Message is the user-facing load failure text, or "" when the load succeeded.
func (l *Ledger) Message() string {
	return loader.Message(l.err)
}
