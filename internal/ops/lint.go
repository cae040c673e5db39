package ops

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"ledger/internal/directive"
	"ledger/internal/loader"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warn"
	SeverityInfo  Severity = "info"
)

type Finding struct {
	Severity Severity `json:"severity"`
	Index    int      `json:"index"`
	ID       string   `json:"id,omitempty"`
	Message  string   `json:"message"`
}

type Report struct {
	Records  int       `json:"records"`
	Findings []Finding `json:"findings"`
}

func (r Report) Errors() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Lint checks a directives document for the problems the loader does not
// catch on its own (duplicate ids) as well as the ones that would make the
// whole load fail, reporting every record instead of stopping at the first.
func Lint(raw []byte) (Report, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Report{}, &loader.DecodeError{Err: err}
	}
	field, ok := envelope["directives"]
	if !ok {
		return Report{}, &loader.DecodeError{Err: loader.ErrNoDirectives}
	}
	var records []map[string]json.RawMessage
	if err := json.Unmarshal(field, &records); err != nil {
		return Report{}, &loader.DecodeError{Err: err}
	}

	rep := Report{Records: len(records), Findings: []Finding{}}
	add := func(sev Severity, idx int, id, format string, args ...any) {
		rep.Findings = append(rep.Findings, Finding{Severity: sev, Index: idx, ID: id, Message: fmt.Sprintf(format, args...)})
	}

	seen := map[string]int{}
	for i, rec := range records {
		var id directive.ID
		idRaw, hasID := rec["id"]
		if !hasID || json.Unmarshal(idRaw, &id) != nil || strings.TrimSpace(string(id)) == "" {
			add(SeverityError, i, "", "missing or invalid id")
		} else if prev, dup := seen[string(id)]; dup {
			add(SeverityError, i, string(id), "duplicate id (first seen at index %d)", prev)
		} else {
			seen[string(id)] = i
		}

		for _, key := range []string{"title", "type", "assignedDate", "dueDate", "status"} {
			if s, ok := stringField(rec, key); !ok || strings.TrimSpace(s) == "" {
				add(SeverityError, i, string(id), "missing %s", key)
			}
		}

		if s, ok := stringField(rec, "status"); ok && s != "" {
			if _, err := directive.ParseStatus(s); err != nil {
				add(SeverityError, i, string(id), "unknown status %q", s)
			}
		}
		if s, ok := stringField(rec, "assignedDate"); ok && s != "" {
			if _, isDate := directive.ParseDate(s); !isDate {
				add(SeverityWarn, i, string(id), "assignedDate %q is not a date", s)
			}
		}
		if s, ok := stringField(rec, "dueDate"); ok && s != "" {
			if _, isDate := directive.ParseDate(s); !isDate {
				add(SeverityInfo, i, string(id), "dueDate %q is a label and sorts after dated directives", s)
			}
		}
		for _, key := range []string{"userReport", "mistressAppraisal"} {
			if v, ok := rec[key]; ok && !isStringOrNull(v) {
				add(SeverityError, i, string(id), "%s must be a string or null", key)
			}
		}
	}
	return rep, nil
}

func stringField(rec map[string]json.RawMessage, key string) (string, bool) {
	v, ok := rec[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, true
}

func isStringOrNull(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return bytes.Equal(v, []byte("null")) || (len(v) > 0 && v[0] == '"')
}

// WriteText prints one line per finding followed by a summary.
func WriteText(w io.Writer, rep Report) error {
	for _, f := range rep.Findings {
		id := f.ID
		if id == "" {
			id = "-"
		}
		if _, err := fmt.Fprintf(w, "%-5s #%d %s: %s\n", f.Severity, f.Index, id, f.Message); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d records, %d errors, %d findings\n", rep.Records, rep.Errors(), len(rep.Findings))
	return err
}
