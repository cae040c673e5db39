package directive

import (
	"strings"
	"time"
)

// DisplayLayout is the dd-mm-yyyy layout used on cards.
const DisplayLayout = "02-01-2006"

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate parses the date formats accepted in the data document. Labels such
// as "Daily" or "As Required" report ok=false; they are not errors.
func ParseDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a parseable date as dd-mm-yyyy using the calendar date as
// written, and returns anything else verbatim.
func FormatDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format(DisplayLayout)
}

// Due returns the parsed due date of d.
func (d Directive) Due() (time.Time, bool) {
	return ParseDate(d.DueDate)
}
