package directive

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Status is the lifecycle state of a directive. Pending directives are shown
// on the board; Completed and Failed ones are archived.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusFailed    Status = "Failed"
)

var ErrUnknownStatus = errors.New("unknown directive status")

// Statuses lists every valid status in display order.
func Statuses() []Status {
	return []Status{StatusPending, StatusCompleted, StatusFailed}
}

// ParseStatus accepts the exact, case-sensitive status names.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusCompleted, StatusFailed:
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Archived reports whether the directive has been resolved.
func (s Status) Archived() bool {
	return s == StatusCompleted || s == StatusFailed
}

// UnmarshalJSON rejects null and unknown names. A missing key never reaches
// it, so callers check Valid after decoding.
func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("status: %w", err)
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ID is a directive identifier. Documents may carry it as a JSON string or a
// JSON number; it is always held as a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

type Directive struct {
	ID                ID      `json:"id"`
	Title             string  `json:"title"`
	Type              string  `json:"type"`
	AssignedDate      string  `json:"assignedDate"`
	DueDate           string  `json:"dueDate"`
	Status            Status  `json:"status"`
	UserReport        *string `json:"userReport"`
	MistressAppraisal *string `json:"mistressAppraisal"`
}

// Report returns the user report, or "" when absent.
func (d Directive) Report() string {
	if d.UserReport == nil {
		return ""
	}
	return *d.UserReport
}

// Appraisal returns the appraisal text, or "" when absent.
func (d Directive) Appraisal() string {
	if d.MistressAppraisal == nil {
		return ""
	}
	return *d.MistressAppraisal
}

// Database is the on-disk document shape.
type Database struct {
	Directives []Directive `json:"directives"`
}
