package generator

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"ledger/internal/directive"
)

var (
	ErrMissingFields = errors.New("ID, Title, Type, Assigned Date, and Due Date are required.")
	ErrNonNumericID  = errors.New("ID must be a number.")
	ErrBadStatus     = errors.New("Status must be Pending, Completed, or Failed.")
)

// Form is a hand-authored directive as typed into the generator panel.
type Form struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Type              string `json:"type"`
	AssignedDate      string `json:"assignedDate"`
	DueDate           string `json:"dueDate"`
	Status            string `json:"status"`
	UserReport        string `json:"userReport"`
	MistressAppraisal string `json:"mistressAppraisal"`
}

// Record is the generated directive. Field order is the output key order.
type Record struct {
	ID                int              `json:"id"`
	Title             string           `json:"title"`
	Type              string           `json:"type"`
	AssignedDate      string           `json:"assignedDate"`
	DueDate           string           `json:"dueDate"`
	Status            directive.Status `json:"status"`
	UserReport        string           `json:"userReport"`
	MistressAppraisal string           `json:"mistressAppraisal"`
}

type Document struct {
	Directives []Record `json:"directives"`
}

// Validate checks required fields, the numeric id and the status, returning the
// record that would be generated.
func (f Form) Validate() (Record, error) {
	for _, v := range []string{f.ID, f.Title, f.Type, f.AssignedDate, f.DueDate} {
		if strings.TrimSpace(v) == "" {
			return Record{}, ErrMissingFields
		}
	}

	id, err := strconv.Atoi(strings.TrimSpace(f.ID))
	if err != nil {
		return Record{}, ErrNonNumericID
	}

	status := directive.StatusPending
	if s := strings.TrimSpace(f.Status); s != "" {
		parsed, err := directive.ParseStatus(s)
		if err != nil {
			return Record{}, ErrBadStatus
		}
		status = parsed
	}

	return Record{
		ID:                id,
		Title:             f.Title,
		Type:              f.Type,
		AssignedDate:      f.AssignedDate,
		DueDate:           f.DueDate,
		Status:            status,
		UserReport:        f.UserReport,
		MistressAppraisal: f.MistressAppraisal,
	}, nil
}

// Generate validates f and renders the single-record document, indented with
// two spaces, ready to paste into the directives file.
func Generate(f Form) ([]byte, error) {
	rec, err := f.Validate()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{Directives: []Record{rec}}); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
