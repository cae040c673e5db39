package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"ledger/internal/directive"
)

// DefaultSource is the well-known document path, relative to the working
// directory of the process.
const DefaultSource = "data/database.json"

// MaxDocumentBytes caps a document fetched over HTTP.
const MaxDocumentBytes = 8 << 20

var ErrTooLarge = fmt.Errorf("directives document exceeds %d bytes", MaxDocumentBytes)

var ErrNoDirectives = errors.New("document has no directives array")

// StatusError is returned when the document server answers with a non-2xx code.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d - %s", e.Code, e.Status)
}

// DecodeError wraps a malformed document.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "malformed directives document: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Loader reads the directives document from a file path or an http(s) URL.
type Loader struct {
	Source string
	Client *http.Client
}

// New returns a Loader for source, falling back to DefaultSource when it is
// blank.
func New(source string) *Loader {
	if strings.TrimSpace(source) == "" {
		source = DefaultSource
	}
	return &Loader{Source: source, Client: http.DefaultClient}
}

// IsURL reports whether the source is fetched over HTTP rather than read from
// disk.
func (l *Loader) IsURL() bool {
	s := strings.ToLower(l.Source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Load fetches and decodes the document once. On any failure the returned
// slice is empty and the error is one of *StatusError, *DecodeError or a
// transport/filesystem error.
func (l *Loader) Load(ctx context.Context) ([]directive.Directive, error) {
	raw, err := l.Fetch(ctx)
	if err != nil {
		return []directive.Directive{}, err
	}
	ds, err := Decode(raw)
	if err != nil {
		return []directive.Directive{}, err
	}
	return ds, nil
}

// Fetch returns the raw document bytes without decoding them.
func (l *Loader) Fetch(ctx context.Context) ([]byte, error) {
	if !l.IsURL() {
		b, err := os.ReadFile(l.Source)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", l.Source, err)
		}
		return b, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.Source, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, &StatusError{Code: res.StatusCode, Status: http.StatusText(res.StatusCode)}
	}
	b, err := io.ReadAll(io.LimitReader(res.Body, MaxDocumentBytes+1))
	if err != nil {
		return nil, err
	}
	if len(b) > MaxDocumentBytes {
		return nil, ErrTooLarge
	}
	return b, nil
}

// Decode parses a directives document. A missing or non-array "directives"
// field is a decode failure; null decodes to an empty collection.
func Decode(raw []byte) ([]directive.Directive, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &DecodeError{Err: err}
	}
	field, ok := envelope["directives"]
	if !ok {
		return nil, &DecodeError{Err: ErrNoDirectives}
	}
	field = bytes.TrimSpace(field)
	if bytes.Equal(field, []byte("null")) {
		return []directive.Directive{}, nil
	}
	if len(field) == 0 || field[0] != '[' {
		return nil, &DecodeError{Err: ErrNoDirectives}
	}

	var ds []directive.Directive
	if err := json.Unmarshal(field, &ds); err != nil {
		return nil, &DecodeError{Err: err}
	}
	for i, d := range ds {
		// an absent status key never reaches Status.UnmarshalJSON
		if !d.Status.Valid() {
			return nil, &DecodeError{Err: fmt.Errorf("directive %d (id %q): %w: %q", i, d.ID, directive.ErrUnknownStatus, d.Status)}
		}
	}
	if ds == nil {
		ds = []directive.Directive{}
	}
	return ds, nil
}

// Message renders a load failure as the single line shown in place of the
// ledger.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var se *StatusError
	if errors.As(err, &se) {
		return "Failed to load directives: " + se.Error() + ". Ensure the directives document exists and is accessible."
	}
	return "Failed to load directives: " + err.Error()
}
