package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ledger/internal/directive"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{"directives":[
	{"id":"task-001","title":"Morning report","type":"Report","assignedDate":"2024-01-01","dueDate":"Daily","status":"Pending","userReport":null,"mistressAppraisal":null},
	{"id":"task-002","title":"Tidy desk","type":"Action","assignedDate":"2024-01-02","dueDate":"2024-01-05","status":"Completed","userReport":"Done.","mistressAppraisal":"Adequate."}
]}`

func serve(t *testing.T, code int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoad_HTTPSuccess(t *testing.T) {
	srv := serve(t, http.StatusOK, sampleDoc)

	ds, err := New(srv.URL + "/database.json").Load(context.Background())

	require.NoError(t, err)
	require.Len(t, ds, 2)
	assert.Equal(t, directive.ID("task-001"), ds[0].ID)
	assert.Equal(t, directive.StatusCompleted, ds[1].Status)
}

func TestLoad_HTTP404(t *testing.T) {
	srv := serve(t, http.StatusNotFound, "not here")

	ds, err := New(srv.URL + "/database.json").Load(context.Background())

	require.Error(t, err)
	assert.Empty(t, ds)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Contains(t, Message(err), "Failed to load directives: HTTP error! status: 404 - Not Found")
}

func TestLoad_MalformedBody(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"directives": [ {"id": `)

	ds, err := New(srv.URL).Load(context.Background())

	require.Error(t, err)
	assert.Empty(t, ds)
	var de *DecodeError
	assert.True(t, errors.As(err, &de))
	assert.Contains(t, Message(err), "Failed to load directives: malformed directives document")
}

func TestLoad_CancelledContext(t *testing.T) {
	srv := serve(t, http.StatusOK, sampleDoc)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ds, err := New(srv.URL).Load(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ds)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o644))

	l := New(path)
	ds, err := l.Load(context.Background())

	require.NoError(t, err)
	assert.False(t, l.IsURL())
	assert.Len(t, ds, 2)
}

func TestLoad_MissingFile(t *testing.T) {
	ds, err := New(filepath.Join(t.TempDir(), "nope.json")).Load(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, ds)
}

func TestDecode_Envelope(t *testing.T) {
	ds, err := Decode([]byte(`{"directives": null}`))
	require.NoError(t, err)
	assert.Empty(t, ds)

	ds, err = Decode([]byte(`{"directives": []}`))
	require.NoError(t, err)
	assert.NotNil(t, ds)

	_, err = Decode([]byte(`{"tasks": []}`))
	assert.ErrorIs(t, err, ErrNoDirectives)

	_, err = Decode([]byte(`{"directives": {"id": "1"}}`))
	assert.ErrorIs(t, err, ErrNoDirectives)

	_, err = Decode([]byte(`[]`))
	var de *DecodeError
	assert.True(t, errors.As(err, &de))
}

func TestDecode_RejectsMissingOrNullStatus(t *testing.T) {
	noStatus := `{"directives":[
		{"id":"ok","title":"A","type":"Action","assignedDate":"2024-01-01","dueDate":"2024-02-01","status":"Pending"},
		{"id":"x","title":"B","type":"Action","assignedDate":"2024-01-01","dueDate":"2024-02-01"}
	]}`
	ds, err := Decode([]byte(noStatus))
	require.Error(t, err)
	assert.Nil(t, ds)
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.ErrorIs(t, err, directive.ErrUnknownStatus)
	assert.Contains(t, err.Error(), `id "x"`)

	nullStatus := `{"directives":[{"id":"x","title":"B","type":"Action","assignedDate":"2024-01-01","dueDate":"2024-02-01","status":null}]}`
	ds, err = Decode([]byte(nullStatus))
	require.Error(t, err)
	assert.Nil(t, ds)
	assert.True(t, errors.As(err, &de))
}

func TestLoad_MissingStatusLoadsNothing(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"directives":[{"id":"x","title":"B","type":"Action","assignedDate":"2024-01-01","dueDate":"2024-02-01"}]}`)

	ds, err := New(srv.URL).Load(context.Background())

	require.Error(t, err)
	assert.Empty(t, ds)
	assert.Contains(t, Message(err), "Failed to load directives: malformed directives document")
}

func TestLoad_HTTPBodyTooLarge(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"directives":[],"pad":"`+strings.Repeat("x", MaxDocumentBytes)+`"}`)

	ds, err := New(srv.URL).Load(context.Background())

	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Empty(t, ds)
}

func TestNew_DefaultsSource(t *testing.T) {
	assert.Equal(t, DefaultSource, New("  ").Source)
	assert.True(t, New("HTTPS://example.com/database.json").IsURL())
}

func TestMessage_Nil(t *testing.T) {
	assert.Equal(t, "", Message(nil))
}
