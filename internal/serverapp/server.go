package serverapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ledger/internal/clock"
	"ledger/internal/config"
	"ledger/internal/directive"
	"ledger/internal/generator"
	"ledger/internal/httpmw"
	"ledger/internal/ledger"
	"ledger/internal/server"
	"ledger/internal/ui"
	staticfiles "ledger/static"

	"github.com/a-h/templ"
	"go.uber.org/zap"
)

const maxFormBytes = 64 << 10

// Options carries the already loaded ledger and its collaborators.
type Options struct {
	Config *config.Config
	Ledger *ledger.Ledger
	// SourceFile is the directives document published at /database.json.
	// Empty when the ledger was loaded from a URL.
	SourceFile string
	Clock      clock.Clock
	Logger     *zap.Logger
}

type app struct {
	cfg        *config.Config
	ledger     *ledger.Ledger
	sourceFile string
	clock      clock.Clock
	log        *zap.Logger
}

// NewHandler registers every route on a fresh mux and wraps it in the access
// log, request id and recovery middleware.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Ledger == nil {
		return nil, errors.New("ledger is required")
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	a := &app{
		cfg:        opts.Config,
		ledger:     opts.Ledger,
		sourceFile: opts.SourceFile,
		clock:      opts.Clock,
		log:        opts.Logger,
	}

	mux := http.NewServeMux()
	rr := &server.RouteRegistry{}

	staticDir := ""
	if opts.Config.Server.DevStatic {
		staticDir = opts.Config.Server.StaticDir
	}
	server.Handle(mux, rr, "GET /static/", "Stylesheet and script assets", "",
		http.StripPrefix("/static/", http.FileServer(http.FS(staticfiles.Assets(staticDir)))))

	server.HandleFunc(mux, rr, "GET /{$}", "Dashboard: pending directives, archives, generator", "", a.dashboard)
	server.HandleFunc(mux, rr, "POST /generator", "Generator form submission (form-encoded)", "", a.generatorForm)
	server.HandleFunc(mux, rr, "GET /database.json", "The directives document as loaded", "", a.database)
	server.HandleFunc(mux, rr, "GET /events/clock", "Server-sent clock ticks (HH:MM:SS)", "", a.clockStream)

	server.HandleFunc(mux, rr, "GET /api/directives", "Pending and archived directives", "", a.listDirectives)
	server.HandleFunc(mux, rr, "GET /api/stats", "Directive counts by status and type", "", a.stats)
	server.HandleFunc(mux, rr, "POST /api/directives/generate", "Generate a directive JSON document",
		`{"id":"101","title":"T","type":"Action","assignedDate":"2024-01-01","dueDate":"2024-02-01"}`, a.generateAPI)

	server.HandleFunc(mux, rr, "GET /healthz", "Liveness", "", a.healthz)
	server.HandleFunc(mux, rr, "GET /readyz", "Readiness: fails when the directives failed to load", "", a.readyz)
	server.RegisterRouteIndex(mux, rr, opts.Config.UI.Title)

	return httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	), nil
}

func (a *app) view() ui.DashboardView {
	return ui.NewDashboardView(a.ledger, a.clock.Now(), a.cfg.UI.Title)
}

func (a *app) dashboard(w http.ResponseWriter, r *http.Request) {
	templ.Handler(ui.Dashboard(a.view())).ServeHTTP(w, r)
}

func (a *app) generatorForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := generator.Form{
		ID:                r.PostForm.Get("id"),
		Title:             r.PostForm.Get("title"),
		Type:              r.PostForm.Get("type"),
		AssignedDate:      r.PostForm.Get("assignedDate"),
		DueDate:           r.PostForm.Get("dueDate"),
		Status:            r.PostForm.Get("status"),
		UserReport:        r.PostForm.Get("userReport"),
		MistressAppraisal: r.PostForm.Get("mistressAppraisal"),
	}
	if form.Status == "" {
		form.Status = string(directive.StatusPending)
	}

	v := a.view()
	v.Generator.Open = true
	v.Generator.Form = form

	status := http.StatusOK
	out, err := generator.Generate(form)
	if err != nil {
		v.Generator.Error = err.Error()
		status = http.StatusUnprocessableEntity
	} else {
		v.Generator.Output = string(out)
	}
	templ.Handler(ui.Dashboard(v), templ.WithStatus(status)).ServeHTTP(w, r)
}

func (a *app) database(w http.ResponseWriter, r *http.Request) {
	if a.sourceFile == "" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, a.sourceFile)
}

type directivesResponse struct {
	Pending  []directive.Directive `json:"pending"`
	Archived []directive.Directive `json:"archived"`
	Error    string                `json:"error,omitempty"`
}

func (a *app) listDirectives(w http.ResponseWriter, r *http.Request) {
	res := directivesResponse{
		Pending:  a.ledger.Pending(),
		Archived: a.ledger.Archived(),
		Error:    a.ledger.Message(),
	}
	code := http.StatusOK
	if a.ledger.Err() != nil {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, res)
}

func (a *app) stats(w http.ResponseWriter, r *http.Request) {
	if a.ledger.Err() != nil {
		writeErr(w, http.StatusServiceUnavailable, a.ledger.Message())
		return
	}
	writeJSON(w, http.StatusOK, a.ledger.Stats(a.clock.Now()))
}

func (a *app) generateAPI(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	var form generator.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	out, err := generator.Generate(form)
	if err != nil {
		writeErr(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (a *app) clockStream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	err := clock.Stream(r.Context(), a.clock, a.cfg.UI.ClockInterval, func(now time.Time) error {
		if _, err := fmt.Fprintf(w, "event: tick\ndata: %s\n\n", clock.Format(now)); err != nil {
			return err
		}
		return rc.Flush()
	})
	if err != nil && r.Context().Err() == nil {
		a.log.Warn("clock stream ended",
			zap.String("request_id", httpmw.RequestIDFromContext(r.Context())),
			zap.Error(err),
		)
	}
}

func (a *app) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": "ledger",
		"time":    a.clock.Now().UTC().Format(time.RFC3339),
	})
}

func (a *app) readyz(w http.ResponseWriter, r *http.Request) {
	if err := a.ledger.Err(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"ok":    false,
			"error": a.ledger.Message(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"service":    "ledger",
		"directives": a.ledger.Len(),
		"loaded_at":  a.ledger.LoadedAt().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": strings.TrimSpace(msg)})
}
