package server

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
)

//go:embed templates/routes.html
var routesTemplatesFS embed.FS

var routesTmpl = template.Must(
	template.New("routes.html").
		Funcs(template.FuncMap{
			"contains": func(s, sub string) bool { return strings.Contains(s, sub) },
		}).
		ParseFS(routesTemplatesFS, "templates/routes.html"),
)

type routesPageData struct {
	Title  string
	Routes []RouteDoc
}

// RegisterRouteIndex exposes the registry as HTML and JSON. It registers
// itself, so the index lists its own endpoints.
func RegisterRouteIndex(mux *http.ServeMux, rr *RouteRegistry, title string) {
	HandleFunc(mux, rr, "GET /_/routes.json", "Route index as JSON", "", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(rr.List())
	})

	HandleFunc(mux, rr, "GET /_/routes", "Route index", "", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		data := routesPageData{
			Title:  title,
			Routes: rr.List(),
		}

		if err := routesTmpl.Execute(w, data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
