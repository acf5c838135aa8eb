package insight

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Bahjat/page-insight-tool/web/internal/model"
	"github.com/Bahjat/page-insight-tool/web/internal/platform/middleware"
	"github.com/Bahjat/page-insight-tool/web/internal/submission"
)

// renderTimeout bounds the backend work of a single render pass.
const renderTimeout = 60 * time.Second

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"rfc3339": func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
	"yesno": func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	},
}

var (
	landingTmpl = template.Must(template.New("layout.html").Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/index.html"))
	statusTmpl = template.Must(template.New("layout.html").Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/status.html"))
)

// landingView is the data behind the landing page.
type landingView struct {
	Title  string
	Param  string
	URL    string
	Result *model.AnalysisResult
}

// statusView is the data behind the status page.
type statusView struct {
	Title  string
	Report model.HealthReport
	State  model.Status
}

// Transport serves the server-rendered views.
type Transport struct {
	service *Service
	logger  *slog.Logger
}

// NewTransport creates an HTTP transport backed by the given service.
func NewTransport(service *Service, logger *slog.Logger) *Transport {
	return &Transport{service: service, logger: logger}
}

// RegisterRoutes attaches the transport's handlers to the given mux. The
// landing middleware wraps only the landing view, which is the route that
// fans out to the backend analysis.
func (t *Transport) RegisterRoutes(mux *http.ServeMux, landing ...func(http.Handler) http.Handler) {
	mux.Handle("GET /{$}", middleware.Chain(http.HandlerFunc(t.handleLanding), landing...))
	mux.HandleFunc("GET /status", t.handleStatus)
	mux.HandleFunc("GET /healthz", t.handleLiveness)
}

// handleLanding renders the form. When the url parameter is present the
// analysis is fetched before anything is written.
func (t *Transport) handleLanding(w http.ResponseWriter, r *http.Request) {
	view := landingView{
		Title: "Page Insight Tool",
		Param: submission.QueryParam,
		URL:   strings.TrimSpace(r.URL.Query().Get(submission.QueryParam)),
	}

	if view.URL != "" {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		result := t.service.LoadAnalysis(ctx, view.URL)
		view.Result = &result
	}

	t.renderHTML(w, http.StatusOK, landingTmpl, view)
}

func (t *Transport) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	report := t.service.LoadHealth(ctx)
	t.renderHTML(w, http.StatusOK, statusTmpl, statusView{
		Title:  "Page Insight Tool Status",
		Report: report,
		State:  report.Status.State(),
	})
}

// handleLiveness describes this server, not the backend.
func (t *Transport) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	t.renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (t *Transport) renderHTML(w http.ResponseWriter, status int, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		t.logger.Error("failed to render template", "template", tmpl.Name(), "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (t *Transport) renderJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		t.logger.Error("failed to encode response", "error", err)
		http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
