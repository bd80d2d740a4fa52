package ui

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/google/uuid"

	"github.com/Mattkaye3/sjstats/domain/core"
	"github.com/Mattkaye3/sjstats/domain/mediation"
	"github.com/Mattkaye3/sjstats/internal"
	"github.com/Mattkaye3/sjstats/internal/report"
	"github.com/Mattkaye3/sjstats/models"
	"github.com/Mattkaye3/sjstats/ports"
)

//go:embed templates/*
var embeddedFiles embed.FS

// App is the report browser: an HTML view over the stored analyses,
// rendered from the markdown reports
type App struct {
	router    *chi.Mux
	repo      ports.AnalysisRepository
	renderer  *report.Renderer
	templates *template.Template
	logger    *internal.Logger
	config    Config
}

// Config holds report browser configuration
type Config struct {
	Port string
}

// NewApp creates the report browser application
func NewApp(config Config, repo ports.AnalysisRepository, renderer *report.Renderer, logger *internal.Logger) (*App, error) {
	if repo == nil {
		return nil, fmt.Errorf("report browser needs an analysis repository")
	}

	funcMap := template.FuncMap{
		"formatTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		router:    chi.NewRouter(),
		repo:      repo,
		renderer:  renderer,
		templates: templates,
		logger:    logger,
		config:    config,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/analyses/{id}", a.handleAnalysis)
	a.router.Get("/analyses/{id}.md", a.handleAnalysisMarkdown)
	a.router.Get("/analyses/{id}.txt", a.handleAnalysisText)
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := ":" + a.config.Port
	a.logger.Info("starting report browser on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Router exposes the underlying handler for tests
func (a *App) Router() http.Handler {
	return a.router
}

// handleIndex lists the stored analyses, newest first
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	records, err := a.repo.ListAnalyses(r.Context(), 100)
	if err != nil {
		a.logger.Error("failed to list analyses: %v", err)
		http.Error(w, "failed to list analyses", http.StatusInternalServerError)
		return
	}

	a.renderTemplate(w, "index.html", map[string]interface{}{
		"Analyses": records,
		"Count":    len(records),
	})
}

// handleAnalysis renders one stored analysis as an HTML page
func (a *App) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	record, result, ok := a.lookupAnalysis(w, r)
	if !ok {
		return
	}

	md := a.renderer.Markdown(result)
	a.renderTemplate(w, "analysis.html", map[string]interface{}{
		"ID":        record.ID,
		"ModelName": record.ModelName,
		"CreatedAt": record.CreatedAt,
		"Content":   template.HTML(markdownToHTML([]byte(md))),
	})
}

// handleAnalysisMarkdown serves the raw markdown report
func (a *App) handleAnalysisMarkdown(w http.ResponseWriter, r *http.Request) {
	_, result, ok := a.lookupAnalysis(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	fmt.Fprint(w, a.renderer.Markdown(result))
}

// handleAnalysisText serves the fixed-width console report
func (a *App) handleAnalysisText(w http.ResponseWriter, r *http.Request) {
	_, result, ok := a.lookupAnalysis(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, a.renderer.Text(result))
}

// lookupAnalysis resolves the {id} route param to a stored record and its
// decoded result, writing the error response itself on failure
func (a *App) lookupAnalysis(w http.ResponseWriter, r *http.Request) (*models.AnalysisRecord, *mediation.Result, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid analysis id", http.StatusBadRequest)
		return nil, nil, false
	}

	record, err := a.repo.GetAnalysis(r.Context(), id)
	if err != nil {
		if core.IsNotFoundError(err) {
			http.Error(w, "analysis not found", http.StatusNotFound)
		} else {
			a.logger.Error("failed to load analysis %s: %v", id, err)
			http.Error(w, "failed to load analysis", http.StatusInternalServerError)
		}
		return nil, nil, false
	}

	var result mediation.Result
	if err := json.Unmarshal(record.Result, &result); err != nil {
		a.logger.Error("failed to decode analysis %s: %v", id, err)
		http.Error(w, "stored analysis is not decodable", http.StatusInternalServerError)
		return nil, nil, false
	}

	return record, &result, true
}

// Template helpers
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.logger.Error("template error: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

// markdownToHTML converts a markdown report into HTML for the browser view
func markdownToHTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(md)

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}
