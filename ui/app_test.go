package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Mattkaye3/sjstats/domain/estimate"
	"github.com/Mattkaye3/sjstats/domain/mediation"
	"github.com/Mattkaye3/sjstats/internal"
	"github.com/Mattkaye3/sjstats/internal/report"
	"github.com/Mattkaye3/sjstats/internal/testkit"
	"github.com/Mattkaye3/sjstats/models"
	"github.com/Mattkaye3/sjstats/ports"
)

func storedResult() *mediation.Result {
	return &mediation.Result{
		Rows: []mediation.EffectRow{
			{Label: mediation.LabelDirect, Estimate: -0.04, IntervalLow: -0.11, IntervalHigh: 0.03},
			{Label: mediation.LabelIndirect, Estimate: -0.018, IntervalLow: -0.042, IntervalHigh: 0},
			{Label: mediation.LabelMediator, Estimate: -0.27, IntervalLow: -0.415, IntervalHigh: -0.117},
			{Label: mediation.LabelTotal, Estimate: -0.057, IntervalLow: -0.132, IntervalHigh: 0.019},
			{Label: mediation.LabelProportionMediated, Estimate: 0.314, IntervalLow: -0.796, IntervalHigh: 1.359},
		},
		Metadata: mediation.Metadata{
			Treatment:    "treat",
			Mediator:     "job_seek",
			Response:     "depress2",
			IntervalMass: 0.9,
			Typical:      estimate.TypicalMedian,
			Formulas: []string{
				"job_seek ~ treat + econ_hard",
				"depress2 ~ treat + job_seek + econ_hard",
			},
		},
	}
}

func seedAnalysis(t *testing.T, repo ports.AnalysisRepository) *models.AnalysisRecord {
	t.Helper()
	payload, err := json.Marshal(storedResult())
	if err != nil {
		t.Fatalf("failed to marshal fixture: %v", err)
	}
	record := models.NewAnalysisRecord("jobs", "sha256:0ddba11", payload)
	record.Treatment = "treat"
	record.Mediator = "job_seek"
	record.Response = "depress2"
	record.IntervalMass = 0.9
	record.Typical = "median"
	if err := repo.SaveAnalysis(context.Background(), record); err != nil {
		t.Fatalf("failed to seed analysis: %v", err)
	}
	return record
}

func newTestApp(t *testing.T, repo ports.AnalysisRepository) *App {
	t.Helper()
	browser, err := NewApp(Config{Port: "8081"}, repo, report.NewRenderer(report.Config{}), internal.NewDefaultLogger())
	if err != nil {
		t.Fatalf("failed to build report browser: %v", err)
	}
	return browser
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestReportIndexListsAnalyses(t *testing.T) {
	repo := testkit.NewInMemoryAnalysisRepository()
	record := seedAnalysis(t, repo)
	browser := newTestApp(t, repo)

	w := get(t, browser.Router(), "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"jobs", "treat", "job_seek", "depress2", "/analyses/" + record.ID.String()} {
		if !strings.Contains(body, want) {
			t.Errorf("index page missing %q", want)
		}
	}
}

func TestReportIndexEmptyState(t *testing.T) {
	browser := newTestApp(t, testkit.NewInMemoryAnalysisRepository())

	w := get(t, browser.Router(), "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No analyses stored yet") {
		t.Error("expected the empty state message")
	}
}

func TestReportAnalysisPage(t *testing.T) {
	repo := testkit.NewInMemoryAnalysisRepository()
	record := seedAnalysis(t, repo)
	browser := newTestApp(t, repo)

	w := get(t, browser.Router(), "/analyses/"+record.ID.String())
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("expected an HTML response, got %s", ct)
	}

	body := w.Body.String()
	for _, want := range []string{
		"Causal Mediation Analysis",
		"<table>",
		"Proportion mediated",
		"all analyses",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("analysis page missing %q", want)
		}
	}
}

func TestReportMarkdownRoute(t *testing.T) {
	repo := testkit.NewInMemoryAnalysisRepository()
	record := seedAnalysis(t, repo)
	browser := newTestApp(t, repo)

	w := get(t, browser.Router(), "/analyses/"+record.ID.String()+".md")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/markdown") {
		t.Errorf("expected markdown content type, got %s", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "# Causal Mediation Analysis") {
		t.Errorf("unexpected markdown head: %q", w.Body.String()[:40])
	}
}

func TestReportTextRoute(t *testing.T) {
	repo := testkit.NewInMemoryAnalysisRepository()
	record := seedAnalysis(t, repo)
	browser := newTestApp(t, repo)

	w := get(t, browser.Router(), "/analyses/"+record.ID.String()+".txt")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Proportion mediated: 31.4% [-79.6%, 135.9%]") {
		t.Errorf("text report missing the proportion line:\n%s", w.Body.String())
	}
}

func TestReportAnalysisLookupFailures(t *testing.T) {
	browser := newTestApp(t, testkit.NewInMemoryAnalysisRepository())

	w := get(t, browser.Router(), "/analyses/"+uuid.NewString())
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id: expected 404, got %d", w.Code)
	}

	w = get(t, browser.Router(), "/analyses/not-a-uuid")
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed id: expected 400, got %d", w.Code)
	}
}

func TestNewAppRequiresRepository(t *testing.T) {
	_, err := NewApp(Config{Port: "8081"}, nil, report.NewRenderer(report.Config{}), internal.NewDefaultLogger())
	if err == nil {
		t.Fatal("expected an error without a repository")
	}
}
