package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Mattkaye3/sjstats/app"
	"github.com/Mattkaye3/sjstats/internal"
	"github.com/Mattkaye3/sjstats/internal/testkit"
	"github.com/Mattkaye3/sjstats/models"
	"github.com/Mattkaye3/sjstats/ports"
)

// stubLoader serves a fixed model regardless of the requested directory
type stubLoader struct {
	model ports.FittedModel
	err   error
	dir   string
}

func (l *stubLoader) Load(dir string) (ports.FittedModel, error) {
	l.dir = dir
	if l.err != nil {
		return nil, l.err
	}
	return l.model, nil
}

func newTestServer(t *testing.T, repo ports.AnalysisRepository, loader ports.ModelLoader) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewServer(t.TempDir(),
		app.NewMediationService(repo), app.NewSummaryService(),
		loader, repo, internal.NewDefaultLogger())
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, testkit.NewInMemoryAnalysisRepository(), &stubLoader{})

	w := doJSON(t, srv.Router(), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("expected ok status in body, got %s", w.Body.String())
	}
}

func TestMediationEndpointRoundTrip(t *testing.T) {
	repo := testkit.NewInMemoryAnalysisRepository()
	model := testkit.NewMediationModelGenerator(testkit.DefaultMediationModelConfig()).Generate()
	srv := newTestServer(t, repo, &stubLoader{model: model})

	w := doJSON(t, srv.Router(), http.MethodPost, "/api/mediation",
		`{"model": "jobs", "persist": true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp app.MediationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AnalysisID == nil {
		t.Fatal("expected a persisted analysis id")
	}
	if len(resp.Result.Rows) != 5 {
		t.Errorf("expected 5 effect rows, got %d", len(resp.Result.Rows))
	}
	if resp.Result.Metadata.Treatment != "treat" || resp.Result.Metadata.Mediator != "job_seek" {
		t.Errorf("unexpected roles: %+v", resp.Result.Metadata)
	}

	w = doJSON(t, srv.Router(), http.MethodGet, "/api/analyses", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var list struct {
		Analyses []models.AnalysisRecord `json:"analyses"`
		Count    int                     `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if list.Count != 1 || len(list.Analyses) != 1 {
		t.Fatalf("expected one stored analysis, got %d", list.Count)
	}
	if list.Analyses[0].ModelName != "jobs" {
		t.Errorf("expected model name jobs, got %s", list.Analyses[0].ModelName)
	}

	id := resp.AnalysisID.String()
	w = doJSON(t, srv.Router(), http.MethodGet, "/api/analyses/"+id, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}

	w = doJSON(t, srv.Router(), http.MethodDelete, "/api/analyses/"+id, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}

	w = doJSON(t, srv.Router(), http.MethodGet, "/api/analyses/"+id, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}

func TestMediationEndpointRejectsBadRequests(t *testing.T) {
	model := testkit.NewMediationModelGenerator(testkit.DefaultMediationModelConfig()).Generate()
	srv := newTestServer(t, testkit.NewInMemoryAnalysisRepository(), &stubLoader{model: model})

	cases := []struct {
		name string
		body string
		want int
	}{
		{"garbage body", `{not json`, http.StatusBadRequest},
		{"missing model", `{"persist": false}`, http.StatusBadRequest},
		{"unknown typical", `{"model": "jobs", "typical": "mode"}`, http.StatusBadRequest},
		{"bad interval mass", `{"model": "jobs", "interval_masses": [1.5]}`, http.StatusBadRequest},
		{"unknown treatment", `{"model": "jobs", "treatment": "nope"}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, srv.Router(), http.MethodPost, "/api/mediation", tc.body)
			if w.Code != tc.want {
				t.Errorf("expected %d, got %d: %s", tc.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestMediationEndpointModelLoadFailures(t *testing.T) {
	notExist := fmt.Errorf("failed to read manifest: %w", fs.ErrNotExist)
	srv := newTestServer(t, testkit.NewInMemoryAnalysisRepository(), &stubLoader{err: notExist})

	w := doJSON(t, srv.Router(), http.MethodPost, "/api/mediation", `{"model": "missing"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing model: expected 404, got %d", w.Code)
	}

	srv = newTestServer(t, testkit.NewInMemoryAnalysisRepository(),
		&stubLoader{err: errors.New("manifest declares no equations")})
	w = doJSON(t, srv.Router(), http.MethodPost, "/api/mediation", `{"model": "broken"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("broken model: expected 400, got %d", w.Code)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	model := testkit.NewMediationModelGenerator(testkit.DefaultMediationModelConfig()).Generate()
	srv := newTestServer(t, testkit.NewInMemoryAnalysisRepository(), &stubLoader{model: model})

	w := doJSON(t, srv.Router(), http.MethodPost, "/api/summary", `{"model": "jobs"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Coefficients []app.CoefficientSummary `json:"coefficients"`
		Count        int                      `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != len(model.Coefficients()) {
		t.Errorf("expected %d coefficients, got %d", len(model.Coefficients()), resp.Count)
	}
	for _, c := range resp.Coefficients {
		if c.Low > c.High {
			t.Errorf("%s: interval bounds out of order: [%v, %v]", c.Key, c.Low, c.High)
		}
	}
}

func TestDesignEffectEndpoint(t *testing.T) {
	srv := newTestServer(t, testkit.NewInMemoryAnalysisRepository(), &stubLoader{})

	w := doJSON(t, srv.Router(), http.MethodPost, "/api/design-effect",
		`{"avg_cluster_size": 25, "icc": 0.05}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		DesignEffect float64 `json:"design_effect"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if diff := resp.DesignEffect - 2.2; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected design effect 2.2, got %v", resp.DesignEffect)
	}

	w = doJSON(t, srv.Router(), http.MethodPost, "/api/design-effect",
		`{"avg_cluster_size": 25, "icc": 1.5}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad icc: expected 400, got %d", w.Code)
	}
}

func TestSampleSizeEndpoint(t *testing.T) {
	srv := newTestServer(t, testkit.NewInMemoryAnalysisRepository(), &stubLoader{})

	w := doJSON(t, srv.Router(), http.MethodPost, "/api/samplesize",
		`{"effect_size": 0.5, "clusters": 30, "avg_cluster_size": 25, "icc": 0.05}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		TotalN             int `json:"total_n"`
		SubjectsPerCluster int `json:"subjects_per_cluster"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TotalN != 139 {
		t.Errorf("expected total n 139, got %d", resp.TotalN)
	}
	if resp.SubjectsPerCluster != 5 {
		t.Errorf("expected 5 subjects per cluster, got %d", resp.SubjectsPerCluster)
	}

	w = doJSON(t, srv.Router(), http.MethodPost, "/api/samplesize", `{"effect_size": 0}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("zero effect size: expected 400, got %d", w.Code)
	}
}

func TestAnalysisEndpointsWithoutRepository(t *testing.T) {
	model := testkit.NewMediationModelGenerator(testkit.DefaultMediationModelConfig()).Generate()
	srv := newTestServer(t, nil, &stubLoader{model: model})

	w := doJSON(t, srv.Router(), http.MethodGet, "/api/analyses", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("list: expected 503, got %d", w.Code)
	}

	w = doJSON(t, srv.Router(), http.MethodPost, "/api/mediation",
		`{"model": "jobs", "persist": true}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("persist without repo: expected 503, got %d", w.Code)
	}

	// Without persistence the analysis itself still runs.
	w = doJSON(t, srv.Router(), http.MethodPost, "/api/mediation", `{"model": "jobs"}`)
	if w.Code != http.StatusOK {
		t.Errorf("run without repo: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListModelsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	modelsDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(modelsDir, "jobs"), 0o755); err != nil {
		t.Fatal(err)
	}
	manifest := filepath.Join(modelsDir, "jobs", "manifest.yaml")
	if err := os.WriteFile(manifest, []byte("name: jobs\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(modelsDir, "scratch"), 0o755); err != nil {
		t.Fatal(err)
	}

	repo := testkit.NewInMemoryAnalysisRepository()
	srv := NewServer(modelsDir,
		app.NewMediationService(repo), app.NewSummaryService(),
		&stubLoader{}, repo, internal.NewDefaultLogger())

	w := doJSON(t, srv.Router(), http.MethodGet, "/api/models", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Models []string `json:"models"`
		Count  int      `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 1 || len(resp.Models) != 1 || resp.Models[0] != "jobs" {
		t.Errorf("expected exactly the jobs model, got %+v", resp.Models)
	}
}
