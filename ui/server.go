package ui

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Mattkaye3/sjstats/adapters/brmsfile"
	"github.com/Mattkaye3/sjstats/app"
	"github.com/Mattkaye3/sjstats/domain/core"
	"github.com/Mattkaye3/sjstats/domain/survey"
	"github.com/Mattkaye3/sjstats/internal"
	"github.com/Mattkaye3/sjstats/ports"
)

// Server is the JSON API for running mediation analyses, summarizing
// posteriors and browsing stored results
type Server struct {
	router    *gin.Engine
	logger    *internal.Logger
	mediation *app.MediationService
	summary   *app.SummaryService
	loader    ports.ModelLoader
	repo      ports.AnalysisRepository
	modelsDir string
}

// NewServer creates the API server and wires its routes. The repository may
// be nil when no database is configured; the analysis endpoints then
// respond with 503.
func NewServer(modelsDir string, mediationSvc *app.MediationService, summarySvc *app.SummaryService, loader ports.ModelLoader, repo ports.AnalysisRepository, logger *internal.Logger) *Server {
	s := &Server{
		router:    gin.Default(),
		logger:    logger,
		mediation: mediationSvc,
		summary:   summarySvc,
		loader:    loader,
		repo:      repo,
		modelsDir: modelsDir,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealthz)

	s.router.GET("/api/models", s.handleListModels)
	s.router.POST("/api/mediation", s.handleMediation)
	s.router.POST("/api/summary", s.handleSummary)

	s.router.GET("/api/analyses", s.handleListAnalyses)
	s.router.GET("/api/analyses/:id", s.handleGetAnalysis)
	s.router.DELETE("/api/analyses/:id", s.handleDeleteAnalysis)

	s.router.POST("/api/design-effect", s.handleDesignEffect)
	s.router.POST("/api/samplesize", s.handleSampleSize)
}

// Start starts the API server
func (s *Server) Start(addr string) error {
	s.logger.Info("starting API server on http://%s", addr)
	return s.router.Run(addr)
}

// Router exposes the underlying handler for tests
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleListModels lists the model directories that carry a manifest
func (s *Server) handleListModels(c *gin.Context) {
	entries, err := os.ReadDir(s.modelsDir)
	if err != nil {
		s.logger.Error("failed to read models dir %s: %v", s.modelsDir, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read models directory"})
		return
	}

	models := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest := filepath.Join(s.modelsDir, entry.Name(), brmsfile.ManifestFileName)
		if _, err := os.Stat(manifest); err == nil {
			models = append(models, entry.Name())
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"models": models,
		"count":  len(models),
	})
}

// MediationAPIRequest is the body for POST /api/mediation. Model names a
// directory under the configured models dir; empty treatment and mediator
// are auto-detected.
type MediationAPIRequest struct {
	Model          string    `json:"model"`
	Treatment      string    `json:"treatment"`
	Mediator       string    `json:"mediator"`
	IntervalMasses []float64 `json:"interval_masses"`
	Typical        string    `json:"typical"`
	Persist        bool      `json:"persist"`
}

func (s *Server) handleMediation(c *gin.Context) {
	var req MediationAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Model == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "model is required"})
		return
	}
	if req.Persist && s.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured, cannot persist"})
		return
	}

	fitted, err := s.loadModel(c, req.Model)
	if err != nil {
		return
	}

	appReq := app.MediationRequest{
		ModelName:      req.Model,
		Treatment:      req.Treatment,
		Mediator:       req.Mediator,
		IntervalMasses: req.IntervalMasses,
		Typical:        req.Typical,
		Persist:        req.Persist,
	}
	if named, ok := fitted.(interface{ Name() string }); ok && named.Name() != "" {
		appReq.ModelName = named.Name()
	}
	if hashed, ok := fitted.(interface{ SourceHash() core.SourceHash }); ok {
		if h := hashed.SourceHash(); !h.IsEmpty() {
			appReq.SourceHash = h.String()
		}
	}

	resp, err := s.mediation.RunMediation(c.Request.Context(), fitted, appReq)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SummaryAPIRequest is the body for POST /api/summary
type SummaryAPIRequest struct {
	Model        string  `json:"model"`
	IntervalMass float64 `json:"interval_mass"`
	Typical      string  `json:"typical"`
}

func (s *Server) handleSummary(c *gin.Context) {
	var req SummaryAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Model == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "model is required"})
		return
	}

	fitted, err := s.loadModel(c, req.Model)
	if err != nil {
		return
	}

	summaries, err := s.summary.RunSummary(c.Request.Context(), fitted, app.SummaryRequest{
		IntervalMass: req.IntervalMass,
		Typical:      req.Typical,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"coefficients": summaries,
		"count":        len(summaries),
	})
}

func (s *Server) handleListAnalyses(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured"})
		return
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	records, err := s.repo.ListAnalyses(c.Request.Context(), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"analyses": records,
		"count":    len(records),
	})
}

func (s *Server) handleGetAnalysis(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis id"})
		return
	}

	record, err := s.repo.GetAnalysis(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) handleDeleteAnalysis(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis id"})
		return
	}

	if err := s.repo.DeleteAnalysis(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// handleDesignEffect computes the variance inflation of a clustered design
func (s *Server) handleDesignEffect(c *gin.Context) {
	var req struct {
		AvgClusterSize float64 `json:"avg_cluster_size"`
		ICC            float64 `json:"icc"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	deff, err := survey.DesignEffect(req.AvgClusterSize, req.ICC)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"design_effect": deff})
}

// handleSampleSize computes the required sample size for a clustered design
func (s *Server) handleSampleSize(c *gin.Context) {
	var req survey.SampleSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	est, err := survey.SampleSize(req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, est)
}

// loadModel loads a named model from the models dir, writing the error
// response itself when loading fails
func (s *Server) loadModel(c *gin.Context, name string) (ports.FittedModel, error) {
	fitted, err := s.loader.Load(filepath.Join(s.modelsDir, name))
	if err != nil {
		s.logger.Error("failed to load model %s: %v", name, err)
		status := http.StatusBadRequest
		if errors.Is(err, fs.ErrNotExist) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return nil, err
	}
	return fitted, nil
}

// respondError maps domain errors onto HTTP status codes
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case core.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case core.IsRoleResolutionError(err),
		core.IsCoefficientNotFoundError(err),
		core.IsInsufficientSamplesError(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case core.IsValidationError(err), errors.Is(err, core.ErrInvalidIntervalMass):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
