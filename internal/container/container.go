package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Mattkaye3/sjstats/adapters/brmsfile"
	"github.com/Mattkaye3/sjstats/adapters/postgres"
	"github.com/Mattkaye3/sjstats/app"
	"github.com/Mattkaye3/sjstats/internal"
	"github.com/Mattkaye3/sjstats/internal/config"
	"github.com/Mattkaye3/sjstats/internal/report"
	"github.com/Mattkaye3/sjstats/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Data access
	AnalysisRepo ports.AnalysisRepository

	// Model loading
	ModelLoader ports.ModelLoader

	// Services
	MediationService *app.MediationService
	SummaryService   *app.SummaryService
	Renderer         *report.Renderer
}

// New creates a dependency injection container. Analyses are not persisted
// until InitWithDatabase wires a repository in.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config:      cfg,
		Logger:      internal.NewDefaultLogger(),
		ModelLoader: brmsfile.NewLoader(),
		Renderer:    report.NewRenderer(report.Config{Digits: cfg.Report.Digits}),
	}
	c.initServices()

	return c, nil
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	c.DB = db

	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.AnalysisRepo = postgres.NewAnalysisRepository(db)
	c.initServices()

	c.Logger.Info("container initialized with database connection")
	return nil
}

// initServices builds the services against the current repository wiring
func (c *Container) initServices() {
	c.MediationService = app.NewMediationService(c.AnalysisRepo)
	c.SummaryService = app.NewSummaryService()
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	c.Logger.Sync()
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
