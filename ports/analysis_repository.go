package ports

import (
	"context"

	"github.com/Mattkaye3/sjstats/models"

	"github.com/google/uuid"
)

// AnalysisRepository defines the interface for persisted mediation analyses
type AnalysisRepository interface {
	// SaveAnalysis stores a completed analysis
	SaveAnalysis(ctx context.Context, record *models.AnalysisRecord) error

	// GetAnalysis retrieves an analysis by ID
	GetAnalysis(ctx context.Context, id uuid.UUID) (*models.AnalysisRecord, error)

	// ListAnalyses returns analyses ordered newest first, optionally limited
	ListAnalyses(ctx context.Context, limit int) ([]*models.AnalysisRecord, error)

	// DeleteAnalysis removes an analysis by ID
	DeleteAnalysis(ctx context.Context, id uuid.UUID) error
}
