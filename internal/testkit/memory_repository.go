package testkit

import (
	"context"
	"sort"
	"sync"

	"github.com/Mattkaye3/sjstats/domain/core"
	"github.com/Mattkaye3/sjstats/models"
	"github.com/Mattkaye3/sjstats/ports"

	"github.com/google/uuid"
)

// InMemoryAnalysisRepository implements AnalysisRepository with a map.
// Safe for concurrent use.
type InMemoryAnalysisRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*models.AnalysisRecord
}

// NewInMemoryAnalysisRepository creates an empty in-memory repository
func NewInMemoryAnalysisRepository() *InMemoryAnalysisRepository {
	return &InMemoryAnalysisRepository{
		records: make(map[uuid.UUID]*models.AnalysisRecord),
	}
}

// SaveAnalysis stores a completed analysis
func (r *InMemoryAnalysisRepository) SaveAnalysis(ctx context.Context, record *models.AnalysisRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *record
	r.records[record.ID] = &stored
	return nil
}

// GetAnalysis retrieves an analysis by ID
func (r *InMemoryAnalysisRepository) GetAnalysis(ctx context.Context, id uuid.UUID) (*models.AnalysisRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[id]
	if !ok {
		return nil, core.NewNotFoundError("analysis", id.String())
	}
	found := *record
	return &found, nil
}

// ListAnalyses returns analyses ordered newest first, optionally limited
func (r *InMemoryAnalysisRepository) ListAnalyses(ctx context.Context, limit int) ([]*models.AnalysisRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*models.AnalysisRecord, 0, len(r.records))
	for _, record := range r.records {
		found := *record
		records = append(records, &found)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// DeleteAnalysis removes an analysis by ID
func (r *InMemoryAnalysisRepository) DeleteAnalysis(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return core.NewNotFoundError("analysis", id.String())
	}
	delete(r.records, id)
	return nil
}

// Ensure InMemoryAnalysisRepository implements the port
var _ ports.AnalysisRepository = (*InMemoryAnalysisRepository)(nil)
