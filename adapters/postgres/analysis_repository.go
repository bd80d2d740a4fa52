package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Mattkaye3/sjstats/domain/core"
	"github.com/Mattkaye3/sjstats/models"
	"github.com/Mattkaye3/sjstats/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AnalysisRepositoryImpl implements AnalysisRepository for PostgreSQL
type AnalysisRepositoryImpl struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates a new PostgreSQL analysis repository
func NewAnalysisRepository(db *sqlx.DB) ports.AnalysisRepository {
	return &AnalysisRepositoryImpl{db: db}
}

// SaveAnalysis stores a completed analysis
func (r *AnalysisRepositoryImpl) SaveAnalysis(ctx context.Context, record *models.AnalysisRecord) error {
	// JSONBDocument implements driver.Valuer, so it converts automatically
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO analyses (id, model_name, source_hash, treatment, mediator, response, interval_mass, typical, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, record.ID, record.ModelName, record.SourceHash, record.Treatment, record.Mediator,
		record.Response, record.IntervalMass, record.Typical, record.Result, record.CreatedAt)
	return err
}

// GetAnalysis retrieves an analysis by ID
func (r *AnalysisRepositoryImpl) GetAnalysis(ctx context.Context, id uuid.UUID) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	err := r.db.GetContext(ctx, &record, `
		SELECT id, model_name, source_hash, treatment, mediator, response, interval_mass, typical, result, created_at
		FROM analyses
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NewNotFoundError("analysis", id.String())
		}
		return nil, err
	}
	return &record, nil
}

// ListAnalyses returns analyses ordered newest first, optionally limited
func (r *AnalysisRepositoryImpl) ListAnalyses(ctx context.Context, limit int) ([]*models.AnalysisRecord, error) {
	query := `
		SELECT id, model_name, source_hash, treatment, mediator, response, interval_mass, typical, result, created_at
		FROM analyses
		ORDER BY created_at DESC
	`

	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.AnalysisRecord
	for rows.Next() {
		var record models.AnalysisRecord
		err := rows.Scan(
			&record.ID,
			&record.ModelName,
			&record.SourceHash,
			&record.Treatment,
			&record.Mediator,
			&record.Response,
			&record.IntervalMass,
			&record.Typical,
			&record.Result,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}

// DeleteAnalysis removes an analysis by ID
func (r *AnalysisRepositoryImpl) DeleteAnalysis(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return core.NewNotFoundError("analysis", id.String())
	}
	return nil
}
