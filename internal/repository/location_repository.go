package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/showrunner-hq/showrunner-api/internal/models"
)

// LocationRepository persists location groups and their venue suggestions.
type LocationRepository struct {
	db *sqlx.DB
}

// NewLocationRepository creates a new location repository.
func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// Upsert stores a location group keyed by project and name.
func (r *LocationRepository) Upsert(ctx context.Context, record *models.LocationGroupRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	const query = `INSERT INTO location_groups (id, project_id, name, payload, created_at, updated_at)
		VALUES (:id, :project_id, :name, :payload, :created_at, :updated_at)
		ON CONFLICT (project_id, name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("upsert location group: %w", err)
	}
	return nil
}

// FindByID loads a location group by id.
func (r *LocationRepository) FindByID(ctx context.Context, id string) (*models.LocationGroupRecord, error) {
	const query = `SELECT id, project_id, name, payload, created_at, updated_at FROM location_groups WHERE id = $1`
	var record models.LocationGroupRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByProject returns all location groups for a project ordered by name.
func (r *LocationRepository) ListByProject(ctx context.Context, projectID string) ([]models.LocationGroupRecord, error) {
	const query = `SELECT id, project_id, name, payload, created_at, updated_at FROM location_groups WHERE project_id = $1 ORDER BY name ASC`
	var records []models.LocationGroupRecord
	if err := r.db.SelectContext(ctx, &records, query, projectID); err != nil {
		return nil, fmt.Errorf("list location groups: %w", err)
	}
	return records, nil
}

// Delete removes a location group by id.
func (r *LocationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM location_groups WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete location group: %w", err)
	}
	return nil
}
