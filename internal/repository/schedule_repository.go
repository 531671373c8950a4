package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/showrunner-hq/showrunner-api/internal/models"
)

// ScheduleRepository stores versioned shooting schedules. Versions are
// append-only; a regeneration or day-status change writes a new row.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// CreateVersion inserts the next schedule version for a project inside a
// transaction so the version number stays contiguous under concurrent writes.
func (r *ScheduleRepository) CreateVersion(ctx context.Context, record *models.ScheduleRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create schedule version: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current int
	if err = tx.GetContext(ctx, &current, `SELECT COALESCE(MAX(version), 0) FROM shooting_schedules WHERE project_id = $1`, record.ProjectID); err != nil {
		return fmt.Errorf("read current schedule version: %w", err)
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.Version = current + 1
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO shooting_schedules (id, project_id, version, mode, total_shoot_days, payload, generated_by, created_at)
		VALUES (:id, :project_id, :version, :mode, :total_shoot_days, :payload, :generated_by, :created_at)`
	if _, err = tx.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("insert schedule version: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create schedule version: %w", err)
	}
	return nil
}

// FindLatest returns the newest schedule version for a project.
func (r *ScheduleRepository) FindLatest(ctx context.Context, projectID string) (*models.ScheduleRecord, error) {
	const query = `SELECT id, project_id, version, mode, total_shoot_days, payload, generated_by, created_at
		FROM shooting_schedules WHERE project_id = $1 ORDER BY version DESC LIMIT 1`
	var record models.ScheduleRecord
	if err := r.db.GetContext(ctx, &record, query, projectID); err != nil {
		return nil, err
	}
	return &record, nil
}

// FindVersion loads one specific schedule version.
func (r *ScheduleRepository) FindVersion(ctx context.Context, projectID string, version int) (*models.ScheduleRecord, error) {
	const query = `SELECT id, project_id, version, mode, total_shoot_days, payload, generated_by, created_at
		FROM shooting_schedules WHERE project_id = $1 AND version = $2`
	var record models.ScheduleRecord
	if err := r.db.GetContext(ctx, &record, query, projectID, version); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListVersions returns version metadata for a project, newest first. Payloads
// are included; callers that only need headers can project them away.
func (r *ScheduleRepository) ListVersions(ctx context.Context, projectID string, limit int) ([]models.ScheduleRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := fmt.Sprintf(`SELECT id, project_id, version, mode, total_shoot_days, payload, generated_by, created_at
		FROM shooting_schedules WHERE project_id = $1 ORDER BY version DESC LIMIT %d`, limit)
	var records []models.ScheduleRecord
	if err := r.db.SelectContext(ctx, &records, query, projectID); err != nil {
		return nil, fmt.Errorf("list schedule versions: %w", err)
	}
	return records, nil
}
