package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/showrunner-hq/showrunner-api/internal/models"
)

// BreakdownRepository persists per-episode scene breakdowns.
type BreakdownRepository struct {
	db *sqlx.DB
}

// NewBreakdownRepository creates a new breakdown repository.
func NewBreakdownRepository(db *sqlx.DB) *BreakdownRepository {
	return &BreakdownRepository{db: db}
}

// Upsert stores the breakdown for an episode, replacing a prior one.
func (r *BreakdownRepository) Upsert(ctx context.Context, record *models.EpisodeBreakdownRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	const query = `INSERT INTO episode_breakdowns (id, project_id, episode, payload, created_at, updated_at)
		VALUES (:id, :project_id, :episode, :payload, :created_at, :updated_at)
		ON CONFLICT (project_id, episode) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("upsert breakdown: %w", err)
	}
	return nil
}

// FindByEpisode loads the breakdown stored for one episode of a project.
func (r *BreakdownRepository) FindByEpisode(ctx context.Context, projectID string, episode int) (*models.EpisodeBreakdownRecord, error) {
	const query = `SELECT id, project_id, episode, payload, created_at, updated_at FROM episode_breakdowns WHERE project_id = $1 AND episode = $2`
	var record models.EpisodeBreakdownRecord
	if err := r.db.GetContext(ctx, &record, query, projectID, episode); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByProject returns all breakdowns for a project ordered by episode.
func (r *BreakdownRepository) ListByProject(ctx context.Context, projectID string) ([]models.EpisodeBreakdownRecord, error) {
	const query = `SELECT id, project_id, episode, payload, created_at, updated_at FROM episode_breakdowns WHERE project_id = $1 ORDER BY episode ASC`
	var records []models.EpisodeBreakdownRecord
	if err := r.db.SelectContext(ctx, &records, query, projectID); err != nil {
		return nil, fmt.Errorf("list breakdowns: %w", err)
	}
	return records, nil
}

// Delete removes the breakdown for one episode.
func (r *BreakdownRepository) Delete(ctx context.Context, projectID string, episode int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM episode_breakdowns WHERE project_id = $1 AND episode = $2`, projectID, episode); err != nil {
		return fmt.Errorf("delete breakdown: %w", err)
	}
	return nil
}
