package service

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/showrunner-hq/showrunner-api/internal/dto"
	"github.com/showrunner-hq/showrunner-api/internal/models"
	appErrors "github.com/showrunner-hq/showrunner-api/pkg/errors"
)

type breakdownRepository interface {
	Upsert(ctx context.Context, record *models.EpisodeBreakdownRecord) error
	FindByEpisode(ctx context.Context, projectID string, episode int) (*models.EpisodeBreakdownRecord, error)
	ListByProject(ctx context.Context, projectID string) ([]models.EpisodeBreakdownRecord, error)
	Delete(ctx context.Context, projectID string, episode int) error
}

// BreakdownService manages per-episode scene breakdowns.
type BreakdownService struct {
	repo      breakdownRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBreakdownService wires the breakdown service.
func NewBreakdownService(repo breakdownRepository, validate *validator.Validate, logger *zap.Logger) *BreakdownService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BreakdownService{repo: repo, validator: validate, logger: logger}
}

// Upsert stores or replaces the breakdown for one episode.
func (s *BreakdownService) Upsert(ctx context.Context, projectID string, req dto.UpsertBreakdownRequest) (*models.EpisodeBreakdownRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid breakdown payload")
	}

	breakdown := models.EpisodeBreakdown{Episode: req.Episode, Scenes: req.Scenes}
	payload, err := json.Marshal(breakdown)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode breakdown failed")
	}

	record := &models.EpisodeBreakdownRecord{
		ProjectID: projectID,
		Episode:   req.Episode,
		Payload:   types.JSONText(payload),
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "store breakdown failed")
	}
	s.logger.Info("breakdown stored",
		zap.String("project_id", projectID),
		zap.Int("episode", req.Episode),
		zap.Int("scenes", len(req.Scenes)),
	)
	return record, nil
}

// Get returns the decoded breakdown for one episode.
func (s *BreakdownService) Get(ctx context.Context, projectID string, episode int) (*models.EpisodeBreakdown, error) {
	record, err := s.repo.FindByEpisode(ctx, projectID, episode)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "breakdown not found")
	}
	var breakdown models.EpisodeBreakdown
	if err := json.Unmarshal(record.Payload, &breakdown); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored breakdown is unreadable")
	}
	breakdown.Episode = record.Episode
	return &breakdown, nil
}

// List returns all breakdowns for a project ordered by episode.
func (s *BreakdownService) List(ctx context.Context, projectID string) ([]models.EpisodeBreakdown, error) {
	records, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list breakdowns failed")
	}
	breakdowns := make([]models.EpisodeBreakdown, 0, len(records))
	for _, record := range records {
		var breakdown models.EpisodeBreakdown
		if err := json.Unmarshal(record.Payload, &breakdown); err != nil {
			s.logger.Warn("skipping unreadable breakdown", zap.String("id", record.ID), zap.Error(err))
			continue
		}
		breakdown.Episode = record.Episode
		breakdowns = append(breakdowns, breakdown)
	}
	return breakdowns, nil
}

// Delete removes the breakdown for one episode.
func (s *BreakdownService) Delete(ctx context.Context, projectID string, episode int) error {
	if err := s.repo.Delete(ctx, projectID, episode); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "delete breakdown failed")
	}
	return nil
}
