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

type locationRepository interface {
	Upsert(ctx context.Context, record *models.LocationGroupRecord) error
	FindByID(ctx context.Context, id string) (*models.LocationGroupRecord, error)
	ListByProject(ctx context.Context, projectID string) ([]models.LocationGroupRecord, error)
	Delete(ctx context.Context, id string) error
}

// LocationService manages location groups and venue selection.
type LocationService struct {
	repo      locationRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLocationService wires the location service.
func NewLocationService(repo locationRepository, validate *validator.Validate, logger *zap.Logger) *LocationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocationService{repo: repo, validator: validate, logger: logger}
}

// Upsert stores or replaces a location group, keyed by project and name.
func (s *LocationService) Upsert(ctx context.Context, projectID string, req dto.UpsertLocationGroupRequest) (*models.LocationGroup, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid location group payload")
	}
	if req.SelectedVenueID != "" && !venueExists(req.Venues, req.SelectedVenueID) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "selectedVenueId does not match any venue suggestion")
	}

	group := models.LocationGroup{
		Name:            req.Name,
		Scenes:          req.Scenes,
		Venues:          req.Venues,
		SelectedVenueID: req.SelectedVenueID,
	}
	record, err := s.store(ctx, projectID, &group)
	if err != nil {
		return nil, err
	}
	group.ID = record.ID
	return &group, nil
}

// SelectVenue pins one venue suggestion for a location group.
func (s *LocationService) SelectVenue(ctx context.Context, id string, req dto.SelectVenueRequest) (*models.LocationGroup, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid venue selection payload")
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "location group not found")
	}
	var group models.LocationGroup
	if err := json.Unmarshal(record.Payload, &group); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored location group is unreadable")
	}
	if !venueExists(group.Venues, req.VenueID) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "venueId does not match any venue suggestion")
	}

	group.Name = record.Name
	group.SelectedVenueID = req.VenueID
	if _, err := s.store(ctx, record.ProjectID, &group); err != nil {
		return nil, err
	}
	group.ID = record.ID
	return &group, nil
}

// List returns all location groups for a project.
func (s *LocationService) List(ctx context.Context, projectID string) ([]models.LocationGroup, error) {
	records, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list location groups failed")
	}
	groups := make([]models.LocationGroup, 0, len(records))
	for _, record := range records {
		var group models.LocationGroup
		if err := json.Unmarshal(record.Payload, &group); err != nil {
			s.logger.Warn("skipping unreadable location group", zap.String("id", record.ID), zap.Error(err))
			continue
		}
		group.ID = record.ID
		group.Name = record.Name
		groups = append(groups, group)
	}
	return groups, nil
}

// Delete removes a location group by id.
func (s *LocationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "delete location group failed")
	}
	return nil
}

func (s *LocationService) store(ctx context.Context, projectID string, group *models.LocationGroup) (*models.LocationGroupRecord, error) {
	payload, err := json.Marshal(group)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode location group failed")
	}
	record := &models.LocationGroupRecord{
		ProjectID: projectID,
		Name:      group.Name,
		Payload:   types.JSONText(payload),
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "store location group failed")
	}
	return record, nil
}

func venueExists(venues []models.VenueSuggestion, id string) bool {
	for _, venue := range venues {
		if venue.ID == id {
			return true
		}
	}
	return false
}
