package dto

import "github.com/showrunner-hq/showrunner-api/internal/models"

// GenerateScheduleRequest starts a scheduling run for a project.
type GenerateScheduleRequest struct {
	ProjectID         string `json:"projectId" validate:"required"`
	Episodes          []int  `json:"episodes" validate:"required,min=1,dive,min=1"`
	Mode              string `json:"mode" validate:"omitempty,oneof=single-episode cross-episode"`
	RequestedBy       string `json:"requestedBy" validate:"omitempty,max=128"`
	DisableGenerative bool   `json:"disableGenerative"`
}

// GenerateScheduleResponse returns the stored schedule version plus the plan.
type GenerateScheduleResponse struct {
	ScheduleID string                   `json:"scheduleId"`
	Version    int                      `json:"version"`
	Schedule   *models.ShootingSchedule `json:"schedule"`
}

// UpdateDayStatusRequest changes one day's production status. The update is
// stored as a new schedule version.
type UpdateDayStatusRequest struct {
	DayNumber int    `json:"dayNumber" validate:"required,min=1"`
	Status    string `json:"status" validate:"required,oneof=scheduled confirmed shot postponed"`
	UpdatedBy string `json:"updatedBy" validate:"omitempty,max=128"`
}

// UpsertBreakdownRequest stores the scene breakdown for one episode.
type UpsertBreakdownRequest struct {
	Episode int            `json:"episode" validate:"required,min=1"`
	Scenes  []models.Scene `json:"scenes" validate:"required,min=1,dive"`
}

// UpsertLocationGroupRequest stores one location group with venue suggestions.
type UpsertLocationGroupRequest struct {
	Name            string                   `json:"name" validate:"required,max=256"`
	Scenes          []models.SceneKey        `json:"scenes" validate:"omitempty,dive"`
	Venues          []models.VenueSuggestion `json:"venues" validate:"omitempty,dive"`
	SelectedVenueID string                   `json:"selectedVenueId" validate:"omitempty,max=64"`
}

// SelectVenueRequest pins a venue suggestion for a location group.
type SelectVenueRequest struct {
	VenueID string `json:"venueId" validate:"required,max=64"`
}

// SuggestRehearsalsRequest asks for rehearsal proposals against the latest
// schedule version.
type SuggestRehearsalsRequest struct {
	ProjectID string `json:"projectId" validate:"required"`
	Episodes  []int  `json:"episodes" validate:"required,min=1,dive,min=1"`
}
