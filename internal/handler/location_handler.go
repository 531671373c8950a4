package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/showrunner-hq/showrunner-api/internal/dto"
	"github.com/showrunner-hq/showrunner-api/internal/models"
	appErrors "github.com/showrunner-hq/showrunner-api/pkg/errors"
	"github.com/showrunner-hq/showrunner-api/pkg/response"
)

type locationManager interface {
	Upsert(ctx context.Context, projectID string, req dto.UpsertLocationGroupRequest) (*models.LocationGroup, error)
	SelectVenue(ctx context.Context, id string, req dto.SelectVenueRequest) (*models.LocationGroup, error)
	List(ctx context.Context, projectID string) ([]models.LocationGroup, error)
	Delete(ctx context.Context, id string) error
}

// LocationHandler exposes location group endpoints.
type LocationHandler struct {
	service locationManager
}

// NewLocationHandler constructs the handler.
func NewLocationHandler(svc locationManager) *LocationHandler {
	return &LocationHandler{service: svc}
}

// Upsert godoc
// @Summary Store or replace a location group
// @Tags Locations
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param payload body dto.UpsertLocationGroupRequest true "Location group payload"
// @Success 201 {object} response.Envelope
// @Router /projects/{projectId}/locations [put]
func (h *LocationHandler) Upsert(c *gin.Context) {
	var req dto.UpsertLocationGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid location group payload"))
		return
	}
	group, err := h.service.Upsert(c.Request.Context(), c.Param("projectId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, group)
}

// SelectVenue godoc
// @Summary Pin a venue suggestion for a location group
// @Tags Locations
// @Accept json
// @Produce json
// @Param id path string true "Location group ID"
// @Param payload body dto.SelectVenueRequest true "Venue selection payload"
// @Success 200 {object} response.Envelope
// @Router /locations/{id}/venue [put]
func (h *LocationHandler) SelectVenue(c *gin.Context) {
	var req dto.SelectVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid venue selection payload"))
		return
	}
	group, err := h.service.SelectVenue(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, group, nil)
}

// List godoc
// @Summary List location groups for a project
// @Tags Locations
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} response.Envelope
// @Router /projects/{projectId}/locations [get]
func (h *LocationHandler) List(c *gin.Context) {
	groups, err := h.service.List(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, nil)
}

// Delete godoc
// @Summary Delete a location group
// @Tags Locations
// @Param id path string true "Location group ID"
// @Success 204
// @Router /locations/{id} [delete]
func (h *LocationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
