package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/showrunner-hq/showrunner-api/internal/dto"
	"github.com/showrunner-hq/showrunner-api/internal/models"
	appErrors "github.com/showrunner-hq/showrunner-api/pkg/errors"
	"github.com/showrunner-hq/showrunner-api/pkg/response"
)

type breakdownManager interface {
	Upsert(ctx context.Context, projectID string, req dto.UpsertBreakdownRequest) (*models.EpisodeBreakdownRecord, error)
	Get(ctx context.Context, projectID string, episode int) (*models.EpisodeBreakdown, error)
	List(ctx context.Context, projectID string) ([]models.EpisodeBreakdown, error)
	Delete(ctx context.Context, projectID string, episode int) error
}

// BreakdownHandler exposes episode breakdown endpoints.
type BreakdownHandler struct {
	service breakdownManager
}

// NewBreakdownHandler constructs the handler.
func NewBreakdownHandler(svc breakdownManager) *BreakdownHandler {
	return &BreakdownHandler{service: svc}
}

// Upsert godoc
// @Summary Store or replace the scene breakdown for an episode
// @Tags Breakdowns
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param payload body dto.UpsertBreakdownRequest true "Breakdown payload"
// @Success 201 {object} response.Envelope
// @Router /projects/{projectId}/breakdowns [put]
func (h *BreakdownHandler) Upsert(c *gin.Context) {
	var req dto.UpsertBreakdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid breakdown payload"))
		return
	}
	record, err := h.service.Upsert(c.Request.Context(), c.Param("projectId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"id": record.ID, "episode": record.Episode})
}

// Get godoc
// @Summary Get the breakdown for one episode
// @Tags Breakdowns
// @Produce json
// @Param projectId path string true "Project ID"
// @Param episode path int true "Episode number"
// @Success 200 {object} response.Envelope
// @Router /projects/{projectId}/breakdowns/{episode} [get]
func (h *BreakdownHandler) Get(c *gin.Context) {
	episode, err := strconv.Atoi(c.Param("episode"))
	if err != nil || episode < 1 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "episode must be a positive integer"))
		return
	}
	breakdown, err := h.service.Get(c.Request.Context(), c.Param("projectId"), episode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, breakdown, nil)
}

// List godoc
// @Summary List all episode breakdowns for a project
// @Tags Breakdowns
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} response.Envelope
// @Router /projects/{projectId}/breakdowns [get]
func (h *BreakdownHandler) List(c *gin.Context) {
	breakdowns, err := h.service.List(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, breakdowns, nil)
}

// Delete godoc
// @Summary Delete the breakdown for one episode
// @Tags Breakdowns
// @Param projectId path string true "Project ID"
// @Param episode path int true "Episode number"
// @Success 204
// @Router /projects/{projectId}/breakdowns/{episode} [delete]
func (h *BreakdownHandler) Delete(c *gin.Context) {
	episode, err := strconv.Atoi(c.Param("episode"))
	if err != nil || episode < 1 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "episode must be a positive integer"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.Param("projectId"), episode); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
