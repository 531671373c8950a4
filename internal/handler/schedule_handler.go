package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/showrunner-hq/showrunner-api/internal/dto"
	"github.com/showrunner-hq/showrunner-api/internal/models"
	"github.com/showrunner-hq/showrunner-api/internal/service"
	appErrors "github.com/showrunner-hq/showrunner-api/pkg/errors"
	"github.com/showrunner-hq/showrunner-api/pkg/response"
)

type scheduleOrchestrator interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
	Latest(ctx context.Context, projectID string) (*models.ShootingSchedule, int, error)
	Version(ctx context.Context, projectID string, version int) (*models.ShootingSchedule, error)
	History(ctx context.Context, projectID string, limit int) ([]models.ScheduleRecord, error)
	UpdateDayStatus(ctx context.Context, projectID string, req dto.UpdateDayStatusRequest) (*models.ShootingSchedule, error)
	SuggestRehearsals(ctx context.Context, req dto.SuggestRehearsalsRequest) ([]models.RehearsalSession, error)
}

// ScheduleHandler exposes schedule generation and lifecycle endpoints.
type ScheduleHandler struct {
	service scheduleOrchestrator
	exports *service.ExportService
}

// NewScheduleHandler constructs the handler. exports may be nil when the
// export feature is disabled.
func NewScheduleHandler(svc scheduleOrchestrator, exports *service.ExportService) *ScheduleHandler {
	return &ScheduleHandler{service: svc, exports: exports}
}

// Generate godoc
// @Summary Generate a shooting schedule
// @Description Runs a full scheduling pass for the requested episodes and stores the result as a new version.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param payload body dto.GenerateScheduleRequest true "Generate schedule payload"
// @Success 201 {object} response.Envelope
// @Router /projects/{projectId}/schedule/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	req.ProjectID = c.Param("projectId")
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Latest godoc
// @Summary Get the latest schedule version
// @Tags Schedule
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} response.Envelope
// @Router /projects/{projectId}/schedule [get]
func (h *ScheduleHandler) Latest(c *gin.Context) {
	schedule, version, err := h.service.Latest(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := map[string]interface{}{}
	if version > 0 {
		meta["version"] = version
	}
	response.JSON(c, http.StatusOK, schedule, nil, meta)
}

// Version godoc
// @Summary Get one stored schedule version
// @Tags Schedule
// @Produce json
// @Param projectId path string true "Project ID"
// @Param version path int true "Schedule version"
// @Success 200 {object} response.Envelope
// @Router /projects/{projectId}/schedule/versions/{version} [get]
func (h *ScheduleHandler) Version(c *gin.Context) {
	version, err := strconv.Atoi(c.Param("version"))
	if err != nil || version < 1 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "version must be a positive integer"))
		return
	}
	schedule, err := h.service.Version(c.Request.Context(), c.Param("projectId"), version)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// History godoc
// @Summary List schedule versions, newest first
// @Tags Schedule
// @Produce json
// @Param projectId path string true "Project ID"
// @Param limit query int false "Max versions to return"
// @Success 200 {object} response.Envelope
// @Router /projects/{projectId}/schedule/versions [get]
func (h *ScheduleHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	records, err := h.service.History(c.Request.Context(), c.Param("projectId"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// UpdateDayStatus godoc
// @Summary Update the status of one shoot day
// @Description Stores the change as a new schedule version; prior versions are never mutated.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param dayNumber path int true "Day number"
// @Param payload body dto.UpdateDayStatusRequest true "Day status payload"
// @Success 200 {object} response.Envelope
// @Router /projects/{projectId}/schedule/days/{dayNumber}/status [patch]
func (h *ScheduleHandler) UpdateDayStatus(c *gin.Context) {
	var req dto.UpdateDayStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid day status payload"))
		return
	}
	dayNumber, err := strconv.Atoi(c.Param("dayNumber"))
	if err != nil || dayNumber < 1 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "dayNumber must be a positive integer"))
		return
	}
	req.DayNumber = dayNumber
	schedule, err := h.service.UpdateDayStatus(c.Request.Context(), c.Param("projectId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// SuggestRehearsals godoc
// @Summary Suggest rehearsal sessions for the latest schedule
// @Description Suggestions are advisory; an empty list is a valid response.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param payload body dto.SuggestRehearsalsRequest true "Rehearsal suggestion payload"
// @Success 200 {object} response.Envelope
// @Router /projects/{projectId}/rehearsals/suggestions [post]
func (h *ScheduleHandler) SuggestRehearsals(c *gin.Context) {
	var req dto.SuggestRehearsalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid rehearsal payload"))
		return
	}
	req.ProjectID = c.Param("projectId")
	sessions, err := h.service.SuggestRehearsals(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if sessions == nil {
		sessions = []models.RehearsalSession{}
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// ExportCallSheets godoc
// @Summary Export call sheets for the latest schedule
// @Tags Schedule
// @Produce octet-stream
// @Param projectId path string true "Project ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /projects/{projectId}/schedule/call-sheets [get]
func (h *ScheduleHandler) ExportCallSheets(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrExportsDisabled, ""))
		return
	}
	projectID := c.Param("projectId")
	schedule, _, err := h.service.Latest(c.Request.Context(), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exports.CallSheets(projectID, schedule, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.URL != "" {
		c.Header("X-Download-URL", result.URL)
	}
	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// DownloadExport godoc
// @Summary Download a previously rendered call sheet file by token
// @Tags Schedule
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Router /exports/{token} [get]
func (h *ScheduleHandler) DownloadExport(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrExportsDisabled, ""))
		return
	}
	_, relPath, _, err := h.exports.ParseToken(c.Param("token"), false)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid download token"))
		return
	}
	file, err := h.exports.Open(relPath)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export file not found"))
		return
	}
	defer file.Close()
	c.Header("Content-Disposition", "attachment; filename="+relPath)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}
