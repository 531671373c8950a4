package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/showrunner-hq/showrunner-api/internal/dto"
	"github.com/showrunner-hq/showrunner-api/internal/models"
	"github.com/showrunner-hq/showrunner-api/internal/scheduler"
	appErrors "github.com/showrunner-hq/showrunner-api/pkg/errors"
	"github.com/showrunner-hq/showrunner-api/pkg/jobs"
)

const rehearsalJobType = "rehearsal-suggestions"

type breakdownReader interface {
	ListByProject(ctx context.Context, projectID string) ([]models.EpisodeBreakdownRecord, error)
}

type locationReader interface {
	ListByProject(ctx context.Context, projectID string) ([]models.LocationGroupRecord, error)
}

type scheduleStore interface {
	CreateVersion(ctx context.Context, record *models.ScheduleRecord) error
	FindLatest(ctx context.Context, projectID string) (*models.ScheduleRecord, error)
	FindVersion(ctx context.Context, projectID string, version int) (*models.ScheduleRecord, error)
	ListVersions(ctx context.Context, projectID string, limit int) ([]models.ScheduleRecord, error)
}

type scheduleEngine interface {
	Generate(ctx context.Context, in scheduler.Input) (*models.ShootingSchedule, error)
	SuggestRehearsals(ctx context.Context, schedule *models.ShootingSchedule, in scheduler.Input) []models.RehearsalSession
}

type rehearsalEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// rehearsalJobPayload is what the background queue carries per suggestion run.
type rehearsalJobPayload struct {
	ProjectID string
	Episodes  []int
}

// ScheduleService orchestrates schedule generation: it loads production data,
// runs the scheduling engine, persists the result as a new version, and keeps
// the latest-version cache and rehearsal suggestions up to date.
type ScheduleService struct {
	breakdowns breakdownReader
	locations  locationReader
	schedules  scheduleStore
	engine     scheduleEngine
	cache      *CacheService
	queue      rehearsalEnqueuer
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	cacheTTL   time.Duration
}

// NewScheduleService wires the schedule service. cache, queue, and metrics
// may be nil; the service degrades to synchronous, uncached behaviour.
func NewScheduleService(
	breakdowns breakdownReader,
	locations locationReader,
	schedules scheduleStore,
	engine scheduleEngine,
	cache *CacheService,
	queue rehearsalEnqueuer,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &ScheduleService{
		breakdowns: breakdowns,
		locations:  locations,
		schedules:  schedules,
		engine:     engine,
		cache:      cache,
		queue:      queue,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		cacheTTL:   cacheTTL,
	}
}

// SetQueue attaches the rehearsal job queue. The queue's handler is this
// service, so wiring happens in two steps at startup.
func (s *ScheduleService) SetQueue(queue rehearsalEnqueuer) {
	s.queue = queue
}

// Generate runs a full scheduling pass and stores the result as the next
// schedule version for the project.
func (s *ScheduleService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate payload")
	}

	in, err := s.loadInput(ctx, req.ProjectID, req.Episodes, resolveMode(req.Mode, req.Episodes))
	if err != nil {
		return nil, err
	}
	in.DeterministicOnly = req.DisableGenerative

	schedule, err := s.engine.Generate(ctx, in)
	if err != nil {
		var missing *scheduler.MissingBreakdownError
		if errors.As(err, &missing) {
			return nil, appErrors.Clone(appErrors.ErrMissingBreakdown, fmt.Sprintf("episode %d has no scene breakdown", missing.Episode))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "schedule generation failed")
	}
	schedule.UpdatedBy = req.RequestedBy
	s.metrics.RecordScheduleRun()

	record, err := s.persistVersion(ctx, req.ProjectID, schedule, generatedByLabel(req))
	if err != nil {
		return nil, err
	}

	s.cacheLatest(ctx, req.ProjectID, schedule)
	s.enqueueRehearsals(req.ProjectID, req.Episodes)

	return &dto.GenerateScheduleResponse{
		ScheduleID: record.ID,
		Version:    record.Version,
		Schedule:   schedule,
	}, nil
}

// Latest returns the newest schedule version for a project, served from cache
// when possible. The version is zero for cache hits.
func (s *ScheduleService) Latest(ctx context.Context, projectID string) (*models.ShootingSchedule, int, error) {
	var cached models.ShootingSchedule
	if hit, _ := s.cache.Get(ctx, latestCacheKey(projectID), &cached); hit {
		return &cached, 0, nil
	}

	record, err := s.schedules.FindLatest(ctx, projectID)
	if err != nil {
		return nil, 0, appErrors.Clone(appErrors.ErrNoSchedule, "")
	}
	schedule, err := decodeSchedule(record.Payload)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored schedule is unreadable")
	}
	s.cacheLatest(ctx, projectID, schedule)
	return schedule, record.Version, nil
}

// Version returns one stored schedule version.
func (s *ScheduleService) Version(ctx context.Context, projectID string, version int) (*models.ShootingSchedule, error) {
	record, err := s.schedules.FindVersion(ctx, projectID, version)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("schedule version %d not found", version))
	}
	schedule, err := decodeSchedule(record.Payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored schedule is unreadable")
	}
	return schedule, nil
}

// History lists version metadata for a project, newest first.
func (s *ScheduleService) History(ctx context.Context, projectID string, limit int) ([]models.ScheduleRecord, error) {
	records, err := s.schedules.ListVersions(ctx, projectID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list schedule versions failed")
	}
	return records, nil
}

// UpdateDayStatus changes one day's status and stores the result as a new
// schedule version. The prior version stays untouched.
func (s *ScheduleService) UpdateDayStatus(ctx context.Context, projectID string, req dto.UpdateDayStatusRequest) (*models.ShootingSchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid day status payload")
	}

	record, err := s.schedules.FindLatest(ctx, projectID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNoSchedule, "")
	}
	schedule, err := decodeSchedule(record.Payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored schedule is unreadable")
	}

	updated := false
	for i := range schedule.Days {
		if schedule.Days[i].DayNumber == req.DayNumber {
			schedule.Days[i].Status = models.DayStatus(req.Status)
			updated = true
			break
		}
	}
	if !updated {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("day %d not found in schedule", req.DayNumber))
	}
	schedule.UpdatedAt = time.Now().UTC()
	schedule.UpdatedBy = req.UpdatedBy

	if _, err := s.persistVersion(ctx, projectID, schedule, "status-update"); err != nil {
		return nil, err
	}
	s.cacheLatest(ctx, projectID, schedule)
	return schedule, nil
}

// SuggestRehearsals computes rehearsal suggestions against the latest
// schedule. Results are cached; suggestions are advisory and may be empty.
func (s *ScheduleService) SuggestRehearsals(ctx context.Context, req dto.SuggestRehearsalsRequest) ([]models.RehearsalSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rehearsal payload")
	}

	var cached []models.RehearsalSession
	if hit, _ := s.cache.Get(ctx, rehearsalCacheKey(req.ProjectID), &cached); hit {
		return cached, nil
	}

	schedule, _, err := s.Latest(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	in, err := s.loadInput(ctx, req.ProjectID, req.Episodes, resolveMode("", req.Episodes))
	if err != nil {
		return nil, err
	}

	sessions := s.engine.SuggestRehearsals(ctx, schedule, in)
	if len(sessions) > 0 {
		_ = s.cache.Set(ctx, rehearsalCacheKey(req.ProjectID), sessions, s.cacheTTL)
	}
	return sessions, nil
}

// HandleRehearsalJob is the queue handler for background suggestion runs.
func (s *ScheduleService) HandleRehearsalJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(rehearsalJobPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type for job %s", job.ID)
	}
	_, err := s.SuggestRehearsals(ctx, dto.SuggestRehearsalsRequest{
		ProjectID: payload.ProjectID,
		Episodes:  payload.Episodes,
	})
	return err
}

func (s *ScheduleService) loadInput(ctx context.Context, projectID string, episodes []int, mode models.ScheduleMode) (scheduler.Input, error) {
	records, err := s.breakdowns.ListByProject(ctx, projectID)
	if err != nil {
		return scheduler.Input{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load breakdowns failed")
	}
	breakdowns := make(map[int]models.EpisodeBreakdown, len(records))
	for _, record := range records {
		var breakdown models.EpisodeBreakdown
		if err := json.Unmarshal(record.Payload, &breakdown); err != nil {
			return scheduler.Input{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
				fmt.Sprintf("stored breakdown for episode %d is unreadable", record.Episode))
		}
		breakdown.Episode = record.Episode
		breakdowns[record.Episode] = breakdown
	}

	groups, err := s.loadLocationGroups(ctx, projectID)
	if err != nil {
		return scheduler.Input{}, err
	}

	return scheduler.Input{
		Mode:           mode,
		Episodes:       episodes,
		Breakdowns:     breakdowns,
		LocationGroups: groups,
	}, nil
}

func (s *ScheduleService) loadLocationGroups(ctx context.Context, projectID string) ([]models.LocationGroup, error) {
	records, err := s.locations.ListByProject(ctx, projectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load location groups failed")
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

func (s *ScheduleService) persistVersion(ctx context.Context, projectID string, schedule *models.ShootingSchedule, generatedBy string) (*models.ScheduleRecord, error) {
	payload, err := json.Marshal(schedule)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode schedule failed")
	}
	record := &models.ScheduleRecord{
		ProjectID:      projectID,
		Mode:           string(schedule.Mode),
		TotalShootDays: schedule.TotalShootDays,
		Payload:        types.JSONText(payload),
		GeneratedBy:    generatedBy,
	}
	if err := s.schedules.CreateVersion(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "store schedule failed")
	}
	return record, nil
}

func (s *ScheduleService) cacheLatest(ctx context.Context, projectID string, schedule *models.ShootingSchedule) {
	_ = s.cache.Set(ctx, latestCacheKey(projectID), schedule, s.cacheTTL)
	_ = s.cache.Invalidate(ctx, rehearsalCacheKey(projectID))
}

func (s *ScheduleService) enqueueRehearsals(projectID string, episodes []int) {
	if s.queue == nil {
		return
	}
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    rehearsalJobType,
		Payload: rehearsalJobPayload{ProjectID: projectID, Episodes: episodes},
	})
	if err != nil {
		s.logger.Warn("rehearsal job enqueue failed", zap.String("project_id", projectID), zap.Error(err))
	}
}

func resolveMode(raw string, episodes []int) models.ScheduleMode {
	if raw != "" {
		return models.ScheduleMode(raw)
	}
	if len(episodes) > 1 {
		return models.ScheduleModeCrossEpisode
	}
	return models.ScheduleModeSingleEpisode
}

func generatedByLabel(req dto.GenerateScheduleRequest) string {
	if req.RequestedBy != "" {
		return req.RequestedBy
	}
	return "api"
}

func decodeSchedule(payload types.JSONText) (*models.ShootingSchedule, error) {
	var schedule models.ShootingSchedule
	if err := json.Unmarshal(payload, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func latestCacheKey(projectID string) string {
	return "schedule:latest:" + projectID
}

func rehearsalCacheKey(projectID string) string {
	return "rehearsals:" + projectID
}
