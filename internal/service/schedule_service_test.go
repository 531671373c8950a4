package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showrunner-hq/showrunner-api/internal/dto"
	"github.com/showrunner-hq/showrunner-api/internal/models"
	"github.com/showrunner-hq/showrunner-api/internal/scheduler"
	appErrors "github.com/showrunner-hq/showrunner-api/pkg/errors"
	"github.com/showrunner-hq/showrunner-api/pkg/jobs"
)

type stubBreakdownReader struct {
	records []models.EpisodeBreakdownRecord
	err     error
}

func (s *stubBreakdownReader) ListByProject(_ context.Context, _ string) ([]models.EpisodeBreakdownRecord, error) {
	return s.records, s.err
}

type stubLocationReader struct {
	records []models.LocationGroupRecord
	err     error
}

func (s *stubLocationReader) ListByProject(_ context.Context, _ string) ([]models.LocationGroupRecord, error) {
	return s.records, s.err
}

type stubScheduleStore struct {
	records   []models.ScheduleRecord
	createErr error
}

func (s *stubScheduleStore) CreateVersion(_ context.Context, record *models.ScheduleRecord) error {
	if s.createErr != nil {
		return s.createErr
	}
	record.ID = fmt.Sprintf("sched-%d", len(s.records)+1)
	record.Version = len(s.records) + 1
	record.CreatedAt = time.Now()
	s.records = append(s.records, *record)
	return nil
}

func (s *stubScheduleStore) FindLatest(_ context.Context, _ string) (*models.ScheduleRecord, error) {
	if len(s.records) == 0 {
		return nil, fmt.Errorf("no rows")
	}
	record := s.records[len(s.records)-1]
	return &record, nil
}

func (s *stubScheduleStore) FindVersion(_ context.Context, _ string, version int) (*models.ScheduleRecord, error) {
	for _, record := range s.records {
		if record.Version == version {
			return &record, nil
		}
	}
	return nil, fmt.Errorf("no rows")
}

func (s *stubScheduleStore) ListVersions(_ context.Context, _ string, limit int) ([]models.ScheduleRecord, error) {
	out := make([]models.ScheduleRecord, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

type stubScheduleEngine struct {
	schedule   *models.ShootingSchedule
	err        error
	rehearsals []models.RehearsalSession

	generateCalls int
	suggestCalls  int
	lastInput     scheduler.Input
}

func (s *stubScheduleEngine) Generate(_ context.Context, in scheduler.Input) (*models.ShootingSchedule, error) {
	s.generateCalls++
	s.lastInput = in
	if s.err != nil {
		return nil, s.err
	}
	clone := *s.schedule
	return &clone, nil
}

func (s *stubScheduleEngine) SuggestRehearsals(_ context.Context, _ *models.ShootingSchedule, in scheduler.Input) []models.RehearsalSession {
	s.suggestCalls++
	s.lastInput = in
	return s.rehearsals
}

type stubQueue struct {
	jobs []jobs.Job
	err  error
}

func (s *stubQueue) Enqueue(job jobs.Job) error {
	if s.err != nil {
		return s.err
	}
	s.jobs = append(s.jobs, job)
	return nil
}

// memoryCacheRepo is an in-process CacheRepository for exercising the real
// cache service without redis.
type memoryCacheRepo struct {
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	delete(m.entries, pattern)
	return nil
}

func sampleSchedule() *models.ShootingSchedule {
	return &models.ShootingSchedule{
		Mode: models.ScheduleModeSingleEpisode,
		Days: []models.ShootingDay{
			{DayNumber: 1, Location: "Apartment", CallTime: "09:00", WrapTime: "18:00", Status: models.DayStatusScheduled},
			{DayNumber: 2, Location: "Cafe", CallTime: "09:00", WrapTime: "18:00", Status: models.DayStatusScheduled},
		},
		TotalShootDays: 2,
		UpdatedAt:      time.Now().UTC(),
	}
}

func breakdownRecord(t *testing.T, episode int) models.EpisodeBreakdownRecord {
	t.Helper()
	payload, err := json.Marshal(models.EpisodeBreakdown{
		Episode: episode,
		Scenes:  []models.Scene{{Number: 1, Location: "Apartment", DurationMinutes: 30}},
	})
	require.NoError(t, err)
	return models.EpisodeBreakdownRecord{
		ID:        fmt.Sprintf("bd-%d", episode),
		ProjectID: "p1",
		Episode:   episode,
		Payload:   payload,
	}
}

type scheduleServiceFixture struct {
	svc    *ScheduleService
	store  *stubScheduleStore
	engine *stubScheduleEngine
	queue  *stubQueue
	cache  *memoryCacheRepo
}

func newScheduleServiceFixture(t *testing.T) *scheduleServiceFixture {
	t.Helper()
	store := &stubScheduleStore{}
	engine := &stubScheduleEngine{schedule: sampleSchedule()}
	queue := &stubQueue{}
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, nil, time.Minute, nil, true)

	svc := NewScheduleService(
		&stubBreakdownReader{records: []models.EpisodeBreakdownRecord{breakdownRecord(t, 1)}},
		&stubLocationReader{},
		store,
		engine,
		cache,
		queue,
		nil,
		nil,
		nil,
		time.Minute,
	)
	return &scheduleServiceFixture{svc: svc, store: store, engine: engine, queue: queue, cache: repo}
}

func TestScheduleServiceGeneratePersistsCachesAndEnqueues(t *testing.T) {
	f := newScheduleServiceFixture(t)

	resp, err := f.svc.Generate(context.Background(), dto.GenerateScheduleRequest{
		ProjectID:   "p1",
		Episodes:    []int{1},
		RequestedBy: "producer",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Version)
	assert.NotEmpty(t, resp.ScheduleID)
	assert.Equal(t, 2, resp.Schedule.TotalShootDays)

	require.Len(t, f.store.records, 1)
	assert.Equal(t, "producer", f.store.records[0].GeneratedBy)
	assert.Equal(t, "p1", f.store.records[0].ProjectID)

	assert.Contains(t, f.cache.entries, "schedule:latest:p1")

	require.Len(t, f.queue.jobs, 1)
	assert.Equal(t, rehearsalJobType, f.queue.jobs[0].Type)
}

func TestScheduleServiceGenerateDefaultsGeneratedBy(t *testing.T) {
	f := newScheduleServiceFixture(t)

	_, err := f.svc.Generate(context.Background(), dto.GenerateScheduleRequest{ProjectID: "p1", Episodes: []int{1}})
	require.NoError(t, err)
	require.Len(t, f.store.records, 1)
	assert.Equal(t, "api", f.store.records[0].GeneratedBy)
}

func TestScheduleServiceGenerateValidation(t *testing.T) {
	f := newScheduleServiceFixture(t)

	_, err := f.svc.Generate(context.Background(), dto.GenerateScheduleRequest{})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Zero(t, f.engine.generateCalls)
}

func TestScheduleServiceGenerateMissingBreakdown(t *testing.T) {
	f := newScheduleServiceFixture(t)
	f.engine.err = &scheduler.MissingBreakdownError{Episode: 2}

	_, err := f.svc.Generate(context.Background(), dto.GenerateScheduleRequest{ProjectID: "p1", Episodes: []int{1, 2}})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrMissingBreakdown.Code, appErr.Code)
	assert.Equal(t, appErrors.ErrMissingBreakdown.Status, appErr.Status)
	assert.Empty(t, f.store.records)
}

func TestScheduleServiceGenerateDisableGenerative(t *testing.T) {
	f := newScheduleServiceFixture(t)

	_, err := f.svc.Generate(context.Background(), dto.GenerateScheduleRequest{
		ProjectID:         "p1",
		Episodes:          []int{1},
		DisableGenerative: true,
	})
	require.NoError(t, err)
	assert.True(t, f.engine.lastInput.DeterministicOnly)
}

func TestScheduleServiceGenerateResolvesMode(t *testing.T) {
	f := newScheduleServiceFixture(t)
	f.svc.breakdowns = &stubBreakdownReader{records: []models.EpisodeBreakdownRecord{
		breakdownRecord(t, 1), breakdownRecord(t, 2),
	}}

	_, err := f.svc.Generate(context.Background(), dto.GenerateScheduleRequest{ProjectID: "p1", Episodes: []int{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleModeCrossEpisode, f.engine.lastInput.Mode)

	_, err = f.svc.Generate(context.Background(), dto.GenerateScheduleRequest{ProjectID: "p1", Episodes: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleModeSingleEpisode, f.engine.lastInput.Mode)
}

func TestScheduleServiceLatestStoreThenCache(t *testing.T) {
	f := newScheduleServiceFixture(t)

	_, err := f.svc.Generate(context.Background(), dto.GenerateScheduleRequest{ProjectID: "p1", Episodes: []int{1}})
	require.NoError(t, err)

	// Cached by Generate, so the version is unknown.
	schedule, version, err := f.svc.Latest(context.Background(), "p1")
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.Equal(t, 2, schedule.TotalShootDays)

	// Drop the cache and hit the store.
	delete(f.cache.entries, "schedule:latest:p1")
	schedule, version, err = f.svc.Latest(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.Equal(t, 2, schedule.TotalShootDays)
	assert.Contains(t, f.cache.entries, "schedule:latest:p1")
}

func TestScheduleServiceLatestNoSchedule(t *testing.T) {
	f := newScheduleServiceFixture(t)

	_, _, err := f.svc.Latest(context.Background(), "p1")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNoSchedule.Code, appErr.Code)
}

func TestScheduleServiceVersionNotFound(t *testing.T) {
	f := newScheduleServiceFixture(t)

	_, err := f.svc.Version(context.Background(), "p1", 9)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestScheduleServiceUpdateDayStatusCreatesNewVersion(t *testing.T) {
	f := newScheduleServiceFixture(t)

	_, err := f.svc.Generate(context.Background(), dto.GenerateScheduleRequest{ProjectID: "p1", Episodes: []int{1}})
	require.NoError(t, err)

	schedule, err := f.svc.UpdateDayStatus(context.Background(), "p1", dto.UpdateDayStatusRequest{
		DayNumber: 2,
		Status:    "confirmed",
		UpdatedBy: "upm",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DayStatusConfirmed, schedule.Days[1].Status)
	assert.Equal(t, models.DayStatusScheduled, schedule.Days[0].Status)
	assert.Equal(t, "upm", schedule.UpdatedBy)

	require.Len(t, f.store.records, 2)
	assert.Equal(t, 2, f.store.records[1].Version)
	assert.Equal(t, "status-update", f.store.records[1].GeneratedBy)
}

func TestScheduleServiceUpdateDayStatusDayNotFound(t *testing.T) {
	f := newScheduleServiceFixture(t)

	_, err := f.svc.Generate(context.Background(), dto.GenerateScheduleRequest{ProjectID: "p1", Episodes: []int{1}})
	require.NoError(t, err)

	_, err = f.svc.UpdateDayStatus(context.Background(), "p1", dto.UpdateDayStatusRequest{DayNumber: 9, Status: "shot"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	require.Len(t, f.store.records, 1)
}

func TestScheduleServiceSuggestRehearsalsUsesCacheOnRepeat(t *testing.T) {
	f := newScheduleServiceFixture(t)
	f.engine.rehearsals = []models.RehearsalSession{{Type: models.RehearsalTableRead, DurationMinutes: 120}}

	_, err := f.svc.Generate(context.Background(), dto.GenerateScheduleRequest{ProjectID: "p1", Episodes: []int{1}})
	require.NoError(t, err)

	sessions, err := f.svc.SuggestRehearsals(context.Background(), dto.SuggestRehearsalsRequest{ProjectID: "p1", Episodes: []int{1}})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 1, f.engine.suggestCalls)

	sessions, err = f.svc.SuggestRehearsals(context.Background(), dto.SuggestRehearsalsRequest{ProjectID: "p1", Episodes: []int{1}})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 1, f.engine.suggestCalls, "second call must be served from cache")
}

func TestScheduleServiceGenerateInvalidatesRehearsalCache(t *testing.T) {
	f := newScheduleServiceFixture(t)
	f.engine.rehearsals = []models.RehearsalSession{{Type: models.RehearsalBlocking, DurationMinutes: 90}}

	_, err := f.svc.Generate(context.Background(), dto.GenerateScheduleRequest{ProjectID: "p1", Episodes: []int{1}})
	require.NoError(t, err)
	_, err = f.svc.SuggestRehearsals(context.Background(), dto.SuggestRehearsalsRequest{ProjectID: "p1", Episodes: []int{1}})
	require.NoError(t, err)
	assert.Contains(t, f.cache.entries, "rehearsals:p1")

	_, err = f.svc.Generate(context.Background(), dto.GenerateScheduleRequest{ProjectID: "p1", Episodes: []int{1}})
	require.NoError(t, err)
	assert.NotContains(t, f.cache.entries, "rehearsals:p1")
}

func TestScheduleServiceHandleRehearsalJob(t *testing.T) {
	f := newScheduleServiceFixture(t)
	f.engine.rehearsals = []models.RehearsalSession{{Type: models.RehearsalTechnical, DurationMinutes: 60}}

	_, err := f.svc.Generate(context.Background(), dto.GenerateScheduleRequest{ProjectID: "p1", Episodes: []int{1}})
	require.NoError(t, err)

	err = f.svc.HandleRehearsalJob(context.Background(), jobs.Job{
		ID:      "job-1",
		Type:    rehearsalJobType,
		Payload: rehearsalJobPayload{ProjectID: "p1", Episodes: []int{1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.engine.suggestCalls)
}

func TestScheduleServiceHandleRehearsalJobBadPayload(t *testing.T) {
	f := newScheduleServiceFixture(t)

	err := f.svc.HandleRehearsalJob(context.Background(), jobs.Job{ID: "job-1", Payload: "not a payload"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected payload type")
}
