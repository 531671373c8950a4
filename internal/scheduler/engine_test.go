package scheduler

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showrunner-hq/showrunner-api/internal/models"
)

type stubGenerator struct {
	response string
	err      error

	calls      int
	lastSystem string
	lastUser   string
}

func (s *stubGenerator) Generate(_ context.Context, system, user string) (string, error) {
	s.calls++
	s.lastSystem = system
	s.lastUser = user
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

type recordingObserver struct {
	batches    []string
	recoveries []string
}

func (r *recordingObserver) ObserveBatch(outcome string)  { r.batches = append(r.batches, outcome) }
func (r *recordingObserver) ObserveRecovery(layer string) { r.recoveries = append(r.recoveries, layer) }

func singleLocationInput() Input {
	return Input{
		Mode:     models.ScheduleModeSingleEpisode,
		Episodes: []int{1},
		Breakdowns: map[int]models.EpisodeBreakdown{
			1: {Scenes: []models.Scene{
				{Number: 1, Location: "Apartment", TimeOfDay: models.TimeOfDayDay, DurationMinutes: 60},
				{Number: 2, Location: "Apartment", TimeOfDay: models.TimeOfDayDay, DurationMinutes: 45},
			}},
		},
	}
}

const generatedDayJSON = `[
  {"dayNumber":1,"location":"Apartment","callTime":"09:00","estimatedWrapTime":"18:00",
   "scenes":[{"episode":1,"scene":1,"durationMinutes":60,"priority":1},
             {"episode":1,"scene":2,"durationMinutes":45,"priority":2}],
   "cast":["Ana"],"crew":[],"equipment":[],"notes":"","weatherContingency":"","status":"scheduled"}
]`

func TestEngineGenerateUsesGenerativeDays(t *testing.T) {
	gen := &stubGenerator{response: generatedDayJSON}
	obs := &recordingObserver{}
	engine := NewEngine(gen, nil, obs, Config{})

	schedule, err := engine.Generate(context.Background(), singleLocationInput())
	require.NoError(t, err)
	require.NotNil(t, schedule)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, []string{"generative"}, obs.batches)
	assert.Empty(t, obs.recoveries)

	require.Len(t, schedule.Days, 1)
	assert.Equal(t, 1, schedule.Days[0].DayNumber)
	assert.Equal(t, "Apartment", schedule.Days[0].Location)
	assert.Len(t, schedule.Days[0].Scenes, 2)
	assert.Equal(t, 1, schedule.TotalShootDays)
}

func TestEngineGenerateFallsBackOnGeneratorError(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("provider unavailable")}
	obs := &recordingObserver{}
	engine := NewEngine(gen, nil, obs, Config{})

	schedule, err := engine.Generate(context.Background(), singleLocationInput())
	require.NoError(t, err)
	assert.Equal(t, []string{"fallback"}, obs.batches)
	require.Len(t, schedule.Days, 1)
	assert.Contains(t, schedule.Days[0].Notes, fallbackDayNote)
}

func TestEngineGenerateFallsBackOnUnparseableResponse(t *testing.T) {
	gen := &stubGenerator{response: "Sorry, I cannot build a schedule today."}
	obs := &recordingObserver{}
	engine := NewEngine(gen, nil, obs, Config{})

	schedule, err := engine.Generate(context.Background(), singleLocationInput())
	require.NoError(t, err)
	assert.Equal(t, []string{"fallback"}, obs.batches)
	require.Len(t, schedule.Days, 1)
	assert.Equal(t, "Apartment", schedule.Days[0].Location)
}

func TestEngineGenerateReportsRecoveryLayer(t *testing.T) {
	gen := &stubGenerator{response: `{"totalShootDays":1,"days":` + generatedDayJSON + `}`}
	obs := &recordingObserver{}
	engine := NewEngine(gen, nil, obs, Config{})

	_, err := engine.Generate(context.Background(), singleLocationInput())
	require.NoError(t, err)
	assert.Equal(t, []string{"generative"}, obs.batches)
	assert.Equal(t, []string{string(RecoverySubArray)}, obs.recoveries)
}

func TestEngineGenerateNilGeneratorIsDeterministic(t *testing.T) {
	obs := &recordingObserver{}
	engine := NewEngine(nil, nil, obs, Config{})

	schedule, err := engine.Generate(context.Background(), singleLocationInput())
	require.NoError(t, err)
	assert.Equal(t, []string{"fallback"}, obs.batches)
	require.Len(t, schedule.Days, 1)
}

func TestEngineGenerateDeterministicOnlySkipsGenerator(t *testing.T) {
	gen := &stubGenerator{response: generatedDayJSON}
	engine := NewEngine(gen, nil, nil, Config{})

	in := singleLocationInput()
	in.DeterministicOnly = true
	schedule, err := engine.Generate(context.Background(), in)
	require.NoError(t, err)
	assert.Zero(t, gen.calls)
	require.Len(t, schedule.Days, 1)
	assert.Contains(t, schedule.Days[0].Notes, fallbackDayNote)
}

func TestEngineGenerateMissingBreakdownIsFatal(t *testing.T) {
	engine := NewEngine(nil, nil, nil, Config{})

	in := singleLocationInput()
	in.Episodes = []int{1, 2}
	_, err := engine.Generate(context.Background(), in)
	require.Error(t, err)
	var missing *MissingBreakdownError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, 2, missing.Episode)
}

func TestEngineGenerateRunsEachBatchSeparately(t *testing.T) {
	breakdown := models.EpisodeBreakdown{}
	for loc := 0; loc < 4; loc++ {
		for i := 0; i < 20; i++ {
			breakdown.Scenes = append(breakdown.Scenes, models.Scene{
				Number:          loc*20 + i + 1,
				Location:        fmt.Sprintf("Location %d", loc),
				TimeOfDay:       models.TimeOfDayDay,
				DurationMinutes: 20,
			})
		}
	}
	in := Input{
		Mode:              models.ScheduleModeCrossEpisode,
		Episodes:          []int{1},
		Breakdowns:        map[int]models.EpisodeBreakdown{1: breakdown},
		DeterministicOnly: true,
	}

	obs := &recordingObserver{}
	engine := NewEngine(&stubGenerator{}, nil, obs, Config{})
	schedule, err := engine.Generate(context.Background(), in)
	require.NoError(t, err)

	// 80 scenes at 20 per location batch into 4 batches under the
	// 35-scene limit, one location each.
	assert.Len(t, obs.batches, 4)
	for i, day := range schedule.Days {
		assert.Equal(t, i+1, day.DayNumber)
	}
	assert.Equal(t, len(schedule.Days), schedule.TotalShootDays)
}
