package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showrunner-hq/showrunner-api/internal/models"
)

func TestAggregateScenesAppliesDefaultsAndOrdinals(t *testing.T) {
	breakdowns := map[int]models.EpisodeBreakdown{
		1: {Scenes: []models.Scene{
			{Number: 1, Location: "Apartment", DurationMinutes: 30},
			{Number: 2, Location: "Apartment"},
		}},
		2: {Scenes: []models.Scene{
			{Number: 1, Location: "Cafe", TimeOfDay: models.TimeOfDayNight},
		}},
	}

	scenes, err := AggregateScenes(breakdowns, []int{1, 2})
	require.NoError(t, err)
	require.Len(t, scenes, 3)

	assert.Equal(t, 30, scenes[0].DurationMinutes)
	assert.Equal(t, DefaultSceneMinutes, scenes[1].DurationMinutes)
	assert.Equal(t, models.TimeOfDayDay, scenes[1].TimeOfDay)
	assert.Equal(t, models.TimeOfDayNight, scenes[2].TimeOfDay)

	for i, scene := range scenes {
		assert.Equal(t, i, scene.Ordinal)
	}
	assert.Equal(t, 1, scenes[0].Episode)
	assert.Equal(t, 2, scenes[2].Episode)
}

func TestAggregateScenesMissingEpisode(t *testing.T) {
	breakdowns := map[int]models.EpisodeBreakdown{
		1: {Scenes: []models.Scene{{Number: 1, Location: "Apartment"}}},
	}

	_, err := AggregateScenes(breakdowns, []int{1, 3})
	require.Error(t, err)
	var missing *MissingBreakdownError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, 3, missing.Episode)
}

func TestAggregateScenesEmptyBreakdownIsMissing(t *testing.T) {
	breakdowns := map[int]models.EpisodeBreakdown{
		1: {Scenes: nil},
	}

	_, err := AggregateScenes(breakdowns, []int{1})
	var missing *MissingBreakdownError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, 1, missing.Episode)
}
