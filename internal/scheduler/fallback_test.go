package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showrunner-hq/showrunner-api/internal/models"
)

func repeatedScenes(location string, count, minutes int, tod models.TimeOfDay, startOrdinal int) []models.Scene {
	scenes := make([]models.Scene, 0, count)
	for i := 0; i < count; i++ {
		scenes = append(scenes, models.Scene{
			Episode:         1,
			Number:          i + 1,
			Location:        location,
			TimeOfDay:       tod,
			DurationMinutes: minutes,
			Ordinal:         startOrdinal + i,
		})
	}
	return scenes
}

func TestFallbackScheduleSplitsLongLocationAcrossDays(t *testing.T) {
	scenes := repeatedScenes("Coffee Shop", 40, 20, models.TimeOfDayDay, 0)
	profiles := ProfileLocations(scenes, nil)

	days := FallbackSchedule(scenes, profiles, Config{})
	require.Len(t, days, 2)
	assert.Equal(t, 540, days[0].TotalMinutes())
	assert.Equal(t, 260, days[1].TotalMinutes())
	assert.Len(t, days[0].Scenes, 27)
	assert.Len(t, days[1].Scenes, 13)
	for _, day := range days {
		assert.Equal(t, "Coffee Shop", day.Location)
		assert.Equal(t, fallbackCallTime, day.CallTime)
		assert.Equal(t, fallbackWrapTime, day.WrapTime)
		assert.Equal(t, fallbackDayNote, day.Notes)
		assert.Equal(t, models.DayStatusScheduled, day.Status)
	}
}

func TestFallbackScheduleSplitsExteriorDayAndNight(t *testing.T) {
	scenes := append(
		repeatedScenes("EXT. Rooftop", 5, 100, models.TimeOfDayDay, 0),
		repeatedScenes("EXT. Rooftop", 3, 90, models.TimeOfDayNight, 5)...,
	)
	profiles := ProfileLocations(scenes, nil)

	days := FallbackSchedule(scenes, profiles, Config{})
	require.Len(t, days, 2)

	assert.Equal(t, 500, days[0].TotalMinutes())
	assert.Contains(t, days[0].Notes, "DAY scenes only.")
	assert.Equal(t, 270, days[1].TotalMinutes())
	assert.Contains(t, days[1].Notes, "NIGHT scenes only.")
	for _, day := range days {
		assert.Equal(t, exteriorWeatherNote, day.WeatherNote)
	}
}

func TestFallbackScheduleInteriorMixedTimesStayTogether(t *testing.T) {
	scenes := append(
		repeatedScenes("INT. Apartment", 2, 60, models.TimeOfDayDay, 0),
		repeatedScenes("INT. Apartment", 2, 60, models.TimeOfDayNight, 2)...,
	)
	profiles := ProfileLocations(scenes, nil)

	days := FallbackSchedule(scenes, profiles, Config{})
	require.Len(t, days, 1)
	assert.Len(t, days[0].Scenes, 4)
	assert.Equal(t, fallbackDayNote, days[0].Notes)
	assert.Empty(t, days[0].WeatherNote)
}

func TestFallbackScheduleOversizedSceneGetsOwnDay(t *testing.T) {
	scenes := []models.Scene{
		{Episode: 1, Number: 1, Location: "Warehouse", TimeOfDay: models.TimeOfDayDay, DurationMinutes: 600, Ordinal: 0},
		{Episode: 1, Number: 2, Location: "Warehouse", TimeOfDay: models.TimeOfDayDay, DurationMinutes: 30, Ordinal: 1},
	}
	profiles := ProfileLocations(scenes, nil)

	days := FallbackSchedule(scenes, profiles, Config{})
	require.Len(t, days, 2)
	assert.Equal(t, 600, days[0].TotalMinutes())
	assert.Equal(t, 30, days[1].TotalMinutes())
}

func TestFallbackScheduleFollowsFirstAppearanceOrder(t *testing.T) {
	scenes := []models.Scene{
		{Episode: 1, Number: 1, Location: "Cafe", TimeOfDay: models.TimeOfDayDay, DurationMinutes: 30, Ordinal: 0},
		{Episode: 1, Number: 2, Location: "Apartment", TimeOfDay: models.TimeOfDayDay, DurationMinutes: 30, Ordinal: 1},
		{Episode: 1, Number: 3, Location: "Cafe", TimeOfDay: models.TimeOfDayDay, DurationMinutes: 30, Ordinal: 2},
	}
	profiles := ProfileLocations(scenes, nil)

	days := FallbackSchedule(scenes, profiles, Config{})
	require.Len(t, days, 2)
	assert.Equal(t, "Cafe", days[0].Location)
	assert.Equal(t, "Apartment", days[1].Location)
	for i, day := range days {
		assert.Equal(t, i+1, day.DayNumber)
	}
}

func TestFallbackScheduleAttachesResolvedVenue(t *testing.T) {
	scenes := repeatedScenes("Coffee Shop", 2, 30, models.TimeOfDayDay, 0)
	groups := []models.LocationGroup{{
		Name:   "Coffee Shop",
		Venues: []models.VenueSuggestion{{ID: "v1", Name: "Corner Cafe", DayRate: 200}},
	}}
	profiles := ProfileLocations(scenes, groups)

	days := FallbackSchedule(scenes, profiles, Config{})
	require.Len(t, days, 1)
	assert.Equal(t, "Corner Cafe", days[0].Venue)
}

func TestFallbackScheduleMergesCastWithoutDuplicates(t *testing.T) {
	scenes := []models.Scene{
		{Episode: 1, Number: 1, Location: "Cafe", DurationMinutes: 30, Cast: []string{"Ana", "Ben"}, Ordinal: 0},
		{Episode: 1, Number: 2, Location: "Cafe", DurationMinutes: 30, Cast: []string{"Ben", "Cleo"}, Ordinal: 1},
	}
	profiles := ProfileLocations(scenes, nil)

	days := FallbackSchedule(scenes, profiles, Config{})
	require.Len(t, days, 1)
	assert.Equal(t, []string{"Ana", "Ben", "Cleo"}, days[0].Cast)
}

func TestFallbackScheduleIsIdempotent(t *testing.T) {
	scenes := append(
		repeatedScenes("EXT. Park", 6, 70, models.TimeOfDayDay, 0),
		repeatedScenes("Studio", 9, 55, models.TimeOfDayNight, 6)...,
	)
	profiles := ProfileLocations(scenes, nil)

	first := FallbackSchedule(scenes, profiles, Config{})
	second := FallbackSchedule(scenes, profiles, Config{})
	assert.Equal(t, first, second)
}
