package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showrunner-hq/showrunner-api/internal/models"
)

func TestAssembleScheduleRenumbersAcrossBatches(t *testing.T) {
	batchDays := [][]models.ShootingDay{
		{
			{DayNumber: 1, Location: "Apartment"},
			{DayNumber: 2, Location: "Apartment"},
		},
		{
			{DayNumber: 1, Location: "Cafe"},
			{DayNumber: 2, Location: "EXT. Park"},
			{DayNumber: 3, Location: "EXT. Park"},
		},
	}

	schedule := AssembleSchedule(models.ScheduleModeCrossEpisode, batchDays, nil)
	require.NotNil(t, schedule)
	assert.Equal(t, models.ScheduleModeCrossEpisode, schedule.Mode)
	assert.Equal(t, 5, schedule.TotalShootDays)
	require.Len(t, schedule.Days, 5)
	for i, day := range schedule.Days {
		assert.Equal(t, i+1, day.DayNumber)
	}
	assert.Equal(t, "Cafe", schedule.Days[2].Location)
	assert.False(t, schedule.UpdatedAt.IsZero())
}

func TestAssembleScheduleFillsMissingVenues(t *testing.T) {
	scenes := []models.Scene{{Location: "Coffee Shop", DurationMinutes: 30}}
	groups := []models.LocationGroup{{
		Name:   "Coffee Shop",
		Venues: []models.VenueSuggestion{{ID: "v1", Name: "Corner Cafe", DayRate: 200}},
	}}
	profiles := ProfileLocations(scenes, groups)

	batchDays := [][]models.ShootingDay{{
		{Location: "Coffee Shop"},
		{Location: "Coffee Shop", Venue: "Handpicked Diner"},
	}}

	schedule := AssembleSchedule(models.ScheduleModeSingleEpisode, batchDays, profiles)
	require.Len(t, schedule.Days, 2)
	assert.Equal(t, "Corner Cafe", schedule.Days[0].Venue)
	assert.Equal(t, "Handpicked Diner", schedule.Days[1].Venue)
}

func TestAssembleScheduleEmptyInput(t *testing.T) {
	schedule := AssembleSchedule(models.ScheduleModeSingleEpisode, nil, nil)
	require.NotNil(t, schedule)
	assert.Zero(t, schedule.TotalShootDays)
	assert.Empty(t, schedule.Days)
}
