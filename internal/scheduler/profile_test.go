package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showrunner-hq/showrunner-api/internal/models"
)

func TestIsExterior(t *testing.T) {
	assert.True(t, IsExterior("EXT. City Park"))
	assert.True(t, IsExterior("Street corner"))
	assert.True(t, IsExterior("outside the diner"))
	assert.False(t, IsExterior("INT. Apartment"))
	assert.False(t, IsExterior("Coffee Shop"))
}

func TestProfileLocationsAggregates(t *testing.T) {
	scenes := []models.Scene{
		{Location: "Apartment", TimeOfDay: models.TimeOfDayDay, DurationMinutes: 60, Ordinal: 0},
		{Location: "EXT. Park", TimeOfDay: models.TimeOfDayNight, DurationMinutes: 45, Ordinal: 1},
		{Location: "Apartment", TimeOfDay: models.TimeOfDayNight, DurationMinutes: 30, Ordinal: 2},
	}

	profiles := ProfileLocations(scenes, nil)
	require.Equal(t, []string{"Apartment", "EXT. Park"}, profiles.Order)

	apartment := profiles.Get("Apartment")
	require.NotNil(t, apartment)
	assert.Equal(t, 2, apartment.SceneCount)
	assert.Equal(t, 90, apartment.TotalMinutes)
	assert.Equal(t, 1, apartment.TimeOfDay[models.TimeOfDayDay])
	assert.Equal(t, 1, apartment.TimeOfDay[models.TimeOfDayNight])
	assert.False(t, apartment.Exterior)

	park := profiles.Get("EXT. Park")
	require.NotNil(t, park)
	assert.True(t, park.Exterior)
	assert.Equal(t, 0, apartment.FirstOrdinal)
	assert.Equal(t, 1, park.FirstOrdinal)
}

func TestProfileLocationsResolvesCheapestVenue(t *testing.T) {
	scenes := []models.Scene{{Location: "Coffee Shop", DurationMinutes: 30}}
	groups := []models.LocationGroup{{
		Name: "Coffee Shop",
		Venues: []models.VenueSuggestion{
			{ID: "v1", Name: "Beanery", DayRate: 300, PermitCost: 50, Deposit: 100},
			{ID: "v2", Name: "Corner Cafe", DayRate: 200, PermitCost: 25, Deposit: 50},
		},
	}}

	profiles := ProfileLocations(scenes, groups)
	profile := profiles.Get("Coffee Shop")
	require.NotNil(t, profile)
	require.NotNil(t, profile.Venue)
	assert.Equal(t, "Corner Cafe", profile.Venue.Name)
	assert.Equal(t, 275.0, profile.AllInCost)
}

func TestProfileLocationsHonorsSelectedVenue(t *testing.T) {
	scenes := []models.Scene{{Location: "Coffee Shop", DurationMinutes: 30}}
	groups := []models.LocationGroup{{
		Name:            "Coffee Shop",
		SelectedVenueID: "v1",
		Venues: []models.VenueSuggestion{
			{ID: "v1", Name: "Beanery", DayRate: 300},
			{ID: "v2", Name: "Corner Cafe", DayRate: 200},
		},
	}}

	profiles := ProfileLocations(scenes, groups)
	require.NotNil(t, profiles.Get("Coffee Shop").Venue)
	assert.Equal(t, "Beanery", profiles.Get("Coffee Shop").Venue.Name)
}

func TestMatchVenueByLabelAndVenueName(t *testing.T) {
	scenes := []models.Scene{{Location: "Coffee Shop", DurationMinutes: 30}}
	groups := []models.LocationGroup{{
		Name:   "Coffee Shop",
		Venues: []models.VenueSuggestion{{ID: "v1", Name: "Corner Cafe", DayRate: 200}},
	}}
	profiles := ProfileLocations(scenes, groups)

	assert.NotNil(t, MatchVenue(profiles, "coffee shop"))
	assert.NotNil(t, MatchVenue(profiles, "INT. Coffee Shop - Day"))
	assert.NotNil(t, MatchVenue(profiles, "Corner Cafe"))
	assert.Nil(t, MatchVenue(profiles, "Warehouse"))
	assert.Nil(t, MatchVenue(profiles, ""))
}
