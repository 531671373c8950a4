package scheduler

import (
	"fmt"
	"sort"

	"github.com/showrunner-hq/showrunner-api/internal/models"
)

const (
	exteriorWeatherNote = "Exterior shoot: confirm forecast 48h out and hold a covered alternate."
	fallbackDayNote     = "Auto-packed day (generative scheduling unavailable)."
)

// FallbackSchedule builds a valid schedule for the given scenes without any
// external calls. Locations are processed in order of first scene appearance;
// exterior locations carrying both DAY and NIGHT work are split into a
// DAY-only group and a NIGHT-only group; within each group scenes are packed
// longest-first into days capped at the usable day length. The function is
// pure and idempotent: identical input yields an identical schedule.
func FallbackSchedule(scenes []models.Scene, profiles *LocationProfiles, cfg Config) []models.ShootingDay {
	cfg = cfg.withDefaults()
	usable := cfg.usableMinutes()

	var days []models.ShootingDay
	for _, name := range locationOrder(scenes) {
		profile := profiles.Get(name)
		for _, group := range splitTimeOfDay(scenesAt(scenes, name), profile) {
			days = append(days, packGroup(group, profile, usable)...)
		}
	}
	for i := range days {
		days[i].DayNumber = i + 1
	}
	return days
}

// sceneGroup is one location's scenes constrained to a single shoot window.
type sceneGroup struct {
	location  string
	timeOfDay models.TimeOfDay // empty when the location was not split
	scenes    []models.Scene
}

func locationOrder(scenes []models.Scene) []string {
	var order []string
	seen := make(map[string]bool)
	for _, scene := range scenes {
		if !seen[scene.Location] {
			seen[scene.Location] = true
			order = append(order, scene.Location)
		}
	}
	return order
}

func scenesAt(scenes []models.Scene, location string) []models.Scene {
	var out []models.Scene
	for _, scene := range scenes {
		if scene.Location == location {
			out = append(out, scene)
		}
	}
	return out
}

// splitTimeOfDay separates an exterior location into DAY and NIGHT groups
// when it carries both; everything else stays one group. NIGHT scenes form
// the night group; all other times of day shoot in the day window.
func splitTimeOfDay(scenes []models.Scene, profile *LocationProfile) []sceneGroup {
	location := ""
	if len(scenes) > 0 {
		location = scenes[0].Location
	}
	exterior := profile != nil && profile.Exterior

	var day, night []models.Scene
	for _, scene := range scenes {
		if scene.TimeOfDay == models.TimeOfDayNight {
			night = append(night, scene)
		} else {
			day = append(day, scene)
		}
	}
	if !exterior || len(day) == 0 || len(night) == 0 {
		return []sceneGroup{{location: location, scenes: scenes}}
	}
	return []sceneGroup{
		{location: location, timeOfDay: models.TimeOfDayDay, scenes: day},
		{location: location, timeOfDay: models.TimeOfDayNight, scenes: night},
	}
}

// packGroup greedily packs a group longest-first into the minimum number of
// consecutive days, never exceeding the usable minutes per day. A single
// scene longer than a full day still gets its own day.
func packGroup(group sceneGroup, profile *LocationProfile, usable int) []models.ShootingDay {
	if len(group.scenes) == 0 {
		return nil
	}

	sorted := make([]models.Scene, len(group.scenes))
	copy(sorted, group.scenes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DurationMinutes != sorted[j].DurationMinutes {
			return sorted[i].DurationMinutes > sorted[j].DurationMinutes
		}
		return sorted[i].Ordinal < sorted[j].Ordinal
	})

	var days []models.ShootingDay
	current := newFallbackDay(group, profile)
	currentMinutes := 0
	for _, scene := range sorted {
		if currentMinutes > 0 && currentMinutes+scene.DurationMinutes > usable {
			days = append(days, current)
			current = newFallbackDay(group, profile)
			currentMinutes = 0
		}
		current.Scenes = append(current.Scenes, models.SceneRef{
			Episode:         scene.Episode,
			Scene:           scene.Number,
			Title:           scene.Title,
			DurationMinutes: scene.DurationMinutes,
			Priority:        len(current.Scenes) + 1,
		})
		current.Cast = mergeCast(current.Cast, scene.Cast)
		currentMinutes += scene.DurationMinutes
	}
	if len(current.Scenes) > 0 {
		days = append(days, current)
	}
	return days
}

func newFallbackDay(group sceneGroup, profile *LocationProfile) models.ShootingDay {
	day := models.ShootingDay{
		Location:  group.location,
		CallTime:  fallbackCallTime,
		WrapTime:  fallbackWrapTime,
		Cast:      []string{},
		Crew:      []string{},
		Equipment: []string{},
		Notes:     fallbackDayNote,
		Status:    models.DayStatusScheduled,
	}
	if group.timeOfDay != "" {
		day.Notes = fmt.Sprintf("%s %s scenes only.", fallbackDayNote, group.timeOfDay)
	}
	if profile != nil {
		if profile.Venue != nil {
			day.Venue = profile.Venue.Name
		}
		if profile.Exterior {
			day.WeatherNote = exteriorWeatherNote
		}
	}
	return day
}

func mergeCast(existing []string, extra []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, name := range existing {
		seen[name] = true
	}
	for _, name := range extra {
		if name != "" && !seen[name] {
			seen[name] = true
			existing = append(existing, name)
		}
	}
	return existing
}
