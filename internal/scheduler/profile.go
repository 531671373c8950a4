package scheduler

import (
	"strings"

	"github.com/showrunner-hq/showrunner-api/internal/models"
)

// exteriorKeywords mark a location string as an exterior shoot. Matching is
// case-insensitive substring containment.
var exteriorKeywords = []string{"EXT", "EXTERIOR", "OUTSIDE", "STREET", "PARK"}

// LocationProfile aggregates per-location statistics for one scheduling run.
type LocationProfile struct {
	Name         string
	SceneCount   int
	TotalMinutes int
	TimeOfDay    map[models.TimeOfDay]int
	Exterior     bool
	FirstOrdinal int

	// Venue metadata, present only when a location-group mapping resolved
	// this location to a real-world venue.
	Group     *models.LocationGroup
	Venue     *models.VenueSuggestion
	AllInCost float64
}

// LocationProfiles indexes profiles by location name and preserves
// first-appearance order, which drives batching and the deterministic packer.
type LocationProfiles struct {
	Order  []string
	ByName map[string]*LocationProfile
}

// Get returns the profile for a location name, or nil.
func (p *LocationProfiles) Get(name string) *LocationProfile {
	if p == nil {
		return nil
	}
	return p.ByName[name]
}

// IsExterior reports whether the location string reads as an exterior.
func IsExterior(location string) bool {
	upper := strings.ToUpper(location)
	for _, keyword := range exteriorKeywords {
		if strings.Contains(upper, keyword) {
			return true
		}
	}
	return false
}

// ProfileLocations computes per-location statistics for the aggregated scene
// list and attaches resolved venue metadata where a location-group mapping is
// supplied. It never fails; unmapped locations simply lack venue metadata.
func ProfileLocations(scenes []models.Scene, groups []models.LocationGroup) *LocationProfiles {
	profiles := &LocationProfiles{ByName: make(map[string]*LocationProfile)}

	for _, scene := range scenes {
		profile, ok := profiles.ByName[scene.Location]
		if !ok {
			profile = &LocationProfile{
				Name:         scene.Location,
				TimeOfDay:    make(map[models.TimeOfDay]int),
				Exterior:     IsExterior(scene.Location),
				FirstOrdinal: scene.Ordinal,
			}
			profiles.ByName[scene.Location] = profile
			profiles.Order = append(profiles.Order, scene.Location)
		}
		profile.SceneCount++
		profile.TotalMinutes += scene.DurationMinutes
		profile.TimeOfDay[scene.TimeOfDay]++
	}

	for i := range groups {
		group := &groups[i]
		profile := matchProfile(profiles, group.Name)
		if profile == nil {
			continue
		}
		profile.Group = group
		if venue := group.ResolvedVenue(); venue != nil {
			profile.Venue = venue
			profile.AllInCost = venue.AllInCost()
		}
	}

	return profiles
}

// matchProfile resolves a location-group name against profiled location
// strings using case-insensitive substring containment in either direction,
// the same relaxed matching applied to generated day labels.
func matchProfile(profiles *LocationProfiles, name string) *LocationProfile {
	if name == "" {
		return nil
	}
	if profile, ok := profiles.ByName[name]; ok {
		return profile
	}
	lower := strings.ToLower(name)
	for _, candidate := range profiles.Order {
		candidateLower := strings.ToLower(candidate)
		if strings.Contains(candidateLower, lower) || strings.Contains(lower, candidateLower) {
			return profiles.ByName[candidate]
		}
	}
	return nil
}

// MatchVenue resolves a free-form day label (as returned by the generative
// service) to profiled venue metadata. Returns the profile whose location or
// venue name contains, or is contained by, the label.
func MatchVenue(profiles *LocationProfiles, label string) *LocationProfile {
	if profiles == nil || label == "" {
		return nil
	}
	lower := strings.ToLower(strings.TrimSpace(label))
	for _, name := range profiles.Order {
		profile := profiles.ByName[name]
		nameLower := strings.ToLower(name)
		if strings.Contains(nameLower, lower) || strings.Contains(lower, nameLower) {
			return profile
		}
		if profile.Venue != nil {
			venueLower := strings.ToLower(profile.Venue.Name)
			if venueLower != "" && (strings.Contains(venueLower, lower) || strings.Contains(lower, venueLower)) {
				return profile
			}
		}
	}
	return nil
}
