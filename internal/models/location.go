package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// VenueSuggestion is a candidate real-world filming location with cost and
// logistics metadata.
type VenueSuggestion struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Address           string  `json:"address"`
	DayRate           float64 `json:"dayRate"`
	PermitCost        float64 `json:"permitCost"`
	Deposit           float64 `json:"deposit"`
	HasParking        bool    `json:"hasParking"`
	HasPower          bool    `json:"hasPower"`
	HasRestrooms      bool    `json:"hasRestrooms"`
	PermitRequired    bool    `json:"permitRequired"`
	InsuranceRequired bool    `json:"insuranceRequired"`
}

// AllInCost is the single-day cost of booking the venue.
func (v VenueSuggestion) AllInCost() float64 {
	return v.DayRate + v.PermitCost + v.Deposit
}

// LocationGroup binds a set of scenes, possibly across episodes, to one
// physical shoot location.
type LocationGroup struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Scenes          []SceneKey        `json:"scenes"`
	Venues          []VenueSuggestion `json:"venues,omitempty"`
	SelectedVenueID string            `json:"selectedVenueId,omitempty"`
}

// ResolvedVenue returns the explicitly selected venue, or the cheapest
// suggestion by all-in cost when nothing is selected. Nil when the group has
// no suggestions.
func (g LocationGroup) ResolvedVenue() *VenueSuggestion {
	if len(g.Venues) == 0 {
		return nil
	}
	if g.SelectedVenueID != "" {
		for i := range g.Venues {
			if g.Venues[i].ID == g.SelectedVenueID {
				return &g.Venues[i]
			}
		}
	}
	best := 0
	for i := 1; i < len(g.Venues); i++ {
		if g.Venues[i].AllInCost() < g.Venues[best].AllInCost() {
			best = i
		}
	}
	return &g.Venues[best]
}

// LocationGroupRecord is the persisted form of a location group.
type LocationGroupRecord struct {
	ID        string         `db:"id" json:"id"`
	ProjectID string         `db:"project_id" json:"project_id"`
	Name      string         `db:"name" json:"name"`
	Payload   types.JSONText `db:"payload" json:"payload"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}
