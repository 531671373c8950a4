package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// ScheduleMode selects the scope of a scheduling run.
type ScheduleMode string

const (
	ScheduleModeSingleEpisode ScheduleMode = "single-episode"
	ScheduleModeCrossEpisode  ScheduleMode = "cross-episode"
)

// DayStatus tracks the production state of a shoot day.
type DayStatus string

const (
	DayStatusScheduled DayStatus = "scheduled"
	DayStatusConfirmed DayStatus = "confirmed"
	DayStatusShot      DayStatus = "shot"
	DayStatusPostponed DayStatus = "postponed"
)

// SceneRef places one scene on a shoot day.
type SceneRef struct {
	Episode         int    `json:"episode"`
	Scene           int    `json:"scene"`
	Title           string `json:"title,omitempty"`
	DurationMinutes int    `json:"durationMinutes"`
	Priority        int    `json:"priority,omitempty"`
}

// ShootingDay is one calendar day of filming, scoped to a single location
// (and, for split exteriors, a single time-of-day group).
type ShootingDay struct {
	DayNumber   int        `json:"dayNumber"`
	Location    string     `json:"location"`
	Venue       string     `json:"venue,omitempty"`
	CallTime    string     `json:"callTime"`
	WrapTime    string     `json:"estimatedWrapTime"`
	Scenes      []SceneRef `json:"scenes"`
	Cast        []string   `json:"cast"`
	Crew        []string   `json:"crew"`
	Equipment   []string   `json:"equipment"`
	Notes       string     `json:"notes,omitempty"`
	WeatherNote string     `json:"weatherContingency,omitempty"`
	Status      DayStatus  `json:"status"`
}

// TotalMinutes sums the scheduled scene durations for the day.
func (d ShootingDay) TotalMinutes() int {
	total := 0
	for _, ref := range d.Scenes {
		total += ref.DurationMinutes
	}
	return total
}

// ShootingSchedule is the finished day-by-day shoot plan. Day numbers always
// form a contiguous 1..N sequence.
type ShootingSchedule struct {
	Mode           ScheduleMode       `json:"mode"`
	Days           []ShootingDay      `json:"days"`
	TotalShootDays int                `json:"totalShootDays"`
	RestDays       []int              `json:"restDays,omitempty"`
	Rehearsals     []RehearsalSession `json:"rehearsals,omitempty"`
	UpdatedAt      time.Time          `json:"updatedAt"`
	UpdatedBy      string             `json:"updatedBy,omitempty"`
}

// ScheduleRecord is the persisted, versioned form of a shooting schedule.
// A new version replaces the prior one; nothing is mutated in place.
type ScheduleRecord struct {
	ID             string         `db:"id" json:"id"`
	ProjectID      string         `db:"project_id" json:"project_id"`
	Version        int            `db:"version" json:"version"`
	Mode           string         `db:"mode" json:"mode"`
	TotalShootDays int            `db:"total_shoot_days" json:"total_shoot_days"`
	Payload        types.JSONText `db:"payload" json:"payload"`
	GeneratedBy    string         `db:"generated_by" json:"generated_by"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}
