package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// TimeOfDay enumerates the lighting window a scene is written for.
type TimeOfDay string

const (
	TimeOfDayDay       TimeOfDay = "DAY"
	TimeOfDayNight     TimeOfDay = "NIGHT"
	TimeOfDaySunrise   TimeOfDay = "SUNRISE"
	TimeOfDaySunset    TimeOfDay = "SUNSET"
	TimeOfDayMagicHour TimeOfDay = "MAGIC_HOUR"
)

// Scene is one scene of a script breakdown. Immutable once aggregated into
// a scheduling run.
type Scene struct {
	Episode         int       `json:"episode"`
	Number          int       `json:"sceneNumber"`
	Title           string    `json:"title"`
	Location        string    `json:"location"`
	TimeOfDay       TimeOfDay `json:"timeOfDay"`
	DurationMinutes int       `json:"durationMinutes"`
	Cast            []string  `json:"cast"`
	Ordinal         int       `json:"-"`
}

// SceneKey identifies a scene across episodes.
type SceneKey struct {
	Episode int `json:"episode"`
	Scene   int `json:"scene"`
}

// EpisodeBreakdown holds the per-scene production metadata for one episode.
type EpisodeBreakdown struct {
	Episode int     `json:"episode"`
	Scenes  []Scene `json:"scenes"`
}

// EpisodeBreakdownRecord is the persisted form of an episode breakdown.
type EpisodeBreakdownRecord struct {
	ID        string         `db:"id" json:"id"`
	ProjectID string         `db:"project_id" json:"project_id"`
	Episode   int            `db:"episode" json:"episode"`
	Payload   types.JSONText `db:"payload" json:"payload"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}
