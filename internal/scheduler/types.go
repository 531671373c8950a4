// Package scheduler converts a per-scene script breakdown into a day-by-day
// shooting schedule. The generative text service is treated as an unreliable
// collaborator: every batch that fails to produce a parseable schedule is
// re-planned by a deterministic bin-packing pass, so a valid schedule always
// exists as long as scene data does.
package scheduler

import (
	"github.com/showrunner-hq/showrunner-api/internal/models"
)

const (
	// DefaultSceneMinutes is assumed when a breakdown omits a duration.
	DefaultSceneMinutes = 45

	// DefaultBatchSceneLimit caps scenes per generative request so one
	// instruction stays inside the provider's context budget.
	DefaultBatchSceneLimit = 35

	// ShootDayMinutes is the hard length of one shoot day.
	ShootDayMinutes = 10 * 60
	// SetupBufferMinutes is reserved for setup/teardown within each day.
	SetupBufferMinutes = 60
	// UsableDayMinutes is the schedulable scene time per day.
	UsableDayMinutes = ShootDayMinutes - SetupBufferMinutes

	// Advisory day-count guidance passed to the generative service. The
	// deterministic packer and the assembler do not enforce these; overruns
	// are logged, not re-packed.
	ArcDayTargetMin  = 3
	ArcDayTargetMax  = 5
	ArcDayCeiling    = 7
	SeriesDayTarget  = 21
	SeriesDayCeiling = 28

	fallbackCallTime = "08:00"
	fallbackWrapTime = "18:00"
	defaultCallTime  = "09:00"
	defaultWrapTime  = "18:00"
)

// Input carries everything one scheduling run needs. It is read-only for the
// duration of the run.
type Input struct {
	Mode           models.ScheduleMode
	Episodes       []int
	Breakdowns     map[int]models.EpisodeBreakdown
	LocationGroups []models.LocationGroup

	// DeterministicOnly skips the generative path for every batch.
	DeterministicOnly bool
}

// Batch is a generation-sized subset of the aggregated scene set. Batches are
// a transient artifact of one run and are never persisted.
type Batch struct {
	Index     int
	Locations []string
	Scenes    []models.Scene
}

// SceneCount reports the number of scenes in the batch.
func (b Batch) SceneCount() int {
	return len(b.Scenes)
}

// Config tunes the engine. Zero values fall back to the package defaults.
type Config struct {
	BatchSceneLimit int
	DayMinutes      int
	SetupBuffer     int
}

func (c Config) withDefaults() Config {
	if c.BatchSceneLimit <= 0 {
		c.BatchSceneLimit = DefaultBatchSceneLimit
	}
	if c.DayMinutes <= 0 {
		c.DayMinutes = ShootDayMinutes
	}
	if c.SetupBuffer <= 0 {
		c.SetupBuffer = SetupBufferMinutes
	}
	return c
}

func (c Config) usableMinutes() int {
	usable := c.DayMinutes - c.SetupBuffer
	if usable <= 0 {
		return UsableDayMinutes
	}
	return usable
}
