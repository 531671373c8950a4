package scheduler

import (
	"fmt"

	"github.com/showrunner-hq/showrunner-api/internal/models"
)

// MissingBreakdownError is returned when a requested episode has no breakdown
// or zero scenes. It is fatal for the whole run: nothing can be scheduled
// without scene data.
type MissingBreakdownError struct {
	Episode int
}

func (e *MissingBreakdownError) Error() string {
	return fmt.Sprintf("no scene breakdown for episode %d", e.Episode)
}

// AggregateScenes flattens the per-episode breakdowns for the requested
// episodes into one ordered scene list. Episode and scene numbers are
// preserved; each scene is stamped with its ordinal position in the input
// stream. Missing durations default here, at the mapping boundary, so the
// rest of the engine never sees a zero duration.
func AggregateScenes(breakdowns map[int]models.EpisodeBreakdown, episodes []int) ([]models.Scene, error) {
	var scenes []models.Scene
	ordinal := 0
	for _, episode := range episodes {
		breakdown, ok := breakdowns[episode]
		if !ok || len(breakdown.Scenes) == 0 {
			return nil, &MissingBreakdownError{Episode: episode}
		}
		for _, scene := range breakdown.Scenes {
			scene.Episode = episode
			if scene.DurationMinutes <= 0 {
				scene.DurationMinutes = DefaultSceneMinutes
			}
			if scene.TimeOfDay == "" {
				scene.TimeOfDay = models.TimeOfDayDay
			}
			scene.Ordinal = ordinal
			ordinal++
			scenes = append(scenes, scene)
		}
	}
	return scenes, nil
}
