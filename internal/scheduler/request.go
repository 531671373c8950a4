package scheduler

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/showrunner-hq/showrunner-api/internal/models"
)

// BatchRequest is the structured instruction for one generative call: fixed
// scheduling constraints as the system message, the batch's scene/location/
// cast context as a JSON user message.
type BatchRequest struct {
	System string
	User   string
	Batch  Batch
}

type requestLocation struct {
	Name         string   `json:"name"`
	SceneCount   int      `json:"sceneCount"`
	TotalMinutes int      `json:"totalMinutes"`
	Exterior     bool     `json:"exterior"`
	TimesOfDay   []string `json:"timesOfDay"`
	Venue        string   `json:"venue,omitempty"`
	VenueAddress string   `json:"venueAddress,omitempty"`
}

type requestScene struct {
	Episode         int      `json:"episode"`
	Scene           int      `json:"scene"`
	Title           string   `json:"title,omitempty"`
	Location        string   `json:"location"`
	TimeOfDay       string   `json:"timeOfDay"`
	DurationMinutes int      `json:"durationMinutes"`
	Cast            []string `json:"cast,omitempty"`
}

type requestPayload struct {
	Mode      string            `json:"mode"`
	Batch     int               `json:"batch"`
	Batches   int               `json:"batches"`
	Locations []requestLocation `json:"locations"`
	Scenes    []requestScene    `json:"scenes"`
}

// BuildBatchRequest renders the scheduling instruction for one batch. Pure
// data transformation; it never calls the generative service.
func BuildBatchRequest(in Input, batch Batch, profiles *LocationProfiles, totalBatches int, cfg Config) (BatchRequest, error) {
	cfg = cfg.withDefaults()

	payload := requestPayload{
		Mode:    string(in.Mode),
		Batch:   batch.Index + 1,
		Batches: totalBatches,
	}
	for _, name := range batch.Locations {
		profile := profiles.Get(name)
		if profile == nil {
			continue
		}
		loc := requestLocation{
			Name:         name,
			SceneCount:   profile.SceneCount,
			TotalMinutes: profile.TotalMinutes,
			Exterior:     profile.Exterior,
		}
		for _, tod := range []models.TimeOfDay{
			models.TimeOfDayDay, models.TimeOfDayNight, models.TimeOfDaySunrise,
			models.TimeOfDaySunset, models.TimeOfDayMagicHour,
		} {
			if count := profile.TimeOfDay[tod]; count > 0 {
				loc.TimesOfDay = append(loc.TimesOfDay, fmt.Sprintf("%s:%d", tod, count))
			}
		}
		if profile.Venue != nil {
			loc.Venue = profile.Venue.Name
			loc.VenueAddress = profile.Venue.Address
		}
		payload.Locations = append(payload.Locations, loc)
	}
	for _, scene := range batch.Scenes {
		payload.Scenes = append(payload.Scenes, requestScene{
			Episode:         scene.Episode,
			Scene:           scene.Number,
			Title:           scene.Title,
			Location:        scene.Location,
			TimeOfDay:       string(scene.TimeOfDay),
			DurationMinutes: scene.DurationMinutes,
			Cast:            scene.Cast,
		})
	}

	user, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return BatchRequest{}, fmt.Errorf("encode batch payload: %w", err)
	}

	return BatchRequest{
		System: buildSystemInstruction(in.Mode, totalBatches, cfg),
		User:   string(user),
		Batch:  batch,
	}, nil
}

func buildSystemInstruction(mode models.ScheduleMode, totalBatches int, cfg Config) string {
	var b strings.Builder
	b.WriteString("You are a line producer building a shooting schedule for a micro-budget episodic production.\n")
	b.WriteString("Plan shoot days for the scenes provided in the user message.\n\n")
	b.WriteString("Hard rules:\n")
	b.WriteString("- Every shoot day covers exactly one location.\n")
	b.WriteString("- Finish all of a location's scenes within 1-3 consecutive days before moving to the next location; never revisit a finished location.\n")
	b.WriteString("- For exterior locations with both DAY and NIGHT scenes, split the work into a DAY-only day and a NIGHT-only day.\n")
	fmt.Fprintf(&b, "- A shoot day holds at most %d minutes of scene work (%d-minute day minus %d minutes setup). Spread longer locations across consecutive days.\n",
		cfg.usableMinutes(), cfg.DayMinutes, cfg.SetupBuffer)
	fmt.Fprintf(&b, "- Target %d-%d shoot days for this arc; never exceed %d.\n", ArcDayTargetMin, ArcDayTargetMax, ArcDayCeiling)
	if mode == models.ScheduleModeCrossEpisode && totalBatches > 1 {
		fmt.Fprintf(&b, "- Across the whole series aim for about %d shoot days total, hard ceiling %d; keep this batch proportionate.\n", SeriesDayTarget, SeriesDayCeiling)
	}
	b.WriteString("- When a location lists a venue name, label the day with the venue name rather than the script location string.\n")
	b.WriteString("- Add a weather contingency note to every exterior day.\n\n")
	b.WriteString("Respond with ONLY a JSON array of shoot days, no prose and no markdown fences. Each element:\n")
	b.WriteString(`{"dayNumber":1,"location":"...","callTime":"09:00","estimatedWrapTime":"18:00",` +
		`"scenes":[{"episode":1,"scene":1,"durationMinutes":45,"priority":1}],` +
		`"cast":[],"crew":[],"equipment":[],"notes":"","weatherContingency":"","status":"scheduled"}`)
	b.WriteString("\nNumber days sequentially starting at 1.")
	return b.String()
}
