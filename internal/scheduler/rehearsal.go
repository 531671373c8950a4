package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/showrunner-hq/showrunner-api/internal/models"
)

type rehearsalPayload struct {
	TotalShootDays int                  `json:"totalShootDays"`
	Days           []models.ShootingDay `json:"days"`
	Scenes         []requestScene       `json:"scenes"`
}

type rawRehearsal struct {
	Type            string            `json:"type"`
	Date            string            `json:"date"`
	Time            string            `json:"time"`
	DurationMinutes int               `json:"durationMinutes"`
	Scenes          []models.SceneKey `json:"scenes"`
	Cast            []string          `json:"cast"`
	Goals           string            `json:"goals"`
}

var rehearsalTypes = map[string]models.RehearsalType{
	"table_read": models.RehearsalTableRead,
	"blocking":   models.RehearsalBlocking,
	"technical":  models.RehearsalTechnical,
	"full_run":   models.RehearsalFullRun,
}

// SuggestRehearsals asks the generative service for 3-5 rehearsal sessions
// derived from a finished schedule. Rehearsals are advisory: any failure,
// including a disabled generator, reduces to an empty list and never blocks
// schedule delivery. There is deliberately no deterministic fallback here.
func (e *Engine) SuggestRehearsals(ctx context.Context, schedule *models.ShootingSchedule, in Input) []models.RehearsalSession {
	if e.gen == nil || schedule == nil || len(schedule.Days) == 0 {
		return nil
	}

	scenes, err := AggregateScenes(in.Breakdowns, in.Episodes)
	if err != nil {
		e.logger.Warn("rehearsal_suggestions_skipped", zap.Error(err))
		return nil
	}

	payload := rehearsalPayload{
		TotalShootDays: schedule.TotalShootDays,
		Days:           schedule.Days,
	}
	for _, scene := range scenes {
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
		e.logger.Warn("rehearsal_suggestions_skipped", zap.Error(err))
		return nil
	}

	raw, err := e.gen.Generate(ctx, rehearsalInstruction(), string(user))
	if err != nil {
		e.logger.Warn("rehearsal_suggestions_failed", zap.Error(err))
		return nil
	}

	sessions := parseRehearsals(raw)
	if sessions == nil {
		e.logger.Warn("rehearsal_suggestions_unparseable", zap.Int("response_length", len(raw)))
	}
	return sessions
}

func rehearsalInstruction() string {
	var b strings.Builder
	b.WriteString("You are a first assistant director planning rehearsals before a shoot.\n")
	b.WriteString("Given the shooting schedule and scene list in the user message, propose 3 to 5 rehearsal sessions.\n")
	fmt.Fprintf(&b, "Allowed session types: %s.\n", "table_read, blocking, technical, full_run")
	b.WriteString("Schedule sessions before the days whose scenes they prepare.\n")
	b.WriteString("Respond with ONLY a JSON array, each element:\n")
	b.WriteString(`{"type":"table_read","date":"2026-01-05","time":"10:00","durationMinutes":120,` +
		`"scenes":[{"episode":1,"scene":1}],"cast":[],"goals":""}`)
	return b.String()
}

// parseRehearsals is deliberately lower-rigor than the schedule parser: strip
// fences, slice the array, drop trailing commas, one parse attempt.
func parseRehearsals(raw string) []models.RehearsalSession {
	candidate := sanitizeJSON(sliceArray(stripFences(raw)))
	var parsed []rawRehearsal
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil
	}

	sessions := make([]models.RehearsalSession, 0, len(parsed))
	for _, item := range parsed {
		kind, ok := rehearsalTypes[strings.ToLower(strings.TrimSpace(item.Type))]
		if !ok {
			continue
		}
		duration := item.DurationMinutes
		if duration <= 0 {
			duration = 120
		}
		sessions = append(sessions, models.RehearsalSession{
			Type:            kind,
			Date:            item.Date,
			Time:            item.Time,
			DurationMinutes: duration,
			Scenes:          item.Scenes,
			Cast:            item.Cast,
			Goals:           item.Goals,
		})
	}
	if len(sessions) == 0 {
		return nil
	}
	if len(sessions) > 5 {
		sessions = sessions[:5]
	}
	return sessions
}
