package scheduler

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/showrunner-hq/showrunner-api/internal/models"
)

// ScheduleParseError reports that every recovery layer failed on a generative
// response. It carries enough of the response to diagnose provider drift
// without reproducing the run. Callers catch it and substitute the
// deterministic packer for the affected batch.
type ScheduleParseError struct {
	Length int
	Head   string
	Tail   string
	Err    error
}

func (e *ScheduleParseError) Error() string {
	return fmt.Sprintf("unparseable schedule response (%d bytes): %v", e.Length, e.Err)
}

func (e *ScheduleParseError) Unwrap() error {
	return e.Err
}

const parsePreviewBytes = 300

func newParseError(raw string, err error) *ScheduleParseError {
	head := raw
	tail := ""
	if len(raw) > parsePreviewBytes {
		head = raw[:parsePreviewBytes]
		tail = raw[len(raw)-parsePreviewBytes:]
	}
	return &ScheduleParseError{Length: len(raw), Head: head, Tail: tail, Err: err}
}

// rawShootingDay mirrors the JSON shape requested from the generative
// service. Missing fields are defaulted during mapping, not here.
type rawShootingDay struct {
	DayNumber   int           `json:"dayNumber"`
	Location    string        `json:"location"`
	Venue       string        `json:"venue"`
	CallTime    string        `json:"callTime"`
	WrapTime    string        `json:"estimatedWrapTime"`
	Scenes      []rawSceneRef `json:"scenes"`
	Cast        []string      `json:"cast"`
	Crew        []string      `json:"crew"`
	Equipment   []string      `json:"equipment"`
	Notes       string        `json:"notes"`
	WeatherNote string        `json:"weatherContingency"`
	Status      string        `json:"status"`
}

type rawSceneRef struct {
	Episode         int    `json:"episode"`
	Scene           int    `json:"scene"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"durationMinutes"`
	Priority        int    `json:"priority"`
}

var (
	fenceRe         = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	lineCommentRe   = regexp.MustCompile(`(?m)^\s*//.*$`)
	daysKeyRe       = regexp.MustCompile(`"days"\s*:\s*\[`)
)

// RecoveryLayer names the repair step that made a response parseable.
type RecoveryLayer string

const (
	RecoveryNone     RecoveryLayer = "none"
	RecoverySubArray RecoveryLayer = "days_subarray"
	RecoveryTruncate RecoveryLayer = "truncate"
)

// ParseDays extracts a JSON array of shoot days from free-form generative
// output, repairing markdown fencing, surrounding prose, trailing commas,
// line comments and mid-object truncation. It reports which recovery layer
// succeeded so callers can log drift.
func ParseDays(raw string) ([]rawShootingDay, RecoveryLayer, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, RecoveryNone, newParseError(raw, fmt.Errorf("empty response"))
	}

	// The model sometimes wraps the array in an envelope object. Slicing to
	// the outer brackets usually lands on the day array anyway, so the
	// envelope has to be detected before slicing for the layer to be
	// reported correctly.
	candidate := stripFences(raw)
	envelope := isDaysEnvelope(candidate)
	candidate = sliceArray(candidate)
	candidate = sanitizeJSON(candidate)

	if days, err := unmarshalDays(candidate); err == nil {
		if envelope {
			return days, RecoverySubArray, nil
		}
		return days, RecoveryNone, nil
	}

	if sub, ok := extractDaysSubArray(candidate); ok {
		if days, err := unmarshalDays(sanitizeJSON(sub)); err == nil {
			return days, RecoverySubArray, nil
		}
	}

	// Truncated output: cut back to the last complete object and close the
	// array. Works on the unsliced tail because sliceArray may have clipped
	// at an inner array's bracket. One retry only.
	if repaired, ok := repairTruncation(openTail(raw)); ok {
		if days, err := unmarshalDays(sanitizeJSON(repaired)); err == nil {
			return days, RecoveryTruncate, nil
		}
	}

	_, err := unmarshalDays(candidate)
	return nil, RecoveryNone, newParseError(raw, err)
}

func unmarshalDays(candidate string) ([]rawShootingDay, error) {
	var days []rawShootingDay
	if err := json.Unmarshal([]byte(candidate), &days); err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("response contained no shoot days")
	}
	return days, nil
}

func stripFences(raw string) string {
	if match := fenceRe.FindStringSubmatch(raw); len(match) == 2 {
		return match[1]
	}
	return raw
}

// sliceArray discards leading and trailing prose around the outermost array.
func sliceArray(raw string) string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 {
		return raw
	}
	if end > start {
		return raw[start : end+1]
	}
	// No closing bracket: keep everything from the array start so the
	// truncation layer can work with it.
	return raw[start:]
}

func sanitizeJSON(raw string) string {
	cleaned := lineCommentRe.ReplaceAllString(raw, "")
	cleaned = trailingCommaRe.ReplaceAllString(cleaned, "$1")
	return strings.TrimSpace(cleaned)
}

// isDaysEnvelope reports whether the response is an object carrying the day
// array under a "days" property rather than a bare array.
func isDaysEnvelope(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return strings.HasPrefix(trimmed, "{") && daysKeyRe.MatchString(trimmed)
}

// extractDaysSubArray locates a `"days": [ ... ]` property and returns the
// bracket-balanced array text.
func extractDaysSubArray(raw string) (string, bool) {
	loc := daysKeyRe.FindStringIndex(raw)
	if loc == nil {
		return "", false
	}
	start := strings.Index(raw[loc[0]:], "[") + loc[0]
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	// Unbalanced: return the open tail so truncation repair can finish it.
	return raw[start:], true
}

// openTail strips fencing and returns everything from the outermost array's
// opening bracket, keeping any incomplete tail intact.
func openTail(raw string) string {
	s := stripFences(raw)
	if i := strings.Index(s, "["); i >= 0 {
		return s[i:]
	}
	return s
}

// repairTruncation trims a response that stopped mid-element back to the end
// of its last complete top-level element and appends the missing `]`. Returns
// false when the array is already balanced or holds no complete element.
func repairTruncation(raw string) (string, bool) {
	trimmed := strings.TrimSpace(sanitizeJSON(raw))
	if trimmed == "" || trimmed[0] != '[' {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	lastComplete := -1
	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 1 {
				lastComplete = i
			}
			if depth == 0 {
				return "", false
			}
		}
	}
	if lastComplete == -1 {
		return "", false
	}
	return trimmed[:lastComplete+1] + "]", true
}

// MapDays converts parsed raw days into ShootingDay values, applying the
// defaults the data model promises (09:00 call, 18:00 wrap, empty lists) and
// attaching venue metadata by matching the day's location label against known
// location and venue names.
func MapDays(raw []rawShootingDay, profiles *LocationProfiles) []models.ShootingDay {
	days := make([]models.ShootingDay, 0, len(raw))
	for i, rd := range raw {
		day := models.ShootingDay{
			DayNumber:   rd.DayNumber,
			Location:    strings.TrimSpace(rd.Location),
			Venue:       strings.TrimSpace(rd.Venue),
			CallTime:    rd.CallTime,
			WrapTime:    rd.WrapTime,
			Cast:        rd.Cast,
			Crew:        rd.Crew,
			Equipment:   rd.Equipment,
			Notes:       rd.Notes,
			WeatherNote: rd.WeatherNote,
			Status:      models.DayStatus(rd.Status),
		}
		if day.DayNumber <= 0 {
			day.DayNumber = i + 1
		}
		if day.CallTime == "" {
			day.CallTime = defaultCallTime
		}
		if day.WrapTime == "" {
			day.WrapTime = defaultWrapTime
		}
		if day.Status == "" {
			day.Status = models.DayStatusScheduled
		}
		if day.Cast == nil {
			day.Cast = []string{}
		}
		if day.Crew == nil {
			day.Crew = []string{}
		}
		if day.Equipment == nil {
			day.Equipment = []string{}
		}
		day.Scenes = make([]models.SceneRef, 0, len(rd.Scenes))
		for _, ref := range rd.Scenes {
			duration := ref.DurationMinutes
			if duration <= 0 {
				duration = DefaultSceneMinutes
			}
			day.Scenes = append(day.Scenes, models.SceneRef{
				Episode:         ref.Episode,
				Scene:           ref.Scene,
				Title:           ref.Title,
				DurationMinutes: duration,
				Priority:        ref.Priority,
			})
		}

		if profile := MatchVenue(profiles, day.Location); profile != nil {
			if profile.Venue != nil && day.Venue == "" {
				day.Venue = profile.Venue.Name
			}
			if profile.Exterior && day.WeatherNote == "" {
				day.WeatherNote = exteriorWeatherNote
			}
		}
		days = append(days, day)
	}
	return days
}
