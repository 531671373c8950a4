package models

// RehearsalType enumerates the supported rehearsal formats.
type RehearsalType string

const (
	RehearsalTableRead RehearsalType = "table_read"
	RehearsalBlocking  RehearsalType = "blocking"
	RehearsalTechnical RehearsalType = "technical"
	RehearsalFullRun   RehearsalType = "full_run"
)

// RehearsalSession is an advisory rehearsal proposal derived from a finished
// schedule. Sessions never block schedule delivery.
type RehearsalSession struct {
	Type            RehearsalType `json:"type"`
	Date            string        `json:"date,omitempty"`
	Time            string        `json:"time,omitempty"`
	DurationMinutes int           `json:"durationMinutes"`
	Scenes          []SceneKey    `json:"scenes,omitempty"`
	Cast            []string      `json:"cast,omitempty"`
	Goals           string        `json:"goals,omitempty"`
}
