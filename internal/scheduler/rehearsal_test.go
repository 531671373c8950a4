package scheduler

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showrunner-hq/showrunner-api/internal/models"
)

const rehearsalJSON = `[
  {"type":"table_read","date":"2026-01-05","time":"10:00","durationMinutes":180,
   "scenes":[{"episode":1,"scene":1}],"cast":["Ana"],"goals":"Full cast read"},
  {"type":"blocking","date":"2026-01-06","time":"14:00",
   "scenes":[{"episode":1,"scene":2}],"cast":["Ana","Ben"],"goals":"Walk the apartment set"}
]`

func TestParseRehearsalsValidSessions(t *testing.T) {
	sessions := parseRehearsals(rehearsalJSON)
	require.Len(t, sessions, 2)
	assert.Equal(t, models.RehearsalTableRead, sessions[0].Type)
	assert.Equal(t, 180, sessions[0].DurationMinutes)
	assert.Equal(t, models.RehearsalBlocking, sessions[1].Type)
	assert.Equal(t, 120, sessions[1].DurationMinutes)
}

func TestParseRehearsalsSkipsUnknownTypes(t *testing.T) {
	raw := `[
  {"type":"improv_jam","date":"2026-01-05","time":"10:00"},
  {"type":"TECHNICAL","date":"2026-01-06","time":"09:00"}
]`
	sessions := parseRehearsals(raw)
	require.Len(t, sessions, 1)
	assert.Equal(t, models.RehearsalTechnical, sessions[0].Type)
}

func TestParseRehearsalsCapsAtFive(t *testing.T) {
	raw := "["
	for i := 0; i < 7; i++ {
		if i > 0 {
			raw += ","
		}
		raw += fmt.Sprintf(`{"type":"blocking","date":"2026-01-%02d","time":"10:00"}`, i+5)
	}
	raw += "]"

	sessions := parseRehearsals(raw)
	assert.Len(t, sessions, 5)
}

func TestParseRehearsalsGarbageReturnsNil(t *testing.T) {
	assert.Nil(t, parseRehearsals("no sessions today"))
	assert.Nil(t, parseRehearsals("[]"))
	assert.Nil(t, parseRehearsals(`[{"type":"unknown"}]`))
}

func TestSuggestRehearsalsDisabledGenerator(t *testing.T) {
	engine := NewEngine(nil, nil, nil, Config{})
	schedule := &models.ShootingSchedule{Days: []models.ShootingDay{{DayNumber: 1}}}
	assert.Nil(t, engine.SuggestRehearsals(context.Background(), schedule, singleLocationInput()))
}

func TestSuggestRehearsalsFromSchedule(t *testing.T) {
	gen := &stubGenerator{response: "```json\n" + rehearsalJSON + "\n```"}
	engine := NewEngine(gen, nil, nil, Config{})

	in := singleLocationInput()
	schedule, err := engine.Generate(context.Background(), Input{
		Mode:              in.Mode,
		Episodes:          in.Episodes,
		Breakdowns:        in.Breakdowns,
		DeterministicOnly: true,
	})
	require.NoError(t, err)

	sessions := engine.SuggestRehearsals(context.Background(), schedule, in)
	require.Len(t, sessions, 2)
	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.lastSystem, "rehearsal")
	assert.Contains(t, gen.lastUser, "Apartment")
}

func TestSuggestRehearsalsEmptySchedule(t *testing.T) {
	gen := &stubGenerator{response: rehearsalJSON}
	engine := NewEngine(gen, nil, nil, Config{})
	assert.Nil(t, engine.SuggestRehearsals(context.Background(), nil, singleLocationInput()))
	assert.Nil(t, engine.SuggestRehearsals(context.Background(), &models.ShootingSchedule{}, singleLocationInput()))
	assert.Zero(t, gen.calls)
}

func TestSuggestRehearsalsGeneratorFailure(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("provider unavailable")}
	engine := NewEngine(gen, nil, nil, Config{})
	schedule := &models.ShootingSchedule{Days: []models.ShootingDay{{DayNumber: 1}}, TotalShootDays: 1}
	assert.Nil(t, engine.SuggestRehearsals(context.Background(), schedule, singleLocationInput()))
}
