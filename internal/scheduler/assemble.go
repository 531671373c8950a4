package scheduler

import (
	"time"

	"github.com/showrunner-hq/showrunner-api/internal/models"
)

// AssembleSchedule merges the per-batch day lists, in batch order, into one
// schedule with a contiguous 1..N day numbering. It is agnostic to whether a
// batch's days came from the generative path or the deterministic packer.
func AssembleSchedule(mode models.ScheduleMode, batchDays [][]models.ShootingDay, profiles *LocationProfiles) *models.ShootingSchedule {
	var days []models.ShootingDay
	for _, batch := range batchDays {
		days = append(days, batch...)
	}
	for i := range days {
		days[i].DayNumber = i + 1
		if days[i].Venue == "" {
			if profile := MatchVenue(profiles, days[i].Location); profile != nil && profile.Venue != nil {
				days[i].Venue = profile.Venue.Name
			}
		}
	}
	return &models.ShootingSchedule{
		Mode:           mode,
		Days:           days,
		TotalShootDays: len(days),
		UpdatedAt:      time.Now().UTC(),
	}
}
