package booking

import "courtagent/models"

// BuildCandidateSlots enumerates every bookable slot the venue could offer on
// the given date: each court crossed with each start time on the step grid and
// each allowed duration, keeping only slots that end at or before closing.
// Order is deterministic: court-major, then start time, then duration.
func BuildCandidateSlots(venue models.VenueConfig, date string) []models.CandidateSlot {
	var slots []models.CandidateSlot
	for court := 1; court <= venue.CourtCount; court++ {
		for start := venue.OpeningMinutes; start < venue.ClosingMinutes; start += venue.StepMinutes {
			for _, duration := range venue.AllowedDurations {
				end := start + duration
				if end > venue.ClosingMinutes {
					continue
				}
				slots = append(slots, models.CandidateSlot{
					CourtID:         court,
					Date:            date,
					Start:           start,
					End:             end,
					DurationMinutes: duration,
				})
			}
		}
	}
	return slots
}
