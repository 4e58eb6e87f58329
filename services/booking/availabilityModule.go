package booking

import (
	"sort"

	"courtagent/models"
)

// Overlaps reports whether two half-open intervals [s1,e1) and [s2,e2)
// intersect. Back-to-back slots (one ends exactly when the other starts) do
// not overlap.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// AvailabilityResult is the resolved picture for one date: every candidate
// slot labelled available or not, plus per-court summaries and any
// annotations inherited from the scan.
type AvailabilityResult struct {
	Date          string                      `json:"date"`
	Records       []models.AvailabilityRecord `json:"records"`
	Available     []models.CandidateSlot      `json:"available"`
	BookedCount   int                         `json:"bookedCount"`
	Summaries     []models.CourtSummary       `json:"summaries"`
	VisitorMode   bool                        `json:"visitorMode"`
	LowConfidence bool                        `json:"lowConfidence"`
	Warnings      []string                    `json:"warnings,omitempty"`
}

// ResolveAvailability marks each candidate slot available unless it overlaps
// a booked interval on the same court. Candidates keep their generator order.
func ResolveAvailability(date string, candidates []models.CandidateSlot, booked []models.BookedInterval) AvailabilityResult {
	bookedByCourt := make(map[int][]models.BookedInterval)
	for _, b := range booked {
		bookedByCourt[b.CourtID] = append(bookedByCourt[b.CourtID], b)
	}

	result := AvailabilityResult{Date: date, BookedCount: len(booked)}
	perCourt := make(map[int]*models.CourtSummary)

	for _, slot := range candidates {
		available := true
		for _, b := range bookedByCourt[slot.CourtID] {
			if Overlaps(slot.Start, slot.End, b.Start, b.End) {
				available = false
				break
			}
		}

		result.Records = append(result.Records, models.AvailabilityRecord{Slot: slot, Available: available})
		if available {
			result.Available = append(result.Available, slot)
		}

		summary, ok := perCourt[slot.CourtID]
		if !ok {
			summary = &models.CourtSummary{CourtID: slot.CourtID}
			perCourt[slot.CourtID] = summary
		}
		if available {
			summary.Available++
		} else {
			summary.Booked++
		}
	}

	courtIDs := make([]int, 0, len(perCourt))
	for id := range perCourt {
		courtIDs = append(courtIDs, id)
	}
	sort.Ints(courtIDs)
	for _, id := range courtIDs {
		result.Summaries = append(result.Summaries, *perCourt[id])
	}

	return result
}
