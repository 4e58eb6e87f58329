package models

import "fmt"

// CandidateSlot is a hypothetical bookable window generated purely from venue
// configuration, independent of occupancy. Start/End are minutes from
// midnight; End-Start always equals DurationMinutes.
type CandidateSlot struct {
	CourtID         int    `json:"courtId"`
	Date            string `json:"date"` // YYYY-MM-DD
	Start           int    `json:"start"`
	End             int    `json:"end"`
	DurationMinutes int    `json:"durationMinutes"`
}

// Key is the slot's exact identity, used to match oracle selections and
// confirmation requests back to offered candidates.
func (s CandidateSlot) Key() string {
	return fmt.Sprintf("%d|%s|%d|%d", s.CourtID, s.Date, s.Start, s.End)
}

// TimeRange renders the window the way the venue's grid prints it,
// e.g. "7:00 PM–9:00 PM".
func (s CandidateSlot) TimeRange() string {
	return FormatClock(s.Start) + "–" + FormatClock(s.End)
}

// Label is the human-facing description used in confirmation messages and
// oracle prompts, e.g. "Court #3 at 7:00 PM–9:00 PM on 2025-09-09".
func (s CandidateSlot) Label() string {
	return fmt.Sprintf("Court #%d at %s on %s", s.CourtID, s.TimeRange(), s.Date)
}

// ContainsTime reports whether a preferred time falls inside the slot window,
// boundaries included.
func (s CandidateSlot) ContainsTime(minutes int) bool {
	return s.Start <= minutes && minutes <= s.End
}

// AvailabilityRecord is a candidate slot annotated by conflict resolution
// against the booked intervals of one scan.
type AvailabilityRecord struct {
	Slot      CandidateSlot `json:"slot"`
	Available bool          `json:"available"`
}

// CourtSummary aggregates per-court availability counts for diagnostics.
type CourtSummary struct {
	CourtID   int `json:"courtId"`
	Available int `json:"available"`
	Booked    int `json:"booked"`
}
