package models

// BookingStatus is the workflow state machine's vocabulary. A session moves
// PENDING -> ANALYZING -> {FOUND_EXACT | FOUND_ALTERNATIVES | FAILED_NO_SLOTS}
// -> [CONFIRMATION_NEEDED] -> BOOKING_IN_PROGRESS -> {SUCCESS | FAILED}.
// CANCELLED is reachable from any pre-commit state.
type BookingStatus string

const (
	StatusPending            BookingStatus = "pending"
	StatusAnalyzing          BookingStatus = "analyzing"
	StatusFoundExact         BookingStatus = "found_exact"
	StatusFoundAlternatives  BookingStatus = "found_alternatives"
	StatusFailedNoSlots      BookingStatus = "failed_no_slots"
	StatusConfirmationNeeded BookingStatus = "confirmation_needed"
	StatusBookingInProgress  BookingStatus = "booking_in_progress"
	StatusSuccess            BookingStatus = "booking_success"
	StatusFailed             BookingStatus = "booking_failed"
	StatusCancelled          BookingStatus = "cancelled"
)

// BookingOutcome is the terminal value of one workflow interaction. When the
// workflow stops at CONFIRMATION_NEEDED the SessionID identifies the pending
// session and Alternatives lists the offered candidates, best first.
type BookingOutcome struct {
	SessionID    string          `json:"sessionId,omitempty"`
	Status       BookingStatus   `json:"status"`
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	UserMessage  string          `json:"userMessage,omitempty"`
	ChosenSlot   *CandidateSlot  `json:"chosenSlot,omitempty"`
	Alternatives []CandidateSlot `json:"alternatives,omitempty"`
	VisitorMode  bool            `json:"visitorMode,omitempty"`
	Warnings     []string        `json:"warnings,omitempty"`
}
