package models

// BookingStrategy controls how strictly a request is matched.
type BookingStrategy string

const (
	StrategyExact         BookingStrategy = "exact"
	StrategySmartFallback BookingStrategy = "smart_fallback"
	StrategyFlexible      BookingStrategy = "flexible"
)

// InteractionMode controls whether the workflow may commit without an
// explicit user confirmation. Hybrid defers to the strategy: an
// exact-strategy perfect match auto-books, anything else asks for
// confirmation.
type InteractionMode string

const (
	ModeAutomated InteractionMode = "automated"
	ModeConfirm   InteractionMode = "confirmation"
	ModeHybrid    InteractionMode = "hybrid"
)

// BookingIntent is the structured form of a free-text booking request.
// Every preference field is optional; an intent with nothing resolved is
// valid and later defaults to "today, any court, any available time".
// Intents are immutable after parsing.
type BookingIntent struct {
	RawText            string          `json:"rawText"`
	Date               string          `json:"date,omitempty"` // YYYY-MM-DD, empty when unresolved
	Time               *int            `json:"time,omitempty"` // minutes from midnight
	AfterTime          *int            `json:"afterTime,omitempty"`
	Court              *int            `json:"court,omitempty"`
	DurationMinutes    *int            `json:"durationMinutes,omitempty"`
	FlexibilityMinutes int             `json:"flexibilityMinutes"`
	Strategy           BookingStrategy `json:"strategy"`
	Mode               InteractionMode `json:"interactionMode"`
}

// HasTimePreference reports whether the intent pins a specific start time.
func (i BookingIntent) HasTimePreference() bool {
	return i.Time != nil
}
