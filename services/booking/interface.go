package booking

import (
	"context"

	"courtagent/models"
)

// ScanResult is what an observation source hands back for one date: the raw
// booking observations plus any visibility limitations it noticed. Visitor
// mode means the venue showed a reduced grid; results are annotated, never
// suppressed.
type ScanResult struct {
	Observations []models.RawObservation
	VisitorMode  bool
	Limitations  []string
}

// ObservationSource renders the venue's booking grid and extracts raw
// observations from it. Implementations own exactly one external session and
// serialize their page interactions internally.
type ObservationSource interface {
	SetDate(ctx context.Context, date string) error
	Scan(ctx context.Context, date string) (ScanResult, error)
	ListCourts(ctx context.Context) ([]string, error)
}

// CommitResult reports whether a reservation attempt reached a recognizable
// booking flow. Confirmed false with a nil error means the page reaction was
// ambiguous and the attempt must be treated as failed.
type CommitResult struct {
	Confirmed bool
	Detail    string
}

// CommitAction performs the actual reservation against the venue.
type CommitAction interface {
	AttemptCommit(ctx context.Context, slot models.CandidateSlot) (CommitResult, error)
}

// IntentParser extracts a structured booking intent from free text. Parsing
// is graceful: unrecognized fragments degrade to defaults, never errors.
type IntentParser interface {
	Parse(text string) models.BookingIntent
}

// RankingStrategy orders available candidates against an intent, best first,
// truncated to at most maxResults entries. Implementations must only return
// slots drawn from the candidates they were given; the workflow drops
// anything else.
type RankingStrategy interface {
	Rank(ctx context.Context, intent models.BookingIntent, candidates []models.CandidateSlot, maxResults int) ([]models.CandidateSlot, error)
}

// SessionStore persists pending workflow sessions between Execute and a later
// Confirm or Cancel. Get returns (nil, nil) when the session is unknown or
// has expired.
type SessionStore interface {
	Save(ctx context.Context, session *WorkflowSession) error
	Get(ctx context.Context, sessionID string) (*WorkflowSession, error)
	Delete(ctx context.Context, sessionID string) error
}

// WorkflowService is the caller-facing booking API.
type WorkflowService interface {
	Execute(ctx context.Context, rawText string) (*models.BookingOutcome, error)
	Confirm(ctx context.Context, sessionID string, slot models.CandidateSlot) (*models.BookingOutcome, error)
	Cancel(ctx context.Context, sessionID string) (*models.BookingOutcome, error)
}
