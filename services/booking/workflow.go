package booking

import (
	"context"
	"fmt"
	"time"

	"courtagent/models"
	"courtagent/services/occupancy"
	"courtagent/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingWorkflow drives a booking request end to end: parse the
// intent, scan the venue, resolve availability, rank candidates, then either
// auto-book or park a session awaiting confirmation.
type DefaultBookingWorkflow struct {
	Venue     models.VenueConfig
	Source    ObservationSource
	Committer CommitAction
	Parser    IntentParser
	Ranker    RankingStrategy
	Sessions  SessionStore

	// Ranked ties scoring at or above this threshold block an exact-match
	// verdict and force the alternatives path.
	AlternativeThreshold float64
}

// NewDefaultBookingWorkflow wires a workflow with the deterministic ranker
// unless another strategy is supplied.
func NewDefaultBookingWorkflow(venue models.VenueConfig, source ObservationSource, committer CommitAction, parser IntentParser, ranker RankingStrategy, sessions SessionStore) *DefaultBookingWorkflow {
	if ranker == nil {
		ranker = DefaultRankingStrategy{}
	}
	return &DefaultBookingWorkflow{
		Venue:                venue,
		Source:               source,
		Committer:            committer,
		Parser:               parser,
		Ranker:               ranker,
		Sessions:             sessions,
		AlternativeThreshold: 1.0,
	}
}

// ResolveForDate scans the venue's grid for one date and resolves the full
// availability picture against the candidate slot universe. Scan annotations
// (visitor mode, low-confidence clustering) are carried through, never used
// to suppress results.
func (w *DefaultBookingWorkflow) ResolveForDate(ctx context.Context, date string) (*AvailabilityResult, error) {
	if err := w.Source.SetDate(ctx, date); err != nil {
		return nil, fmt.Errorf("failed to set grid date: %w", err)
	}
	scan, err := w.Source.Scan(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to scan booking grid: %w", err)
	}

	snapshot := occupancy.BuildSnapshot(scan.Observations, w.Venue.CourtCount, w.Venue.ClusterTolerance)
	candidates := BuildCandidateSlots(w.Venue, date)

	result := ResolveAvailability(date, candidates, snapshot.Booked)
	result.VisitorMode = scan.VisitorMode
	result.LowConfidence = snapshot.LowConfidence
	result.Warnings = append(result.Warnings, snapshot.Warnings...)
	result.Warnings = append(result.Warnings, scan.Limitations...)
	return &result, nil
}

// Execute runs the full workflow for one free-text request. Domain failures
// (nothing available, the venue unreachable) come back as a failed outcome,
// not an error; errors are reserved for infrastructure faults such as the
// session store being down.
func (w *DefaultBookingWorkflow) Execute(ctx context.Context, rawText string) (*models.BookingOutcome, error) {
	logger := utils.GetLogger()

	intent := w.Parser.Parse(rawText)
	if intent.Date == "" {
		intent.Date = time.Now().Format("2006-01-02")
	}
	logger.Info("executing booking workflow",
		zap.String("date", intent.Date),
		zap.String("strategy", string(intent.Strategy)),
		zap.String("mode", string(intent.Mode)))

	availability, err := w.ResolveForDate(ctx, intent.Date)
	if err != nil {
		logger.Error("availability resolution failed", zap.Error(err))
		return &models.BookingOutcome{
			Status:  models.StatusFailedNoSlots,
			Message: fmt.Sprintf("could not resolve availability: %v", err),
		}, nil
	}
	if ctx.Err() != nil {
		return w.cancelledOutcome(), nil
	}

	if len(availability.Available) == 0 {
		return &models.BookingOutcome{
			Status:      models.StatusFailedNoSlots,
			Message:     fmt.Sprintf("no courts available on %s", intent.Date),
			VisitorMode: availability.VisitorMode,
			Warnings:    availability.Warnings,
		}, nil
	}

	ranked, err := w.Ranker.Rank(ctx, intent, availability.Available, w.Venue.MaxAlternatives)
	if err != nil {
		logger.Warn("ranking strategy failed, falling back to deterministic ranking", zap.Error(err))
		ranked, _ = DefaultRankingStrategy{}.Rank(ctx, intent, availability.Available, w.Venue.MaxAlternatives)
	}
	ranked = FilterToKnown(availability.Available, ranked)
	if len(ranked) == 0 {
		return &models.BookingOutcome{
			Status:      models.StatusFailedNoSlots,
			Message:     fmt.Sprintf("%d slots are open on %s but none match the request", len(availability.Available), intent.Date),
			VisitorMode: availability.VisitorMode,
			Warnings:    availability.Warnings,
		}, nil
	}

	top := ranked[0]
	topScore := ScoreSlot(intent, top)
	ties := 0
	for _, alt := range ranked[1:] {
		if ScoreSlot(intent, alt) >= w.AlternativeThreshold {
			ties++
		}
	}
	exact := len(ranked) == 1 || (intent.HasTimePreference() && topScore == 1.0 && ties == 0)

	session := &WorkflowSession{
		SessionID:   uuid.New().String(),
		Date:        intent.Date,
		Intent:      intent,
		Offered:     ranked,
		VisitorMode: availability.VisitorMode,
		Warnings:    availability.Warnings,
		CreatedAt:   time.Now(),
	}

	if w.shouldAutoBook(intent, topScore) {
		if ctx.Err() != nil {
			return w.cancelledOutcome(), nil
		}
		return w.commit(ctx, session, top)
	}

	if exact {
		session.Status = models.StatusFoundExact
	} else {
		session.Status = models.StatusFoundAlternatives
	}
	if err := w.Sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist workflow session: %w", err)
	}

	outcome := &models.BookingOutcome{
		SessionID:    session.SessionID,
		Status:       models.StatusConfirmationNeeded,
		Message:      fmt.Sprintf("found %d matching slot(s), awaiting confirmation", len(ranked)),
		UserMessage:  w.confirmationMessage(top, ranked[1:], availability.VisitorMode),
		ChosenSlot:   &top,
		Alternatives: ranked[1:],
		VisitorMode:  availability.VisitorMode,
		Warnings:     availability.Warnings,
	}
	return outcome, nil
}

// Confirm books one of the slots offered by a previous Execute. Confirming a
// slot outside the offered set is a stale selection and the caller must
// re-resolve availability first.
func (w *DefaultBookingWorkflow) Confirm(ctx context.Context, sessionID string, slot models.CandidateSlot) (*models.BookingOutcome, error) {
	session, err := w.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow session: %w", err)
	}
	if session == nil {
		return nil, NewSessionExpiredError("booking session not found or expired, please start over")
	}
	if !session.Contains(slot) {
		return nil, NewStaleSelectionError(fmt.Sprintf("%s was not among the offered slots, availability must be re-resolved", slot.Label()))
	}
	if ctx.Err() != nil {
		return w.cancelledOutcome(), nil
	}
	return w.commit(ctx, session, slot)
}

// Cancel abandons a pending session. No external booking attempt is made.
func (w *DefaultBookingWorkflow) Cancel(ctx context.Context, sessionID string) (*models.BookingOutcome, error) {
	session, err := w.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow session: %w", err)
	}
	if session == nil {
		return nil, NewSessionExpiredError("booking session not found or expired")
	}
	if err := w.Sessions.Delete(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("failed to delete workflow session: %w", err)
	}
	return w.cancelledOutcome(), nil
}

// shouldAutoBook decides whether the workflow may commit without asking. An
// explicit confirmation mode always wins over strategy.
func (w *DefaultBookingWorkflow) shouldAutoBook(intent models.BookingIntent, topScore float64) bool {
	if intent.Mode == models.ModeAutomated {
		return true
	}
	if intent.Mode == models.ModeConfirm {
		return false
	}
	return intent.Strategy == models.StrategyExact && topScore == 1.0
}

func (w *DefaultBookingWorkflow) commit(ctx context.Context, session *WorkflowSession, slot models.CandidateSlot) (*models.BookingOutcome, error) {
	logger := utils.GetLogger()
	logger.Info("attempting booking commit", zap.String("slot", slot.Label()))

	result, err := w.Committer.AttemptCommit(ctx, slot)
	if err != nil || !result.Confirmed {
		detail := result.Detail
		if err != nil {
			detail = err.Error()
		}
		logger.Warn("booking commit did not confirm",
			zap.String("slot", slot.Label()), zap.String("detail", detail))

		remaining := session.WithoutSlot(slot)
		outcome := &models.BookingOutcome{
			SessionID:    session.SessionID,
			Status:       models.StatusFailed,
			Message:      fmt.Sprintf("booking %s did not complete: %s", slot.Label(), detail),
			Alternatives: remaining,
			VisitorMode:  session.VisitorMode,
			Warnings:     session.Warnings,
		}
		if len(remaining) > 0 {
			session.Offered = remaining
			session.Status = models.StatusFailed
			if saveErr := w.Sessions.Save(ctx, session); saveErr != nil {
				return nil, fmt.Errorf("failed to persist workflow session: %w", saveErr)
			}
			outcome.UserMessage = fmt.Sprintf("I could not complete the booking for %s. %d alternative(s) are still open, confirm one to retry.", slot.Label(), len(remaining))
		} else {
			_ = w.Sessions.Delete(ctx, session.SessionID)
			outcome.SessionID = ""
			outcome.UserMessage = fmt.Sprintf("I could not complete the booking for %s and no alternatives remain.", slot.Label())
		}
		return outcome, nil
	}

	if err := w.Sessions.Delete(ctx, session.SessionID); err != nil {
		logger.Warn("failed to delete completed session", zap.Error(err))
	}

	logger.Info("booking confirmed", zap.String("slot", slot.Label()))
	return &models.BookingOutcome{
		Status:      models.StatusSuccess,
		Success:     true,
		Message:     result.Detail,
		UserMessage: fmt.Sprintf("Booked %s.", slot.Label()),
		ChosenSlot:  &slot,
		VisitorMode: session.VisitorMode,
		Warnings:    session.Warnings,
	}, nil
}

func (w *DefaultBookingWorkflow) cancelledOutcome() *models.BookingOutcome {
	return &models.BookingOutcome{
		Status:  models.StatusCancelled,
		Message: "booking workflow cancelled, no reservation was made",
	}
}

func (w *DefaultBookingWorkflow) confirmationMessage(top models.CandidateSlot, alternatives []models.CandidateSlot, visitorMode bool) string {
	msg := fmt.Sprintf("Best match: %s.", top.Label())
	if len(alternatives) > 0 {
		msg += fmt.Sprintf(" %d alternative(s):", len(alternatives))
		for _, alt := range alternatives {
			msg += " " + alt.Label() + ";"
		}
	}
	msg += " Confirm to book."
	if visitorMode {
		msg += " Note: the venue is in visitor mode, availability may be incomplete."
	}
	return msg
}
