package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"courtagent/models"
)

type stubSource struct {
	observations []models.RawObservation
	visitorMode  bool
	scanErr      error
	dateSet      string
}

func (s *stubSource) SetDate(_ context.Context, date string) error {
	s.dateSet = date
	return nil
}

func (s *stubSource) Scan(_ context.Context, _ string) (ScanResult, error) {
	if s.scanErr != nil {
		return ScanResult{}, s.scanErr
	}
	return ScanResult{Observations: s.observations, VisitorMode: s.visitorMode}, nil
}

func (s *stubSource) ListCourts(_ context.Context) ([]string, error) { return nil, nil }

type stubCommitter struct {
	confirmed bool
	err       error
	attempts  []models.CandidateSlot
}

func (c *stubCommitter) AttemptCommit(_ context.Context, slot models.CandidateSlot) (CommitResult, error) {
	c.attempts = append(c.attempts, slot)
	if c.err != nil {
		return CommitResult{}, c.err
	}
	return CommitResult{Confirmed: c.confirmed, Detail: "booking flow reached"}, nil
}

type stubParser struct {
	intent models.BookingIntent
}

func (p *stubParser) Parse(_ string) models.BookingIntent { return p.intent }

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*WorkflowSession
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]*WorkflowSession)}
}

func (m *memorySessionStore) Save(_ context.Context, session *WorkflowSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *session
	m.sessions[session.SessionID] = &copied
	return nil
}

func (m *memorySessionStore) Get(_ context.Context, sessionID string) (*WorkflowSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (m *memorySessionStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

func newTestWorkflow(intent models.BookingIntent, source *stubSource, committer *stubCommitter) (*DefaultBookingWorkflow, *memorySessionStore) {
	store := newMemorySessionStore()
	w := NewDefaultBookingWorkflow(testVenue(), source, committer, &stubParser{intent: intent}, nil, store)
	return w, store
}

func eveningIntent(mode models.InteractionMode, strategy models.BookingStrategy) models.BookingIntent {
	return models.BookingIntent{
		RawText:            "book court at 7 PM",
		Date:               "2025-09-09",
		Time:               intPtr(1140),
		FlexibilityMinutes: 30,
		Strategy:           strategy,
		Mode:               mode,
	}
}

func TestExecuteAutomatedModeBooksImmediately(t *testing.T) {
	source := &stubSource{}
	committer := &stubCommitter{confirmed: true}
	w, store := newTestWorkflow(eveningIntent(models.ModeAutomated, models.StrategySmartFallback), source, committer)

	outcome, err := w.Execute(context.Background(), "just book a court at 7 PM on 2025-09-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != models.StatusSuccess || !outcome.Success {
		t.Fatalf("expected success, got %s: %s", outcome.Status, outcome.Message)
	}
	if len(committer.attempts) != 1 {
		t.Fatalf("expected exactly one commit attempt, got %d", len(committer.attempts))
	}
	if !committer.attempts[0].ContainsTime(1140) {
		t.Errorf("committed slot %s does not cover 7 PM", committer.attempts[0].Label())
	}
	if source.dateSet != "2025-09-09" {
		t.Errorf("grid date not set, got %q", source.dateSet)
	}
	if len(store.sessions) != 0 {
		t.Errorf("completed workflow left %d sessions behind", len(store.sessions))
	}
}

func TestExecuteConfirmModeParksSession(t *testing.T) {
	source := &stubSource{}
	committer := &stubCommitter{confirmed: true}
	w, store := newTestWorkflow(eveningIntent(models.ModeConfirm, models.StrategyExact), source, committer)

	outcome, err := w.Execute(context.Background(), "book exactly 7 PM on 2025-09-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// An explicit confirmation mode overrides the exact-match auto-book rule.
	if outcome.Status != models.StatusConfirmationNeeded {
		t.Fatalf("expected confirmation_needed, got %s", outcome.Status)
	}
	if len(committer.attempts) != 0 {
		t.Fatalf("confirm mode must not commit, got %d attempts", len(committer.attempts))
	}
	if outcome.SessionID == "" {
		t.Fatal("expected a session ID")
	}
	if _, ok := store.sessions[outcome.SessionID]; !ok {
		t.Fatal("session not persisted")
	}
	if outcome.ChosenSlot == nil || !outcome.ChosenSlot.ContainsTime(1140) {
		t.Errorf("top recommendation should cover 7 PM")
	}
}

func TestConfirmBooksOfferedSlot(t *testing.T) {
	source := &stubSource{}
	committer := &stubCommitter{confirmed: true}
	w, _ := newTestWorkflow(eveningIntent(models.ModeConfirm, models.StrategySmartFallback), source, committer)

	parked, err := w.Execute(context.Background(), "book a court around 7 PM on 2025-09-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcome, err := w.Confirm(context.Background(), parked.SessionID, *parked.ChosenSlot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != models.StatusSuccess {
		t.Fatalf("expected success, got %s: %s", outcome.Status, outcome.Message)
	}
	if len(committer.attempts) != 1 || committer.attempts[0] != *parked.ChosenSlot {
		t.Errorf("confirmed slot was not the one committed")
	}
}

func TestConfirmRejectsStaleSelection(t *testing.T) {
	source := &stubSource{}
	committer := &stubCommitter{confirmed: true}
	w, _ := newTestWorkflow(eveningIntent(models.ModeConfirm, models.StrategySmartFallback), source, committer)

	parked, err := w.Execute(context.Background(), "book a court around 7 PM on 2025-09-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stale := slot(7, 480, 540) // never offered
	_, err = w.Confirm(context.Background(), parked.SessionID, stale)
	var wErr *WorkflowError
	if !errors.As(err, &wErr) || wErr.Code != CodeStaleSelection {
		t.Fatalf("expected stale selection error, got %v", err)
	}
	if len(committer.attempts) != 0 {
		t.Errorf("stale selection must not reach the committer")
	}
}

func TestConfirmUnknownSessionExpired(t *testing.T) {
	w, _ := newTestWorkflow(eveningIntent(models.ModeConfirm, models.StrategySmartFallback), &stubSource{}, &stubCommitter{})

	_, err := w.Confirm(context.Background(), "no-such-session", slot(1, 1140, 1260))
	var wErr *WorkflowError
	if !errors.As(err, &wErr) || wErr.Code != CodeSessionExpired {
		t.Fatalf("expected session expired error, got %v", err)
	}
}

func TestAmbiguousCommitReoffersAlternatives(t *testing.T) {
	source := &stubSource{}
	committer := &stubCommitter{confirmed: false} // page reaction ambiguous
	w, store := newTestWorkflow(eveningIntent(models.ModeAutomated, models.StrategySmartFallback), source, committer)

	outcome, err := w.Execute(context.Background(), "just book 7 PM on 2025-09-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != models.StatusFailed || outcome.Success {
		t.Fatalf("ambiguous commit must fail, got %s", outcome.Status)
	}
	if len(outcome.Alternatives) == 0 {
		t.Fatal("expected alternatives to be re-offered")
	}
	for _, alt := range outcome.Alternatives {
		if alt == committer.attempts[0] {
			t.Errorf("failed slot %s re-offered as alternative", alt.Label())
		}
	}
	if outcome.SessionID == "" {
		t.Fatal("expected a session so an alternative can be confirmed")
	}
	if _, ok := store.sessions[outcome.SessionID]; !ok {
		t.Fatal("retry session not persisted")
	}
}

func TestConfirmCancelledContext(t *testing.T) {
	committer := &stubCommitter{confirmed: true}
	w, store := newTestWorkflow(eveningIntent(models.ModeConfirm, models.StrategySmartFallback), &stubSource{}, committer)

	parked, err := w.Execute(context.Background(), "book a court around 7 PM on 2025-09-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := w.Confirm(ctx, parked.SessionID, *parked.ChosenSlot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != models.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", outcome.Status)
	}
	if len(committer.attempts) != 0 {
		t.Errorf("cancelled confirm must not commit")
	}
	// The parked session survives so the caller can confirm again.
	if _, ok := store.sessions[parked.SessionID]; !ok {
		t.Error("session should remain after a cancelled confirm")
	}
}

func TestCancelDeletesSession(t *testing.T) {
	w, store := newTestWorkflow(eveningIntent(models.ModeConfirm, models.StrategySmartFallback), &stubSource{}, &stubCommitter{confirmed: true})

	parked, err := w.Execute(context.Background(), "book a court around 7 PM on 2025-09-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcome, err := w.Cancel(context.Background(), parked.SessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != models.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", outcome.Status)
	}
	if len(store.sessions) != 0 {
		t.Errorf("session survived cancellation")
	}
}

func TestExecuteScanFailure(t *testing.T) {
	source := &stubSource{scanErr: errors.New("browser crashed")}
	w, _ := newTestWorkflow(eveningIntent(models.ModeAutomated, models.StrategySmartFallback), source, &stubCommitter{confirmed: true})

	outcome, err := w.Execute(context.Background(), "just book 7 PM")
	if err != nil {
		t.Fatalf("domain failures must not surface as errors, got %v", err)
	}
	if outcome.Status != models.StatusFailedNoSlots {
		t.Fatalf("expected failed_no_slots, got %s", outcome.Status)
	}
}

func TestExecuteFullyBookedVenue(t *testing.T) {
	// One observation per court covering the whole day.
	var observations []models.RawObservation
	for court := 0; court < 8; court++ {
		observations = append(observations, models.RawObservation{
			Text:     "8:00 AM–9:00 PM",
			Position: models.Position{X: float64(100 + court*120), Y: 50},
		})
	}
	source := &stubSource{observations: observations}
	w, _ := newTestWorkflow(eveningIntent(models.ModeAutomated, models.StrategySmartFallback), source, &stubCommitter{confirmed: true})

	outcome, err := w.Execute(context.Background(), "just book 7 PM on 2025-09-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != models.StatusFailedNoSlots {
		t.Fatalf("expected failed_no_slots, got %s", outcome.Status)
	}
}

func TestExecuteVisitorModeAnnotatesButProceeds(t *testing.T) {
	source := &stubSource{visitorMode: true}
	committer := &stubCommitter{confirmed: true}
	w, _ := newTestWorkflow(eveningIntent(models.ModeAutomated, models.StrategySmartFallback), source, committer)

	outcome, err := w.Execute(context.Background(), "just book 7 PM on 2025-09-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != models.StatusSuccess {
		t.Fatalf("visitor mode must not block booking, got %s", outcome.Status)
	}
	if !outcome.VisitorMode {
		t.Error("outcome should be annotated with visitor mode")
	}
}

func TestExecuteCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	committer := &stubCommitter{confirmed: true}
	w, _ := newTestWorkflow(eveningIntent(models.ModeAutomated, models.StrategySmartFallback), &stubSource{}, committer)

	outcome, err := w.Execute(ctx, "just book 7 PM on 2025-09-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != models.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", outcome.Status)
	}
	if len(committer.attempts) != 0 {
		t.Errorf("cancelled workflow must not commit")
	}
}

func TestShouldAutoBook(t *testing.T) {
	w := &DefaultBookingWorkflow{}
	tests := []struct {
		name     string
		mode     models.InteractionMode
		strategy models.BookingStrategy
		topScore float64
		want     bool
	}{
		{"automated always books", models.ModeAutomated, models.StrategySmartFallback, 0.5, true},
		{"exact with perfect match", models.ModeHybrid, models.StrategyExact, 1.0, true},
		{"exact with imperfect match", models.ModeHybrid, models.StrategyExact, 0.8, false},
		{"confirm overrides exact", models.ModeConfirm, models.StrategyExact, 1.0, false},
		{"smart fallback waits", models.ModeHybrid, models.StrategySmartFallback, 1.0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := models.BookingIntent{Mode: tt.mode, Strategy: tt.strategy}
			if got := w.shouldAutoBook(intent, tt.topScore); got != tt.want {
				t.Errorf("shouldAutoBook = %v, want %v", got, tt.want)
			}
		})
	}
}
