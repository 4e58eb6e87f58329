package scanner

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"courtagent/models"
	"courtagent/services/booking"
	"courtagent/utils"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Session drives one headless Chrome tab against the venue's booking grid.
// It is the explicit handle behind both the observation source and the commit
// action. All page interactions are serialized on an internal mutex; the grid
// only has one "current date", so interleaved workflows would corrupt each
// other's view.
type Session struct {
	url     string
	timeout time.Duration

	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	tabCtx      context.Context
	cancelTab   context.CancelFunc

	mu          sync.Mutex
	currentDate string
}

// New allocates the browser but does not navigate yet; the first SetDate or
// Scan does. Close must be called to release Chrome.
func New(bookingURL string, headless bool, timeout time.Duration) *Session {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(1920, 1080),
		chromedp.NoSandbox,
		chromedp.Flag("headless", headless),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	return &Session{
		url:         bookingURL,
		timeout:     timeout,
		allocCtx:    allocCtx,
		cancelAlloc: cancelAlloc,
		tabCtx:      tabCtx,
		cancelTab:   cancelTab,
	}
}

func (s *Session) Close() {
	s.cancelTab()
	s.cancelAlloc()
}

func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(s.tabCtx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- chromedp.Run(runCtx, actions...) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		cancel()
		<-done
		return ctx.Err()
	}
}

// SetDate navigates the grid to the given date (YYYY-MM-DD) via the viewdate
// query parameter and verifies the grid actually landed there. The venue
// silently ignores dates outside its booking horizon, so verification is not
// optional.
func (s *Session) SetDate(ctx context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentDate == date {
		return nil
	}

	target := fmt.Sprintf("%s?viewdate=%s", s.url, date)
	var currentURL string
	err := s.run(ctx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.Location(&currentURL),
	)
	if err != nil {
		return fmt.Errorf("failed to navigate grid to %s: %w", date, err)
	}
	if !strings.Contains(currentURL, date) {
		return fmt.Errorf("grid refused date %s, still at %s", date, currentURL)
	}

	s.currentDate = date
	utils.GetLogger().Debug("grid date set", zap.String("date", date))
	return nil
}

type rawObservation struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

const scanScript = `
(() => {
	const out = [];
	document.querySelectorAll('.booking-div-content').forEach(el => {
		const rect = el.getBoundingClientRect();
		if (rect.width === 0 && rect.height === 0) return;
		const text = (el.innerText || '').trim();
		if (!text) return;
		out.push({text: text, x: rect.x, y: rect.y});
	});
	return out;
})()
`

const visitorModeScript = `
(() => {
	const text = document.body.innerText || '';
	return text.includes('VISITOR MODE') || text.includes('LIMITED VISIBILITY') ||
		text.toLowerCase().includes('log in to see');
})()
`

// Scan extracts every booking observation currently rendered for the date.
// The session navigates first if the grid is on another date.
func (s *Session) Scan(ctx context.Context, date string) (booking.ScanResult, error) {
	if err := s.SetDate(ctx, date); err != nil {
		return booking.ScanResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var raw []rawObservation
	var visitorMode bool
	err := s.run(ctx,
		chromedp.Sleep(500*time.Millisecond),
		chromedp.Evaluate(scanScript, &raw),
		chromedp.Evaluate(visitorModeScript, &visitorMode),
	)
	if err != nil {
		return booking.ScanResult{}, fmt.Errorf("failed to scan booking grid: %w", err)
	}

	result := booking.ScanResult{VisitorMode: visitorMode}
	for _, r := range raw {
		result.Observations = append(result.Observations, models.RawObservation{
			Text:     r.Text,
			Position: models.Position{X: r.X, Y: r.Y},
		})
	}
	if visitorMode {
		result.Limitations = append(result.Limitations, "grid rendered in visitor mode, some bookings may be hidden")
	}

	utils.GetLogger().Info("scanned booking grid",
		zap.String("date", date),
		zap.Int("observations", len(result.Observations)),
		zap.Bool("visitorMode", visitorMode))
	return result, nil
}

const listCourtsScript = `
(() => {
	const out = [];
	document.querySelectorAll('[class*="space-label"], [class*="column-header"]').forEach(el => {
		const text = (el.innerText || '').trim();
		if (text) out.push(text);
	});
	return out;
})()
`

// ListCourts reads the column headers off the grid, mostly for diagnostics.
func (s *Session) ListCourts(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var courts []string
	if err := s.run(ctx, chromedp.Evaluate(listCourtsScript, &courts)); err != nil {
		return nil, fmt.Errorf("failed to list courts: %w", err)
	}
	return courts, nil
}

// commitScript clicks the first clickable grid cell matching the slot's time
// range text. Returns whether a click landed.
const commitScriptTemplate = `
(() => {
	const wanted = %q;
	const cells = document.querySelectorAll('[class*="booking"], [class*="slot"], [class*="cell"]');
	for (const el of cells) {
		const text = (el.innerText || '').trim();
		if (text.includes(wanted)) {
			el.click();
			return true;
		}
	}
	return false;
})()
`

// confirmationScript counts indicators that a booking flow opened after the
// click: a modal, a form, or an explicit book/confirm button.
const confirmationScript = `
(() => {
	let score = 0;
	if (document.querySelector('[class*="modal"], [role="dialog"]')) score++;
	if (document.querySelector('form')) score++;
	for (const b of document.querySelectorAll('button, [role="button"]')) {
		const t = (b.innerText || '').toLowerCase();
		if (t.includes('book') || t.includes('confirm') || t.includes('reserve')) { score++; break; }
	}
	return score;
})()
`

// AttemptCommit clicks the slot's cell and checks whether a booking flow
// opened. A click with no recognizable reaction is reported as unconfirmed,
// never as success.
func (s *Session) AttemptCommit(ctx context.Context, slot models.CandidateSlot) (booking.CommitResult, error) {
	if err := s.SetDate(ctx, slot.Date); err != nil {
		return booking.CommitResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := models.FormatClock(slot.Start)
	var clicked bool
	var indicators int
	err := s.run(ctx,
		chromedp.Evaluate(fmt.Sprintf(commitScriptTemplate, wanted), &clicked),
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(confirmationScript, &indicators),
	)
	if err != nil {
		return booking.CommitResult{}, fmt.Errorf("failed to attempt booking: %w", err)
	}
	if !clicked {
		return booking.CommitResult{Detail: fmt.Sprintf("no clickable cell found for %s", slot.TimeRange())}, nil
	}
	if indicators == 0 {
		return booking.CommitResult{Detail: "clicked the cell but no booking flow opened"}, nil
	}

	return booking.CommitResult{
		Confirmed: true,
		Detail:    fmt.Sprintf("booking flow opened for %s (%d indicators)", slot.Label(), indicators),
	}, nil
}
