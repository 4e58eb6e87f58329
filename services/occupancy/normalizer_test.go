package occupancy

import (
	"errors"
	"testing"

	"courtagent/models"
)

func obs(text string, x float64) models.RawObservation {
	return models.RawObservation{Text: text, Position: models.Position{X: x, Y: 50}}
}

func TestNormalizeObservation(t *testing.T) {
	column := models.CourtColumn{ID: 3, CenterX: 340}

	tests := []struct {
		name      string
		text      string
		wantStart int
		wantEnd   int
		wantErr   bool
	}{
		{"plain range", "1:00 PM–4:00 PM", 780, 960, false},
		{"hyphen separator", "1:00 PM - 4:00 PM", 780, 960, false},
		{"narrow no-break space", "1:00 PM–4:00 PM", 780, 960, false},
		{"no-break space", "1:00 PM–4:00 PM", 780, 960, false},
		{"surrounding text", "Booked 7:00 PM–9:00 PM by member", 1140, 1260, false},
		{"no time range", "Holiday closure", 0, 0, true},
		{"ambiguous ranges", "1:00 PM–2:00 PM and 3:00 PM–4:00 PM", 0, 0, true},
		{"inverted range", "4:00 PM–1:00 PM", 0, 0, true},
		{"crossing noon", "11:00 AM–1:00 PM", 660, 780, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interval, err := NormalizeObservation(obs(tt.text, 340), column)
			if tt.wantErr {
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("expected ParseError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if interval.CourtID != 3 {
				t.Errorf("CourtID = %d, want 3", interval.CourtID)
			}
			if interval.Start != tt.wantStart || interval.End != tt.wantEnd {
				t.Errorf("interval = [%d,%d), want [%d,%d)", interval.Start, interval.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestBuildSnapshotSkipsBadObservations(t *testing.T) {
	observations := []models.RawObservation{
		obs("1:00 PM–4:00 PM", 100),
		obs("no range here", 102),
		obs("7:00 PM–9:00 PM", 220),
	}

	snap := BuildSnapshot(observations, 2, 10.0)
	if len(snap.Booked) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(snap.Booked))
	}
	if snap.Skipped != 1 {
		t.Errorf("expected 1 skipped observation, got %d", snap.Skipped)
	}
	if snap.LowConfidence {
		t.Error("two columns for two expected courts should be full confidence")
	}
}

func TestBuildSnapshotLowConfidence(t *testing.T) {
	observations := []models.RawObservation{
		obs("1:00 PM–4:00 PM", 100),
	}

	snap := BuildSnapshot(observations, 8, 10.0)
	if !snap.LowConfidence {
		t.Fatal("one column for eight expected courts must be low confidence")
	}
	if len(snap.Warnings) == 0 {
		t.Error("low confidence must carry a warning")
	}
	if len(snap.Booked) != 1 {
		t.Errorf("low confidence must not suppress intervals, got %d", len(snap.Booked))
	}
}

func TestBuildSnapshotEmpty(t *testing.T) {
	snap := BuildSnapshot(nil, 8, 10.0)
	if len(snap.Booked) != 0 || snap.LowConfidence {
		t.Fatalf("empty scan should produce an empty, confident snapshot: %+v", snap)
	}
}
