package booking

import (
	"context"
	"math"
	"testing"

	"courtagent/models"
)

func intPtr(v int) *int { return &v }

func slot(court, start, end int) models.CandidateSlot {
	return models.CandidateSlot{
		CourtID:         court,
		Date:            "2025-09-09",
		Start:           start,
		End:             end,
		DurationMinutes: end - start,
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestScoreSlot(t *testing.T) {
	intent := models.BookingIntent{
		Time:               intPtr(1140), // 7 PM
		FlexibilityMinutes: 30,
	}

	tests := []struct {
		name string
		slot models.CandidateSlot
		want float64
	}{
		{"contains preference", slot(1, 1140, 1260), 1.0},
		{"contains mid-slot", slot(1, 1080, 1200), 1.0},
		{"starts at window edge", slot(1, 1170, 1290), 0.8 - 0.7*1.0},
		{"starts just past preference window", slot(1, 1200, 1320), 0},
		{"well before preference", slot(1, 480, 600), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreSlot(intent, tt.slot); !approx(got, tt.want) {
				t.Errorf("ScoreSlot = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreSlotNoPreference(t *testing.T) {
	intent := models.BookingIntent{FlexibilityMinutes: 30}
	if got := ScoreSlot(intent, slot(1, 1140, 1260)); got != 0 {
		t.Errorf("no time preference must score 0, got %v", got)
	}
}

func TestScoreSlotZeroFlexibility(t *testing.T) {
	intent := models.BookingIntent{Time: intPtr(1140)}
	if got := ScoreSlot(intent, slot(1, 1150, 1270)); got != 0 {
		t.Errorf("zero flexibility near miss must score 0, got %v", got)
	}
	if got := ScoreSlot(intent, slot(1, 1140, 1260)); got != 1.0 {
		t.Errorf("containment must still score 1.0, got %v", got)
	}
}

func TestRankOrdersByScoreThenStartThenCourt(t *testing.T) {
	intent := models.BookingIntent{
		Time:               intPtr(1140),
		FlexibilityMinutes: 30,
	}
	candidates := []models.CandidateSlot{
		slot(5, 1170, 1290), // proximity score
		slot(2, 1140, 1260), // contains, later start than court 1's
		slot(1, 1110, 1230), // contains, earliest start
		slot(3, 1140, 1260), // contains, same start as court 2
		slot(4, 480, 600),   // zero score, dropped
	}

	ranked, err := DefaultRankingStrategy{}.Rank(context.Background(), intent, candidates, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []models.CandidateSlot{
		slot(1, 1110, 1230),
		slot(2, 1140, 1260),
		slot(3, 1140, 1260),
		slot(5, 1170, 1290),
	}
	if len(ranked) != len(want) {
		t.Fatalf("expected %d ranked slots, got %d", len(want), len(ranked))
	}
	for i := range want {
		if ranked[i] != want[i] {
			t.Errorf("rank %d: got %s, want %s", i, ranked[i].Label(), want[i].Label())
		}
	}
}

func TestRankIsDeterministic(t *testing.T) {
	intent := models.BookingIntent{Time: intPtr(1140), FlexibilityMinutes: 30}
	candidates := BuildCandidateSlots(testVenue(), "2025-09-09")

	first, _ := DefaultRankingStrategy{}.Rank(context.Background(), intent, candidates, 10)
	second, _ := DefaultRankingStrategy{}.Rank(context.Background(), intent, candidates, 10)

	if len(first) != len(second) {
		t.Fatalf("length mismatch: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("ranking differs at index %d", i)
		}
	}
}

func TestRankHardConstraints(t *testing.T) {
	candidates := []models.CandidateSlot{
		slot(1, 1140, 1260),
		slot(3, 1140, 1260),
		slot(3, 1140, 1230),
		slot(3, 600, 720),
	}

	t.Run("court filter", func(t *testing.T) {
		intent := models.BookingIntent{Court: intPtr(3)}
		ranked, _ := DefaultRankingStrategy{}.Rank(context.Background(), intent, candidates, 0)
		for _, s := range ranked {
			if s.CourtID != 3 {
				t.Errorf("court filter leaked %s", s.Label())
			}
		}
		if len(ranked) != 3 {
			t.Errorf("expected 3 court-3 slots, got %d", len(ranked))
		}
	})

	t.Run("duration filter", func(t *testing.T) {
		intent := models.BookingIntent{DurationMinutes: intPtr(120)}
		ranked, _ := DefaultRankingStrategy{}.Rank(context.Background(), intent, candidates, 0)
		for _, s := range ranked {
			if s.DurationMinutes != 120 {
				t.Errorf("duration filter leaked %s", s.Label())
			}
		}
	})

	t.Run("after-time filter", func(t *testing.T) {
		intent := models.BookingIntent{AfterTime: intPtr(1000)}
		ranked, _ := DefaultRankingStrategy{}.Rank(context.Background(), intent, candidates, 0)
		for _, s := range ranked {
			if s.Start < 1000 {
				t.Errorf("after-time filter leaked %s", s.Label())
			}
		}
		if len(ranked) != 3 {
			t.Errorf("expected 3 slots after 1000, got %d", len(ranked))
		}
	})
}

func TestRankTruncatesToMaxResults(t *testing.T) {
	intent := models.BookingIntent{}
	candidates := BuildCandidateSlots(testVenue(), "2025-09-09")

	ranked, _ := DefaultRankingStrategy{}.Rank(context.Background(), intent, candidates, 3)
	if len(ranked) != 3 {
		t.Fatalf("expected 3 results, got %d", len(ranked))
	}
	// Without a time preference the generator order is preserved.
	for i := range ranked {
		if ranked[i] != candidates[i] {
			t.Errorf("result %d out of generator order", i)
		}
	}
}

func TestFilterToKnownDropsFabricatedSlots(t *testing.T) {
	candidates := []models.CandidateSlot{
		slot(1, 1140, 1260),
		slot(2, 1140, 1260),
	}
	ranked := []models.CandidateSlot{
		slot(2, 1140, 1260),
		slot(7, 480, 600), // not in the candidate set
		slot(1, 1140, 1260),
	}

	kept := FilterToKnown(candidates, ranked)
	if len(kept) != 2 {
		t.Fatalf("expected 2 kept slots, got %d", len(kept))
	}
	if kept[0] != candidates[1] || kept[1] != candidates[0] {
		t.Errorf("kept slots out of order: %v", kept)
	}
}
