package booking

import (
	"context"
	"sort"

	"courtagent/models"
	"courtagent/utils"

	"go.uber.org/zap"
)

// DefaultRankingStrategy is the deterministic ranker: filter candidates by
// the intent's hard constraints, score each against the time preference, and
// order by score with stable tie-breaks. It never errors and is the fallback
// whenever an external ranker misbehaves.
type DefaultRankingStrategy struct{}

// ScoreSlot rates one slot against the intent's time preference.
//
//	1.0  the preferred time falls inside the slot
//	0.8..0.1  the slot starts within the flexibility window of the preference,
//	          decaying linearly with distance
//	0.0  outside the window, or no preference at all
func ScoreSlot(intent models.BookingIntent, slot models.CandidateSlot) float64 {
	if !intent.HasTimePreference() {
		return 0
	}
	preferred := *intent.Time
	if slot.ContainsTime(preferred) {
		return 1.0
	}
	if intent.FlexibilityMinutes <= 0 {
		return 0
	}
	diff := slot.Start - preferred
	if diff < 0 {
		diff = -diff
	}
	if diff > intent.FlexibilityMinutes {
		return 0
	}
	return 0.8 - 0.7*float64(diff)/float64(intent.FlexibilityMinutes)
}

// matchesConstraints applies the intent's hard filters: court, duration and
// the after-time qualifier. A slot failing any of them is out regardless of
// score.
func matchesConstraints(intent models.BookingIntent, slot models.CandidateSlot) bool {
	if intent.Court != nil && slot.CourtID != *intent.Court {
		return false
	}
	if intent.DurationMinutes != nil && slot.DurationMinutes != *intent.DurationMinutes {
		return false
	}
	if intent.AfterTime != nil && slot.Start < *intent.AfterTime {
		return false
	}
	return true
}

// Rank filters, scores and orders the candidates. With a time preference,
// zero-scored slots are dropped; ties break on earlier start, then lower
// court number, so equal inputs always rank identically. Without a time
// preference the generator order is preserved.
func (DefaultRankingStrategy) Rank(_ context.Context, intent models.BookingIntent, candidates []models.CandidateSlot, maxResults int) ([]models.CandidateSlot, error) {
	var filtered []models.CandidateSlot
	for _, slot := range candidates {
		if matchesConstraints(intent, slot) {
			filtered = append(filtered, slot)
		}
	}

	if intent.HasTimePreference() {
		type scored struct {
			slot  models.CandidateSlot
			score float64
		}
		var pool []scored
		for _, slot := range filtered {
			if s := ScoreSlot(intent, slot); s > 0 {
				pool = append(pool, scored{slot: slot, score: s})
			}
		}
		sort.SliceStable(pool, func(i, j int) bool {
			if pool[i].score != pool[j].score {
				return pool[i].score > pool[j].score
			}
			if pool[i].slot.Start != pool[j].slot.Start {
				return pool[i].slot.Start < pool[j].slot.Start
			}
			return pool[i].slot.CourtID < pool[j].slot.CourtID
		})
		filtered = filtered[:0]
		for _, s := range pool {
			filtered = append(filtered, s.slot)
		}
	}

	if maxResults > 0 && len(filtered) > maxResults {
		filtered = filtered[:maxResults]
	}
	return filtered, nil
}

// FilterToKnown enforces the ranking contract: every returned slot must be
// one of the candidates that went in. Fabricated or mutated slots are dropped
// with a warning so an unreliable ranker can degrade but never invent
// availability.
func FilterToKnown(candidates, ranked []models.CandidateSlot) []models.CandidateSlot {
	known := make(map[string]bool, len(candidates))
	for _, slot := range candidates {
		known[slot.Key()] = true
	}

	var kept []models.CandidateSlot
	for _, slot := range ranked {
		if !known[slot.Key()] {
			utils.GetLogger().Warn("ranking returned a slot not in the candidate set, dropping it",
				zap.String("slot", slot.Label()))
			continue
		}
		kept = append(kept, slot)
	}
	return kept
}
