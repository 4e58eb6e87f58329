package occupancy

import (
	"fmt"

	"courtagent/models"
	"courtagent/utils"

	"go.uber.org/zap"
)

// Snapshot is the structured occupancy picture built from one scan of the
// venue's grid. It is scoped to that scan: court columns and booked intervals
// are rebuilt from scratch every time and never carried across scans.
type Snapshot struct {
	Columns       []models.CourtColumn    `json:"columns"`
	Booked        []models.BookedInterval `json:"booked"`
	Skipped       int                     `json:"skipped"`
	LowConfidence bool                    `json:"lowConfidence"`
	Warnings      []string                `json:"warnings,omitempty"`
}

// BuildSnapshot clusters observation positions into court columns and
// normalizes each observation against its column. Unparseable observations
// are skipped and counted. Fewer columns than the venue's court count is a
// low-confidence annotation, never an error: downstream consumers must
// tolerate a court count that varies per scan.
func BuildSnapshot(observations []models.RawObservation, expectedCourts int, tolerance float64) Snapshot {
	logger := utils.GetLogger()

	if len(observations) == 0 {
		return Snapshot{}
	}

	xs := make([]float64, len(observations))
	for i, obs := range observations {
		xs[i] = obs.Position.X
	}
	columns := ClusterColumns(xs, tolerance)

	var snap Snapshot
	snap.Columns = columns

	for _, obs := range observations {
		column, ok := AssignColumn(obs.Position.X, columns)
		if !ok {
			snap.Skipped++
			continue
		}
		interval, err := NormalizeObservation(obs, column)
		if err != nil {
			logger.Debug("skipping observation", zap.Error(err))
			snap.Skipped++
			continue
		}
		snap.Booked = append(snap.Booked, interval)
	}

	if len(columns) < expectedCourts {
		snap.LowConfidence = true
		warning := fmt.Sprintf("detected %d court columns, expected %d; availability may be incomplete", len(columns), expectedCourts)
		snap.Warnings = append(snap.Warnings, warning)
		logger.Warn("low-confidence column clustering",
			zap.Int("detected", len(columns)), zap.Int("expected", expectedCourts))
	}

	return snap
}
