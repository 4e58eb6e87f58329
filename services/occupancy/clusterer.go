package occupancy

import (
	"math"
	"sort"

	"courtagent/models"
)

// ClusterColumns buckets raw horizontal positions into court columns. The
// grid renders every booking for a court at (nearly) the same x, so distinct
// x groups correspond to distinct courts.
//
// A greedy single-pass grouping would be sensitive to input order; instead,
// positions are sorted first and adjacent ones merged while their gap to the
// running centroid stays within tolerance, so the result is identical for any
// permutation of the input. Centroids are running means of their members.
// A merge is also rejected when it would drag the centroid beyond tolerance
// of the cluster's leftmost member, so every position stays within tolerance
// of its own centroid no matter how long a chain of borderline points runs.
// Columns come back sorted left-to-right with IDs 1..k.
func ClusterColumns(xs []float64, tolerance float64) []models.CourtColumn {
	if len(xs) == 0 {
		return nil
	}

	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	type cluster struct {
		sum   float64
		count int
		left  float64
	}

	centroid := func(c cluster) float64 { return c.sum / float64(c.count) }

	clusters := []cluster{{sum: sorted[0], count: 1, left: sorted[0]}}
	for _, x := range sorted[1:] {
		current := &clusters[len(clusters)-1]
		merged := (current.sum + x) / float64(current.count+1)
		if x-centroid(*current) <= tolerance && merged-current.left <= tolerance {
			current.sum += x
			current.count++
			continue
		}
		clusters = append(clusters, cluster{sum: x, count: 1, left: x})
	}

	columns := make([]models.CourtColumn, len(clusters))
	for i, c := range clusters {
		columns[i] = models.CourtColumn{ID: i + 1, CenterX: centroid(c)}
	}
	return columns
}

// AssignColumn maps a position to the column whose centroid is nearest.
// When a position sits between two centroids the closer one wins.
func AssignColumn(x float64, columns []models.CourtColumn) (models.CourtColumn, bool) {
	if len(columns) == 0 {
		return models.CourtColumn{}, false
	}
	best := columns[0]
	bestDist := math.Abs(x - best.CenterX)
	for _, col := range columns[1:] {
		if d := math.Abs(x - col.CenterX); d < bestDist {
			best = col
			bestDist = d
		}
	}
	return best, true
}
