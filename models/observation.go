package models

// Position is a point on the rendered booking grid, in CSS pixels.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RawObservation is one booked-range element as seen on the venue's grid:
// its text payload plus where it sits on the page. Observations are produced
// once per scan and discarded after normalization.
type RawObservation struct {
	Text     string   `json:"text"`
	Position Position `json:"position"`
}

// CourtColumn is a cluster of horizontally aligned observations representing
// one physical court. Columns are rebuilt on every scan; IDs are assigned
// left-to-right starting at 1 and carry no cross-scan identity.
type CourtColumn struct {
	ID      int     `json:"id"`
	CenterX float64 `json:"centerX"`
}

// BookedInterval is an observed, already-occupied window on a specific court.
// Start and End are minutes from midnight; Start < End always holds for
// intervals that survive normalization.
type BookedInterval struct {
	CourtID    int    `json:"courtId"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	SourceText string `json:"sourceText,omitempty"`
}
