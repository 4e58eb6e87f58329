package models

// VenueConfig describes one multi-court facility's booking rules. Venues are
// administered in the catalog store and handed to the engine as plain input;
// the engine never persists them.
type VenueConfig struct {
	ID               string  `bson:"id" json:"id"`
	Name             string  `bson:"name" json:"name"`
	BookingURL       string  `bson:"bookingUrl" json:"bookingUrl"`
	CourtCount       int     `bson:"courtCount" json:"courtCount"`
	OpeningMinutes   int     `bson:"openingMinutes" json:"openingMinutes"` // minutes from midnight
	ClosingMinutes   int     `bson:"closingMinutes" json:"closingMinutes"`
	AllowedDurations []int   `bson:"allowedDurations" json:"allowedDurations"` // minutes
	StepMinutes      int     `bson:"stepMinutes" json:"stepMinutes"`
	ClusterTolerance float64 `bson:"clusterTolerance" json:"clusterTolerance"` // pixels
	FlexibilityMins  int     `bson:"flexibilityMinutes" json:"flexibilityMinutes"`
	MaxAlternatives  int     `bson:"maxAlternatives" json:"maxAlternatives"`
}
