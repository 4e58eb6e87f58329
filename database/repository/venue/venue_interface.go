package venueRepo

import (
	"context"

	"courtagent/models"
)

// VenueRepository manages the venue catalog: the grids the engine knows how
// to scan and their layout parameters.
type VenueRepository interface {
	GetByID(ctx context.Context, id string) (*models.VenueConfig, error)
	List(ctx context.Context) ([]models.VenueConfig, error)
	Upsert(ctx context.Context, venue models.VenueConfig) error
}
