package venueRepo

import (
	"context"
	"errors"

	"livebooking/models"
)

// ErrNotFound is returned when no hotel or villa has the requested id.
var ErrNotFound = errors.New("hotel/villa not found")

// VenueRepository defines methods for hotel/villa data access.
type VenueRepository interface {
	GetByID(ctx context.Context, id string) (*models.HotelVilla, error)
	Create(ctx context.Context, venue *models.HotelVilla) error
}
