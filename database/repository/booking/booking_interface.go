package bookingRepo

import (
	"context"
	"errors"
	"time"

	"livebooking/models"
)

var (
	// ErrNotFound is returned when no booking has the requested id.
	ErrNotFound = errors.New("booking not found")
	// ErrVersionConflict is returned when the stored version no longer matches the expected one.
	ErrVersionConflict = errors.New("booking version conflict")
)

// BookingRepository defines methods for live booking data access.
type BookingRepository interface {
	// Create inserts a new booking at version 1.
	Create(ctx context.Context, booking *models.Booking) error
	// GetByID retrieves a booking by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// Update applies patch if the stored version equals expectedVersion, bumping the version.
	Update(ctx context.Context, id string, expectedVersion int64, patch models.BookingPatch) error
	// Cancel marks the booking cancelled with a reason and actor.
	Cancel(ctx context.Context, id string, expectedVersion int64, reason, cancelledBy string, at time.Time) error
	// Complete marks the booking completed.
	Complete(ctx context.Context, id string, expectedVersion int64, at time.Time) error
	// ListAwaitingResponse returns every booking still waiting for a provider reply.
	ListAwaitingResponse(ctx context.Context) ([]models.Booking, error)
	// ListByHotelVilla returns the most recent bookings of a venue.
	ListByHotelVilla(ctx context.Context, hotelVillaID string, limit int64) ([]models.Booking, error)
	// ListByProvider returns the most recent bookings currently assigned to a provider.
	ListByProvider(ctx context.Context, providerID string, limit int64) ([]models.Booking, error)
	// EnsureIndexes creates the indexes the queries above rely on.
	EnsureIndexes(ctx context.Context) error
}
