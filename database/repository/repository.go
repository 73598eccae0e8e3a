package repository

import (
	"context"
	"fmt"
	"time"

	bookingRepo "livebooking/database/repository/booking"
	providerRepo "livebooking/database/repository/provider"
	venueRepo "livebooking/database/repository/venue"
	"livebooking/models"
)

// Re-export the repository interfaces.
type (
	BookingRepository  = bookingRepo.BookingRepository
	ProviderRepository = providerRepo.ProviderRepository
	VenueRepository    = venueRepo.VenueRepository
)

// Store composes the booking, provider and venue repositories into the single persistence
// surface the booking orchestrator works against.
type Store struct {
	Bookings  BookingRepository
	Providers ProviderRepository
	Venues    VenueRepository
}

func NewStore(bookings BookingRepository, providers ProviderRepository, venues VenueRepository) *Store {
	return &Store{Bookings: bookings, Providers: providers, Venues: venues}
}

func (s *Store) CreateBooking(ctx context.Context, booking *models.Booking) error {
	return s.Bookings.Create(ctx, booking)
}

func (s *Store) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	return s.Bookings.GetByID(ctx, id)
}

func (s *Store) UpdateBooking(ctx context.Context, id string, expectedVersion int64, patch models.BookingPatch) error {
	return s.Bookings.Update(ctx, id, expectedVersion, patch)
}

func (s *Store) CancelBooking(ctx context.Context, id string, expectedVersion int64, reason, cancelledBy string, at time.Time) error {
	return s.Bookings.Cancel(ctx, id, expectedVersion, reason, cancelledBy, at)
}

func (s *Store) CompleteBooking(ctx context.Context, id string, expectedVersion int64, at time.Time) error {
	return s.Bookings.Complete(ctx, id, expectedVersion, at)
}

func (s *Store) ListBookingsAwaitingResponse(ctx context.Context) ([]models.Booking, error) {
	return s.Bookings.ListAwaitingResponse(ctx)
}

func (s *Store) ListBookingsByHotelVilla(ctx context.Context, hotelVillaID string, limit int64) ([]models.Booking, error) {
	return s.Bookings.ListByHotelVilla(ctx, hotelVillaID, limit)
}

func (s *Store) ListBookingsByProvider(ctx context.Context, providerID string, limit int64) ([]models.Booking, error) {
	return s.Bookings.ListByProvider(ctx, providerID, limit)
}

func (s *Store) SetProviderAvailability(ctx context.Context, providerID string, status models.AvailabilityStatus) error {
	return s.Providers.SetAvailability(ctx, providerID, status)
}

// FindAlternativeProviders resolves the venue location and searches around it.
func (s *Store) FindAlternativeProviders(
	ctx context.Context,
	hotelVillaID string,
	excludeIDs []string,
	providerType models.ProviderType,
	radiusKm float64,
) ([]models.Provider, error) {
	venue, err := s.Venues.GetByID(ctx, hotelVillaID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve hotel/villa %s: %w", hotelVillaID, err)
	}
	return s.Providers.FindAlternatives(ctx, providerRepo.AlternativeSearchCriteria{
		ProviderType:  providerType,
		Near:          venue.LocationGeo,
		MaxDistanceKm: radiusKm,
		ExcludeIDs:    excludeIDs,
	})
}

// EnsureIndexes creates the indexes of every collection that supports it.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if err := s.Bookings.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := s.Providers.EnsureIndexes(ctx); err != nil {
		return err
	}
	if v, ok := s.Venues.(interface{ EnsureIndexes(context.Context) error }); ok {
		return v.EnsureIndexes(ctx)
	}
	return nil
}
