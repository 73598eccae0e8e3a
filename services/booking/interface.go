package booking

import (
	"context"
	"time"

	"livebooking/models"
)

// Store is the persistence surface the orchestrator depends on. Updates carry the version the caller read;
// a mismatch surfaces as bookingRepo.ErrVersionConflict.
type Store interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingByID(ctx context.Context, id string) (*models.Booking, error)
	UpdateBooking(ctx context.Context, id string, expectedVersion int64, patch models.BookingPatch) error
	CancelBooking(ctx context.Context, id string, expectedVersion int64, reason, cancelledBy string, at time.Time) error
	CompleteBooking(ctx context.Context, id string, expectedVersion int64, at time.Time) error
	FindAlternativeProviders(ctx context.Context, hotelVillaID string, excludeIDs []string, providerType models.ProviderType, radiusKm float64) ([]models.Provider, error)
	SetProviderAvailability(ctx context.Context, providerID string, status models.AvailabilityStatus) error
	ListBookingsAwaitingResponse(ctx context.Context) ([]models.Booking, error)
	ListBookingsByHotelVilla(ctx context.Context, hotelVillaID string, limit int64) ([]models.Booking, error)
	ListBookingsByProvider(ctx context.Context, providerID string, limit int64) ([]models.Booking, error)
}

// Notifier delivers lifecycle events. Errors are logged by the orchestrator and never returned to callers.
type Notifier interface {
	Notify(ctx context.Context, event models.NotificationEvent, booking models.Booking) error
}

// DeadlineScheduler holds at most one pending deadline per booking.
type DeadlineScheduler interface {
	// Arm schedules the deadline for bookingID, replacing any deadline already armed for it.
	Arm(ctx context.Context, bookingID string, deadline time.Time) error
	Disarm(ctx context.Context, bookingID string) error
	Armed(bookingID string) bool
}

// BookingOrchestrator is the only entry point allowed to change a live booking's status.
type BookingOrchestrator interface {
	CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID, providerID string) (*models.Booking, error)
	SetOnTheWay(ctx context.Context, bookingID, providerID string) (*models.Booking, error)
	StartService(ctx context.Context, bookingID, providerID string) (*models.Booking, error)
	DeclineBooking(ctx context.Context, bookingID, providerID string) (*models.Booking, error)
	CompleteBooking(ctx context.Context, bookingID, providerID string, providerType models.ProviderType) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, reason, cancelledBy string) (*models.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	ListHotelVillaBookings(ctx context.Context, hotelVillaID string) ([]models.Booking, error)
	ListProviderBookings(ctx context.Context, providerID string) ([]models.Booking, error)

	// HandleTimeout is invoked by the deadline scheduler, never by API consumers.
	HandleTimeout(ctx context.Context, bookingID string) error
	// ResumeDeadlines re-arms deadlines for every booking still waiting on a provider.
	ResumeDeadlines(ctx context.Context) (int, error)
}
