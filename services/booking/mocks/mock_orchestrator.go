package mocks

import (
	"context"

	"livebooking/models"

	"github.com/stretchr/testify/mock"
)

// MockBookingOrchestrator is a mock implementation of booking.BookingOrchestrator
type MockBookingOrchestrator struct {
	mock.Mock
}

func (m *MockBookingOrchestrator) booking(args mock.Arguments) (*models.Booking, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingOrchestrator) bookings(args mock.Arguments) ([]models.Booking, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockBookingOrchestrator) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	return m.booking(m.Called(ctx, req))
}

func (m *MockBookingOrchestrator) ConfirmBooking(ctx context.Context, bookingID, providerID string) (*models.Booking, error) {
	return m.booking(m.Called(ctx, bookingID, providerID))
}

func (m *MockBookingOrchestrator) SetOnTheWay(ctx context.Context, bookingID, providerID string) (*models.Booking, error) {
	return m.booking(m.Called(ctx, bookingID, providerID))
}

func (m *MockBookingOrchestrator) StartService(ctx context.Context, bookingID, providerID string) (*models.Booking, error) {
	return m.booking(m.Called(ctx, bookingID, providerID))
}

func (m *MockBookingOrchestrator) DeclineBooking(ctx context.Context, bookingID, providerID string) (*models.Booking, error) {
	return m.booking(m.Called(ctx, bookingID, providerID))
}

func (m *MockBookingOrchestrator) CompleteBooking(ctx context.Context, bookingID, providerID string, providerType models.ProviderType) (*models.Booking, error) {
	return m.booking(m.Called(ctx, bookingID, providerID, providerType))
}

func (m *MockBookingOrchestrator) CancelBooking(ctx context.Context, bookingID, reason, cancelledBy string) (*models.Booking, error) {
	return m.booking(m.Called(ctx, bookingID, reason, cancelledBy))
}

func (m *MockBookingOrchestrator) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return m.booking(m.Called(ctx, bookingID))
}

func (m *MockBookingOrchestrator) ListHotelVillaBookings(ctx context.Context, hotelVillaID string) ([]models.Booking, error) {
	return m.bookings(m.Called(ctx, hotelVillaID))
}

func (m *MockBookingOrchestrator) ListProviderBookings(ctx context.Context, providerID string) ([]models.Booking, error) {
	return m.bookings(m.Called(ctx, providerID))
}

func (m *MockBookingOrchestrator) HandleTimeout(ctx context.Context, bookingID string) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}

func (m *MockBookingOrchestrator) ResumeDeadlines(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
