package handlers

import (
	"livebooking/services/booking"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Live booking endpoints
	CreateLiveBookingHandler   gin.HandlerFunc
	GetLiveBookingHandler      gin.HandlerFunc
	ConfirmLiveBookingHandler  gin.HandlerFunc
	DeclineLiveBookingHandler  gin.HandlerFunc
	OnTheWayHandler            gin.HandlerFunc
	StartServiceHandler        gin.HandlerFunc
	CompleteLiveBookingHandler gin.HandlerFunc
	CancelLiveBookingHandler   gin.HandlerFunc

	// Listing endpoints
	HotelVillaBookingsHandler gin.HandlerFunc
	ProviderBookingsHandler   gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires every handler to the orchestrator.
func NewHandlerBundle(o booking.BookingOrchestrator) *HandlerBundle {
	lb := NewLiveBookingHandler(o)
	return &HandlerBundle{
		CreateLiveBookingHandler:   lb.CreateBookingHandler,
		GetLiveBookingHandler:      lb.GetBookingHandler,
		ConfirmLiveBookingHandler:  lb.ConfirmBookingHandler,
		DeclineLiveBookingHandler:  lb.DeclineBookingHandler,
		OnTheWayHandler:            lb.OnTheWayHandler,
		StartServiceHandler:        lb.StartServiceHandler,
		CompleteLiveBookingHandler: lb.CompleteBookingHandler,
		CancelLiveBookingHandler:   lb.CancelBookingHandler,
		HotelVillaBookingsHandler:  lb.ListHotelVillaBookingsHandler,
		ProviderBookingsHandler:    lb.ListProviderBookingsHandler,
		HealthHandler:              HealthHandler,
	}
}
