package handlers

import (
	"context"
	"errors"
	"net/http"

	"livebooking/models"
	"livebooking/services/booking"
	"livebooking/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LiveBookingHandler exposes the booking orchestrator to hotel/villa and provider apps.
type LiveBookingHandler struct {
	Orchestrator booking.BookingOrchestrator
}

func NewLiveBookingHandler(o booking.BookingOrchestrator) *LiveBookingHandler {
	return &LiveBookingHandler{Orchestrator: o}
}

type providerActionRequest struct {
	ProviderID string `json:"providerId" binding:"required"`
}

type completeRequest struct {
	ProviderID   string              `json:"providerId" binding:"required"`
	ProviderType models.ProviderType `json:"providerType"`
}

type cancelRequest struct {
	Reason      string `json:"reason"`
	CancelledBy string `json:"cancelledBy" binding:"required"`
}

// CreateBookingHandler handles POST /api/live-bookings.
func (h *LiveBookingHandler) CreateBookingHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	b, err := h.Orchestrator.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Info("Live booking requested",
		zap.String("bookingId", b.ID),
		zap.String("hotelVillaId", b.HotelVillaID),
		zap.String("providerId", b.ProviderID))
	c.JSON(http.StatusCreated, b)
}

func (h *LiveBookingHandler) GetBookingHandler(c *gin.Context) {
	b, err := h.Orchestrator.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *LiveBookingHandler) ConfirmBookingHandler(c *gin.Context) {
	h.providerAction(c, h.Orchestrator.ConfirmBooking)
}

func (h *LiveBookingHandler) DeclineBookingHandler(c *gin.Context) {
	h.providerAction(c, h.Orchestrator.DeclineBooking)
}

func (h *LiveBookingHandler) OnTheWayHandler(c *gin.Context) {
	h.providerAction(c, h.Orchestrator.SetOnTheWay)
}

func (h *LiveBookingHandler) StartServiceHandler(c *gin.Context) {
	h.providerAction(c, h.Orchestrator.StartService)
}

func (h *LiveBookingHandler) CompleteBookingHandler(c *gin.Context) {
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	b, err := h.Orchestrator.CompleteBooking(c.Request.Context(), c.Param("id"), req.ProviderID, req.ProviderType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *LiveBookingHandler) CancelBookingHandler(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	b, err := h.Orchestrator.CancelBooking(c.Request.Context(), c.Param("id"), req.Reason, req.CancelledBy)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("Live booking cancelled",
		zap.String("bookingId", b.ID),
		zap.String("cancelledBy", req.CancelledBy))
	c.JSON(http.StatusOK, b)
}

func (h *LiveBookingHandler) ListHotelVillaBookingsHandler(c *gin.Context) {
	bookings, err := h.Orchestrator.ListHotelVillaBookings(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

func (h *LiveBookingHandler) ListProviderBookingsHandler(c *gin.Context) {
	bookings, err := h.Orchestrator.ListProviderBookings(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

type providerTransition func(ctx context.Context, bookingID, providerID string) (*models.Booking, error)

func (h *LiveBookingHandler) providerAction(c *gin.Context, transition providerTransition) {
	var req providerActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	b, err := transition(c.Request.Context(), c.Param("id"), req.ProviderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// respondError maps orchestrator errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var invalid *booking.ValidationError
	var stale *booking.StaleBookingError
	switch {
	case errors.As(err, &invalid):
		utils.JSONError(c, http.StatusBadRequest, "Invalid booking request", invalid.Error())
	case errors.Is(err, booking.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "Booking not found", err.Error())
	case errors.As(err, &stale):
		utils.JSONError(c, http.StatusConflict, "Booking has changed, refresh and try again", stale.Reason)
	default:
		getLogger(c).Error("Live booking operation failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
	}
}
