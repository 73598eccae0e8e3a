package routes

import (
	"time"

	"livebooking/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterLiveBookingRoutes registers the live booking lifecycle endpoints.
func RegisterLiveBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/live-bookings")
	{
		api.POST("", hb.CreateLiveBookingHandler)
		api.GET("/:id", hb.GetLiveBookingHandler)

		// Provider actions
		api.POST("/:id/confirm", hb.ConfirmLiveBookingHandler)
		api.POST("/:id/decline", hb.DeclineLiveBookingHandler)
		api.POST("/:id/on-the-way", hb.OnTheWayHandler)
		api.POST("/:id/start", hb.StartServiceHandler)
		api.POST("/:id/complete", hb.CompleteLiveBookingHandler)

		// Hotel, guest or admin
		api.POST("/:id/cancel", hb.CancelLiveBookingHandler)
	}
}

// RegisterListingRoutes registers per-venue and per-provider booking lists.
func RegisterListingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/hotel-villas/:id/live-bookings", hb.HotelVillaBookingsHandler)
	r.GET("/api/providers/:id/live-bookings", hb.ProviderBookingsHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterLiveBookingRoutes(r, hb)
	RegisterListingRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
