package routes

import (
	"courtagent/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all endpoints for the booking engine.
func RegisterRoutes(r *gin.Engine, bookingHandler *handlers.BookingHandler, venueHandler *handlers.VenueHandler) {
	booking := r.Group("/api/booking")
	{
		booking.POST("/execute", bookingHandler.ExecuteBooking)
		booking.POST("/confirm/:sessionID", bookingHandler.ConfirmBooking)
		booking.POST("/cancel/:sessionID", bookingHandler.CancelBooking)
	}

	r.GET("/api/availability", bookingHandler.GetAvailability)
	r.GET("/api/courts", bookingHandler.GetCourts)

	venues := r.Group("/api/venues")
	{
		venues.GET("", venueHandler.ListVenues)
		venues.GET("/:venueID", venueHandler.GetVenue)
		venues.PUT("", venueHandler.UpsertVenue)
	}
}
