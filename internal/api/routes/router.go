package routes

import (
	"net/http"

	"github.com/willianOliveira-dev/barber-app-sub000/internal/api/handlers"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/api/middleware"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	availabilityHandler *handlers.AvailabilityHandler
	bookingHandler      *handlers.BookingHandler
	reviewHandler       *handlers.ReviewHandler
}

// NewRouter creates a new router
func NewRouter(
	availabilityHandler *handlers.AvailabilityHandler,
	bookingHandler *handlers.BookingHandler,
	reviewHandler *handlers.ReviewHandler,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		availabilityHandler: availabilityHandler,
		bookingHandler:      bookingHandler,
		reviewHandler:       reviewHandler,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Availability endpoints
	r.mux.HandleFunc("GET /api/shops/{id}/availability", r.availabilityHandler.GetAvailability)
	r.mux.HandleFunc("GET /api/shops/{id}/hours", r.availabilityHandler.GetBusinessHours)
	r.mux.HandleFunc("PUT /api/shops/{id}/hours", r.availabilityHandler.UpsertBusinessHours)

	// Booking endpoints
	r.mux.HandleFunc("POST /api/bookings", r.bookingHandler.CreateBooking)
	r.mux.HandleFunc("GET /api/bookings", r.bookingHandler.ListBookings)
	r.mux.HandleFunc("POST /api/bookings/{id}/cancel", r.bookingHandler.CancelBooking)
	r.mux.HandleFunc("POST /api/bookings/{id}/complete", r.bookingHandler.CompleteBooking)

	// Review endpoints
	r.mux.HandleFunc("GET /api/shops/{id}/reviews", r.reviewHandler.ListReviews)
	r.mux.HandleFunc("GET /api/shops/{id}/reviews/stats", r.reviewHandler.GetReviewStats)
	r.mux.HandleFunc("POST /api/reviews", r.reviewHandler.CreateReview)
	r.mux.HandleFunc("PATCH /api/reviews/{id}", r.reviewHandler.UpdateReview)
	r.mux.HandleFunc("DELETE /api/reviews/{id}", r.reviewHandler.DeleteReview)
	r.mux.HandleFunc("POST /api/reviews/{id}/response", r.reviewHandler.RespondToReview)
	r.mux.HandleFunc("POST /api/reviews/{id}/like", r.reviewHandler.LikeReview)
	r.mux.HandleFunc("DELETE /api/reviews/{id}/like", r.reviewHandler.UnlikeReview)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so identity rejections still carry headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.IdentityMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
