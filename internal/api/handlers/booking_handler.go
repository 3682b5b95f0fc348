package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/willianOliveira-dev/barber-app-sub000/internal/api/middleware"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/entities"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/pagination"
)

// BookingService defines the booking operations used by the handler
type BookingService interface {
	Create(ctx context.Context, userID, shopID, serviceID string, scheduledAt time.Time) (*entities.Booking, error)
	Cancel(ctx context.Context, bookingID, callerID string) (*entities.Booking, error)
	Complete(ctx context.Context, bookingID string, caller entities.Identity) (*entities.Booking, error)
	List(ctx context.Context, userID string, statuses []entities.BookingStatus, cursorToken string, limit int) (pagination.Page[*entities.Booking], error)
}

// BookingHandler handles booking requests
type BookingHandler struct {
	service BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(service BookingService) *BookingHandler {
	return &BookingHandler{
		service: service,
	}
}

type createBookingRequest struct {
	ShopID      string    `json:"shop_id"`
	ServiceID   string    `json:"service_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if req.ShopID == "" || req.ServiceID == "" {
		respondWithError(w, http.StatusBadRequest, "shop_id and service_id are required")
		return
	}
	if req.ScheduledAt.IsZero() {
		respondWithError(w, http.StatusBadRequest, "scheduled_at is required (RFC3339)")
		return
	}

	booking, err := h.service.Create(r.Context(), caller.UserID, req.ShopID, req.ServiceID, req.ScheduledAt)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, booking)
}

// CancelBooking handles POST /api/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := r.PathValue("id")
	if bookingID == "" {
		respondWithError(w, http.StatusBadRequest, "booking ID is required")
		return
	}

	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	booking, err := h.service.Cancel(r.Context(), bookingID, caller.UserID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}

// CompleteBooking handles POST /api/bookings/{id}/complete
func (h *BookingHandler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := r.PathValue("id")
	if bookingID == "" {
		respondWithError(w, http.StatusBadRequest, "booking ID is required")
		return
	}

	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	booking, err := h.service.Complete(r.Context(), bookingID, caller)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}

// ListBookings handles GET /api/bookings
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var statuses []entities.BookingStatus
	for _, status := range r.URL.Query()["status"] {
		switch entities.BookingStatus(status) {
		case entities.BookingStatusConfirmed, entities.BookingStatusCompleted, entities.BookingStatusCancelled:
			statuses = append(statuses, entities.BookingStatus(status))
		default:
			respondWithError(w, http.StatusBadRequest, "unknown booking status "+status)
			return
		}
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	page, err := h.service.List(r.Context(), caller.UserID, statuses, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}
