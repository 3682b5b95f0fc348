package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/willianOliveira-dev/barber-app-sub000/internal/api/middleware"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/entities"
)

// AvailabilityService defines the availability operations used by the handler
type AvailabilityService interface {
	GetAvailableSlots(ctx context.Context, shopID, serviceID string, date time.Time) ([]entities.Slot, error)
	UpsertBusinessHours(ctx context.Context, caller entities.Identity, rule *entities.BusinessHourRule) error
	GetBusinessHours(ctx context.Context, shopID string) ([]*entities.BusinessHourRule, error)
}

// AvailabilityHandler handles slot and business-hour requests
type AvailabilityHandler struct {
	service AvailabilityService
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(service AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
	}
}

// GetAvailability handles GET /api/shops/{id}/availability
func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	shopID := r.PathValue("id")
	if shopID == "" {
		respondWithError(w, http.StatusBadRequest, "shop ID is required")
		return
	}

	serviceID := r.URL.Query().Get("service_id")
	if serviceID == "" {
		respondWithError(w, http.StatusBadRequest, "service_id query parameter is required")
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		respondWithError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid date format (use YYYY-MM-DD)")
		return
	}

	slots, err := h.service.GetAvailableSlots(r.Context(), shopID, serviceID, date)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"date":  dateStr,
		"slots": slots,
	})
}

type businessHourRequest struct {
	Weekday  int    `json:"weekday"`
	IsOpen   bool   `json:"is_open"`
	OpensAt  string `json:"opens_at"`
	ClosesAt string `json:"closes_at"`
}

// UpsertBusinessHours handles PUT /api/shops/{id}/hours
func (h *AvailabilityHandler) UpsertBusinessHours(w http.ResponseWriter, r *http.Request) {
	shopID := r.PathValue("id")
	if shopID == "" {
		respondWithError(w, http.StatusBadRequest, "shop ID is required")
		return
	}

	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req businessHourRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if req.Weekday < 0 || req.Weekday > 6 {
		respondWithError(w, http.StatusBadRequest, "weekday must be between 0 (Sunday) and 6 (Saturday)")
		return
	}

	rule := &entities.BusinessHourRule{
		ShopID:   shopID,
		Weekday:  time.Weekday(req.Weekday),
		IsOpen:   req.IsOpen,
		OpensAt:  req.OpensAt,
		ClosesAt: req.ClosesAt,
	}

	if err := h.service.UpsertBusinessHours(r.Context(), caller, rule); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, rule)
}

// GetBusinessHours handles GET /api/shops/{id}/hours
func (h *AvailabilityHandler) GetBusinessHours(w http.ResponseWriter, r *http.Request) {
	shopID := r.PathValue("id")
	if shopID == "" {
		respondWithError(w, http.StatusBadRequest, "shop ID is required")
		return
	}

	rules, err := h.service.GetBusinessHours(r.Context(), shopID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if rules == nil {
		rules = []*entities.BusinessHourRule{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"hours": rules,
	})
}
