package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/willianOliveira-dev/barber-app-sub000/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps the error taxonomy onto HTTP status codes.
// Unrecognized errors surface as a plain 500 without leaking internals.
func respondWithAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeValidation, apperrors.ErrorTypeInvalidHours:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeForbidden:
		respondWithError(w, http.StatusForbidden, appErr.Message)
	case apperrors.ErrorTypeConflict,
		apperrors.ErrorTypeShopClosed,
		apperrors.ErrorTypeSlotUnavailable,
		apperrors.ErrorTypeAlreadyLiked,
		apperrors.ErrorTypeInvalidTransition:
		respondWithError(w, http.StatusConflict, appErr.Message)
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
