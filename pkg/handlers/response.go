package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/justai-labs/justai-engine/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// respondError writes an error response, logging any encoding failure.
func respondError(w http.ResponseWriter, logger *zap.Logger, statusCode int, errorCode, message string) {
	if err := ErrorResponse(w, statusCode, errorCode, message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}

// respondServiceError maps service-layer errors onto HTTP status codes.
// Unrecognized errors are logged and surfaced as a 500 with the fallback
// code and message.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallbackCode, fallbackMessage string) {
	switch {
	case errors.Is(err, apperrors.ErrAgentNotFound):
		respondError(w, logger, http.StatusNotFound, "agent_not_found", "Agent not found")
	case errors.Is(err, apperrors.ErrNotFound):
		respondError(w, logger, http.StatusNotFound, "not_found", "Resource not found")
	case errors.Is(err, apperrors.ErrDuplicate):
		respondError(w, logger, http.StatusConflict, "duplicate", "Resource already exists")
	default:
		logger.Error(fallbackMessage, zap.Error(err))
		respondError(w, logger, http.StatusInternalServerError, fallbackCode, fallbackMessage)
	}
}
