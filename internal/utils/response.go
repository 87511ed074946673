package utils

import (
	"encoding/json"
	"net/http"

	"Cycleroom.influxDB/internal/models"
	"go.uber.org/zap"
)

// RespondWithError sends a JSON error response using the APIError model.
func RespondWithError(w http.ResponseWriter, apiErr models.APIError) {
	status := apiErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	RespondWithJSON(w, status, apiErr)
}

// RespondWithJSON sends a JSON success response.
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// headers are already sent, nothing left to tell the client
		zap.S().Errorw("failed to encode JSON response", "error", err)
	}
}

// RespondWithMessage sends {"message": msg}.
func RespondWithMessage(w http.ResponseWriter, statusCode int, msg string) {
	RespondWithJSON(w, statusCode, map[string]string{"message": msg})
}
