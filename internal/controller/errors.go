package controller

import (
	"errors"
	"net/http"
	"strconv"

	"Cycleroom.influxDB/internal/models"
	"Cycleroom.influxDB/internal/service"
	"Cycleroom.influxDB/internal/utils"
)

// respondServiceError maps service failures onto API errors.
func respondServiceError(w http.ResponseWriter, err error) {
	var sqe *models.StoreQueryError
	switch {
	case errors.As(err, &sqe):
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeStoreQuery, "Error fetching data from InfluxDB", map[string]string{"field": sqe.Field}, http.StatusInternalServerError))
	case errors.Is(err, models.ErrValidation):
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeValidationFailed, err.Error(), nil, http.StatusBadRequest))
	case errors.Is(err, service.ErrInvalidReading):
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeValidationFailed, err.Error(), nil, http.StatusBadRequest))
	case errors.Is(err, service.ErrNotConfigured):
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeNotConfigured, err.Error(), nil, http.StatusServiceUnavailable))
	default:
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInternalServerError, err.Error(), nil, http.StatusInternalServerError))
	}
}

// queryLimit reads a non-negative ?limit=; missing means 0.
func queryLimit(r *http.Request) (int, *models.APIError) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		apiErr := models.NewAPIError(models.ErrorCodeInvalidFormat, "limit must be a non-negative integer", nil, http.StatusBadRequest)
		return 0, &apiErr
	}
	return n, nil
}
