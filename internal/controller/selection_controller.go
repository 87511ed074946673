package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"Cycleroom.influxDB/internal/models"
	"Cycleroom.influxDB/internal/repository"
	"Cycleroom.influxDB/internal/service"
	"Cycleroom.influxDB/internal/utils"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SelectionController handles bike selection.
type SelectionController struct {
	service *service.SelectionService
	logger  *zap.SugaredLogger
}

// NewSelectionController creates a new SelectionController.
func NewSelectionController(service *service.SelectionService, logger *zap.SugaredLogger) *SelectionController {
	return &SelectionController{service: service, logger: logger.Named("selection")}
}

// HandleBikes serves GET /bikes.
func (c *SelectionController) HandleBikes(w http.ResponseWriter, r *http.Request) {
	bikes, err := c.service.ListBikes(r.Context())
	if err != nil {
		c.logger.Errorw("error listing bikes", "error", err)
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, bikes)
}

// HandleUpdateGrafana serves POST /update_grafana.
func (c *SelectionController) HandleUpdateGrafana(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var sel models.EquipmentSelection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeBadRequest, "Invalid request payload", nil, http.StatusBadRequest))
		return
	}

	if err := c.service.Submit(r.Context(), sel); err != nil {
		if errors.Is(err, models.ErrValidation) {
			respondServiceError(w, err)
			return
		}
		c.logger.Errorw("error submitting selection", "error", err)
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeUpstreamFailed, err.Error(), nil, http.StatusBadGateway))
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Bike selection submitted")
}

// HandleRider serves GET /bikes/{equipment_id}/rider.
func (c *SelectionController) HandleRider(w http.ResponseWriter, r *http.Request) {
	sel, err := c.service.Rider(r.Context(), mux.Vars(r)["equipment_id"])
	if errors.Is(err, repository.ErrAssignmentNotFound) {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeNotFound, "No rider on this bike", nil, http.StatusNotFound))
		return
	}
	if err != nil {
		c.logger.Errorw("error reading assignment", "error", err)
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sel)
}
