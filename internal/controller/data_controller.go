package controller

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"Cycleroom.influxDB/internal/models"
	"Cycleroom.influxDB/internal/service"
	"Cycleroom.influxDB/internal/utils"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// DataController handles HTTP requests for bike telemetry.
type DataController struct {
	service *service.DataService
	logger  *zap.SugaredLogger
}

// NewDataController creates a new DataController.
func NewDataController(service *service.DataService, logger *zap.SugaredLogger) *DataController {
	return &DataController{
		service: service,
		logger:  logger.Named("data"),
	}
}

func (c *DataController) respondSamples(w http.ResponseWriter, r *http.Request, field string) {
	samples, err := c.service.Samples(r.Context(), field)
	if err != nil {
		c.logger.Errorw("error fetching samples", "field", field, "error", err)
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, samples)
}

// HandleTotalPower serves GET /api/total-power.
func (c *DataController) HandleTotalPower(w http.ResponseWriter, r *http.Request) {
	c.respondSamples(w, r, models.FieldPower)
}

// HandlePowerOutput serves GET /api/power-output.
func (c *DataController) HandlePowerOutput(w http.ResponseWriter, r *http.Request) {
	c.respondSamples(w, r, models.FieldPower)
}

// HandleDistance serves GET /api/distance.
func (c *DataController) HandleDistance(w http.ResponseWriter, r *http.Request) {
	c.respondSamples(w, r, models.FieldDistance)
}

// HandleGear serves GET /api/gear: the first sample, or {"value":0} when nothing reported.
func (c *DataController) HandleGear(w http.ResponseWriter, r *http.Request) {
	sample, ok, err := c.service.Gauge(r.Context(), models.FieldGear)
	if err != nil {
		c.logger.Errorw("error fetching gear", "error", err)
		respondServiceError(w, err)
		return
	}
	if !ok {
		utils.RespondWithJSON(w, http.StatusOK, models.GaugeDefault{Value: 0})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sample)
}

// HandleIngest serves POST /sessions.
func (c *DataController) HandleIngest(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var reading models.TelemetryReading
	if err := json.NewDecoder(r.Body).Decode(&reading); err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeBadRequest, "Invalid request payload", nil, http.StatusBadRequest))
		return
	}

	rec, err := c.service.ProcessReading(r.Context(), service.SourceHTTP, reading)
	if err != nil {
		c.logger.Warnw("reading rejected", "equipment_id", reading.EquipmentID, "error", err)
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, rec)
}

// HandleDashboard serves GET /.
func (c *DataController) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := c.service.Dashboard(r.Context())
	if err != nil {
		c.logger.Errorw("error building dashboard", "error", err)
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTemplate.Execute(w, d); err != nil {
		c.logger.Errorw("error rendering dashboard", "error", err)
	}
}
