package routes

import (
	"net/http"

	"Cycleroom.influxDB/internal/controller"
	"Cycleroom.influxDB/internal/metrics"
	"Cycleroom.influxDB/internal/middleware"
	"Cycleroom.influxDB/internal/models"
	"Cycleroom.influxDB/internal/utils"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Controllers groups every handler the router serves.
type Controllers struct {
	Data      *controller.DataController
	Selection *controller.SelectionController
	Sessions  *controller.SessionController
	Live      *controller.LiveController
	Health    *controller.HealthController
}

// NewRouter registers all application routes, one handler per path and method.
func NewRouter(c Controllers, m *metrics.Metrics, logger *zap.SugaredLogger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Observe(logger, m))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeNotFound, "Not found", nil, http.StatusNotFound))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeMethodNotAllowed, "Method not allowed", nil, http.StatusMethodNotAllowed))
	})

	// Dashboard and telemetry
	r.HandleFunc("/", c.Data.HandleDashboard).Methods(http.MethodGet)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/total-power", c.Data.HandleTotalPower).Methods(http.MethodGet)
	api.HandleFunc("/distance", c.Data.HandleDistance).Methods(http.MethodGet)
	api.HandleFunc("/power-output", c.Data.HandlePowerOutput).Methods(http.MethodGet)
	api.HandleFunc("/gear", c.Data.HandleGear).Methods(http.MethodGet)

	// Bike selection
	r.HandleFunc("/bikes", c.Selection.HandleBikes).Methods(http.MethodGet)
	r.HandleFunc("/bikes/{equipment_id}/rider", c.Selection.HandleRider).Methods(http.MethodGet)
	r.HandleFunc("/update_grafana", c.Selection.HandleUpdateGrafana).Methods(http.MethodPost)

	// Ride history
	r.HandleFunc("/sessions", c.Data.HandleIngest).Methods(http.MethodPost)
	r.HandleFunc("/sessions", c.Sessions.HandleSessions).Methods(http.MethodGet)
	r.HandleFunc("/leaderboard", c.Sessions.HandleLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/export", c.Sessions.HandleExport).Methods(http.MethodGet)

	// Live feed
	r.HandleFunc("/ws", c.Live.HandleLiveFeed).Methods(http.MethodGet)
	r.HandleFunc("/ws/{equipment_id}", c.Live.HandleLiveFeed).Methods(http.MethodGet)

	r.HandleFunc("/health", c.Health.HandleHealth).Methods(http.MethodGet)
	if m != nil {
		r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}
	return r
}
