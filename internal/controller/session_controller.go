package controller

import (
	"bytes"
	"net/http"

	"Cycleroom.influxDB/internal/service"
	"Cycleroom.influxDB/internal/utils"
	"go.uber.org/zap"
)

// SessionController serves the ride history.
type SessionController struct {
	service *service.SessionService
	logger  *zap.SugaredLogger
}

// NewSessionController creates a new SessionController.
func NewSessionController(service *service.SessionService, logger *zap.SugaredLogger) *SessionController {
	return &SessionController{service: service, logger: logger.Named("sessions")}
}

// HandleSessions serves GET /sessions?limit=.
func (c *SessionController) HandleSessions(w http.ResponseWriter, r *http.Request) {
	limit, apiErr := queryLimit(r)
	if apiErr != nil {
		utils.RespondWithError(w, *apiErr)
		return
	}
	sessions, err := c.service.List(r.Context(), limit)
	if err != nil {
		c.logger.Errorw("error listing sessions", "error", err)
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sessions)
}

// HandleLeaderboard serves GET /leaderboard?limit=.
func (c *SessionController) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, apiErr := queryLimit(r)
	if apiErr != nil {
		utils.RespondWithError(w, *apiErr)
		return
	}
	entries, err := c.service.Leaderboard(r.Context(), limit)
	if err != nil {
		c.logger.Errorw("error building leaderboard", "error", err)
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, entries)
}

// HandleExport serves GET /export as CSV.
func (c *SessionController) HandleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := c.service.ExportCSV(r.Context(), &buf); err != nil {
		c.logger.Errorw("error exporting sessions", "error", err)
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="sessions.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		c.logger.Warnw("error writing export", "error", err)
	}
}
