package controller

import (
	"context"
	"net/http"

	"Cycleroom.influxDB/internal/utils"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController serves /health.
type HealthController struct {
	checks map[string]Pinger
}

// NewHealthController creates a HealthController over the named checks.
func NewHealthController(checks map[string]Pinger) *HealthController {
	return &HealthController{checks: checks}
}

// HandleHealth answers {"status":"ok"} or 503 with the failing checks.
func (c *HealthController) HandleHealth(w http.ResponseWriter, r *http.Request) {
	failures := map[string]string{}
	for name, p := range c.checks {
		if err := p.Ping(r.Context()); err != nil {
			failures[name] = err.Error()
		}
	}
	if len(failures) > 0 {
		utils.RespondWithJSON(w, http.StatusServiceUnavailable, map[string]interface{}{"status": "degraded", "checks": failures})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
