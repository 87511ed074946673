package controller

import (
	"net/http"

	"github.com/gorilla/mux"
)

// LiveServer upgrades a request onto the push channel.
type LiveServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, equipmentID string)
}

// LiveController serves /ws and /ws/{equipment_id}.
type LiveController struct {
	live LiveServer
}

// NewLiveController creates a new LiveController.
func NewLiveController(live LiveServer) *LiveController {
	return &LiveController{live: live}
}

// HandleLiveFeed subscribes to every bike, or to the one named in the path.
func (c *LiveController) HandleLiveFeed(w http.ResponseWriter, r *http.Request) {
	c.live.ServeWS(w, r, mux.Vars(r)["equipment_id"])
}
