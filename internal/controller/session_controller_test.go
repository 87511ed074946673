package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Cycleroom.influxDB/internal/models"
	"Cycleroom.influxDB/internal/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestHandleSessions(t *testing.T) {
	store := &stubSessions{records: []models.SessionRecord{
		{ID: 1, Device: "bike-1", Timestamp: time.Date(2025, 2, 11, 20, 0, 0, 0, time.UTC), Power: 150, Cadence: 80},
	}}
	c := NewSessionController(service.NewSessionService(store), zaptest.NewLogger(t).Sugar())

	rec := httptest.NewRecorder()
	c.HandleSessions(rec, httptest.NewRequest(http.MethodGet, "/sessions?limit=5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"timestamp":"2025-02-11T20:00:00Z","device":"bike-1","power":150,"cadence":80}]`, rec.Body.String())
	assert.Equal(t, []int{5}, store.limits)
}

func TestHandleSessionsBadLimit(t *testing.T) {
	c := NewSessionController(service.NewSessionService(&stubSessions{}), zaptest.NewLogger(t).Sugar())

	for _, q := range []string{"abc", "-1"} {
		rec := httptest.NewRecorder()
		c.HandleSessions(rec, httptest.NewRequest(http.MethodGet, "/sessions?limit="+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"invalid_format"`)
	}
}

func TestHandleLeaderboardDefaultLimit(t *testing.T) {
	store := &stubSessions{board: []models.LeaderboardEntry{{Device: "bike-2", MaxPower: 300, MaxCadence: 70}}}
	c := NewSessionController(service.NewSessionService(store), zaptest.NewLogger(t).Sugar())

	rec := httptest.NewRecorder()
	c.HandleLeaderboard(rec, httptest.NewRequest(http.MethodGet, "/leaderboard", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"device":"bike-2","max_power":300,"max_cadence":70}]`, rec.Body.String())
	assert.Equal(t, []int{service.DefaultLeaderboardSize}, store.limits)
}

func TestHandleExport(t *testing.T) {
	store := &stubSessions{records: []models.SessionRecord{
		{ID: 1, Device: "bike-1", Timestamp: time.Date(2025, 2, 11, 20, 0, 0, 0, time.UTC), Power: 150, Cadence: 80},
	}}
	c := NewSessionController(service.NewSessionService(store), zaptest.NewLogger(t).Sugar())

	rec := httptest.NewRecorder()
	c.HandleExport(rec, httptest.NewRequest(http.MethodGet, "/export", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "sessions.csv")
	assert.Equal(t, "ID,Device,Timestamp,Power,Cadence,Heart Rate\n1,bike-1,2025-02-11T20:00:00Z,150,80,\n", rec.Body.String())
}

func TestSessionsNotConfigured(t *testing.T) {
	c := NewSessionController(service.NewSessionService(nil), zaptest.NewLogger(t).Sugar())

	rec := httptest.NewRecorder()
	c.HandleExport(rec, httptest.NewRequest(http.MethodGet, "/export", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"not_configured"`)
}
