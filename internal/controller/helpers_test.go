package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"Cycleroom.influxDB/internal/models"
)

var errBoom = errors.New("connection refused")

type stubSource struct {
	samples map[string][]models.Sample
	err     error
}

func (s *stubSource) Latest(_ context.Context, field string) ([]models.Sample, error) {
	if s.err != nil {
		return nil, &models.StoreQueryError{Field: field, Err: s.err}
	}
	return s.samples[field], nil
}

func (s *stubSource) ListEquipment(context.Context) ([]models.Equipment, error) {
	if s.err != nil {
		return nil, &models.StoreQueryError{Field: "equipment_id", Err: s.err}
	}
	return []models.Equipment{{EquipmentID: "1", Name: "Bike 1"}, {EquipmentID: "2", Name: "Bike 2"}}, nil
}

type stubSessions struct {
	records []models.SessionRecord
	board   []models.LeaderboardEntry
	limits  []int
}

func (s *stubSessions) InsertSession(_ context.Context, rec *models.SessionRecord) error {
	rec.ID = int64(len(s.records) + 1)
	s.records = append(s.records, *rec)
	return nil
}

func (s *stubSessions) ListSessions(_ context.Context, limit int) ([]models.SessionRecord, error) {
	s.limits = append(s.limits, limit)
	return s.records, nil
}

func (s *stubSessions) Leaderboard(_ context.Context, limit int) ([]models.LeaderboardEntry, error) {
	s.limits = append(s.limits, limit)
	return s.board, nil
}

type stubAssignments struct {
	saved []models.EquipmentSelection
	err   error
}

func (s *stubAssignments) Save(_ context.Context, sel models.EquipmentSelection, _ time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, sel)
	return nil
}

func (s *stubAssignments) Get(context.Context, string) (models.EquipmentSelection, error) {
	return models.EquipmentSelection{}, nil
}

type stubLive struct {
	ids []string
}

func (s *stubLive) ServeWS(w http.ResponseWriter, _ *http.Request, equipmentID string) {
	s.ids = append(s.ids, equipmentID)
	w.WriteHeader(http.StatusSwitchingProtocols)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }
