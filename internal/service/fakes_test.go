package service

import (
	"context"
	"sync"
	"time"

	"Cycleroom.influxDB/internal/models"
)

type fakeSource struct {
	samples map[string][]models.Sample
	err     error
	fields  []string
}

func (f *fakeSource) Latest(_ context.Context, field string) ([]models.Sample, error) {
	f.fields = append(f.fields, field)
	if f.err != nil {
		return nil, f.err
	}
	return f.samples[field], nil
}

type fakeLister struct {
	bikes []models.Equipment
	err   error
}

func (f *fakeLister) ListEquipment(context.Context) ([]models.Equipment, error) {
	return f.bikes, f.err
}

type fakeWriter struct {
	readings []models.TelemetryReading
	times    []time.Time
	err      error
}

func (f *fakeWriter) WriteReading(_ context.Context, r models.TelemetryReading, ts time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.readings = append(f.readings, r)
	f.times = append(f.times, ts)
	return nil
}

type fakeSessions struct {
	records []models.SessionRecord
	board   []models.LeaderboardEntry
	limits  []int
	err     error
}

func (f *fakeSessions) InsertSession(_ context.Context, rec *models.SessionRecord) error {
	if f.err != nil {
		return f.err
	}
	rec.ID = int64(len(f.records) + 1)
	f.records = append(f.records, *rec)
	return nil
}

func (f *fakeSessions) ListSessions(_ context.Context, limit int) ([]models.SessionRecord, error) {
	f.limits = append(f.limits, limit)
	return f.records, f.err
}

func (f *fakeSessions) Leaderboard(_ context.Context, limit int) ([]models.LeaderboardEntry, error) {
	f.limits = append(f.limits, limit)
	return f.board, f.err
}

type fakeAssignments struct {
	saved map[string]models.EquipmentSelection
	ttl   time.Duration
	err   error
}

func (f *fakeAssignments) Save(_ context.Context, sel models.EquipmentSelection, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	if f.saved == nil {
		f.saved = map[string]models.EquipmentSelection{}
	}
	f.saved[sel.EquipmentID] = sel
	f.ttl = ttl
	return nil
}

func (f *fakeAssignments) Get(_ context.Context, id string) (models.EquipmentSelection, error) {
	return f.saved[id], nil
}

type fakeAnnotator struct {
	calls []models.EquipmentSelection
	err   error
}

func (f *fakeAnnotator) AnnotateSelection(_ context.Context, sel models.EquipmentSelection) error {
	f.calls = append(f.calls, sel)
	return f.err
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	messages []models.LiveMessage
}

func (f *fakeBroadcaster) Broadcast(msg models.LiveMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
}
