package service

import (
	"context"
	"time"

	"Cycleroom.influxDB/internal/models"
)

// MetricSource returns the latest samples of a field: the InfluxDB repository or the mock source.
type MetricSource interface {
	Latest(ctx context.Context, field string) ([]models.Sample, error)
}

// EquipmentLister lists selectable bikes.
type EquipmentLister interface {
	ListEquipment(ctx context.Context) ([]models.Equipment, error)
}

// ReadingWriter persists raw readings to the time-series store.
type ReadingWriter interface {
	WriteReading(ctx context.Context, reading models.TelemetryReading, ts time.Time) error
}

// SessionStore keeps the ride history.
type SessionStore interface {
	InsertSession(ctx context.Context, rec *models.SessionRecord) error
	ListSessions(ctx context.Context, limit int) ([]models.SessionRecord, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

// AssignmentStore binds riders to bikes.
type AssignmentStore interface {
	Save(ctx context.Context, sel models.EquipmentSelection, ttl time.Duration) error
	Get(ctx context.Context, equipmentID string) (models.EquipmentSelection, error)
}

// Annotator forwards a selection to an external dashboard.
type Annotator interface {
	AnnotateSelection(ctx context.Context, sel models.EquipmentSelection) error
}

// Broadcaster pushes live messages to subscribers.
type Broadcaster interface {
	Broadcast(msg models.LiveMessage)
}

// IngestRecorder counts ingested readings.
type IngestRecorder interface {
	ReadingIngested(source string)
	ReadingFailed()
}
