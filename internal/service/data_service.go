package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Cycleroom.influxDB/internal/models"
	"go.uber.org/zap"
)

// ErrInvalidReading is returned for readings that fail validation.
var ErrInvalidReading = errors.New("invalid reading")

// Ingestion sources.
const (
	SourceHTTP = "http"
	SourceMQTT = "mqtt"
)

// DataService handles reading and ingesting bike telemetry.
type DataService struct {
	source      MetricSource
	writer      ReadingWriter
	sessions    SessionStore
	broadcaster Broadcaster
	recorder    IngestRecorder
	now         func() time.Time
	logger      *zap.SugaredLogger
}

// DataServiceOption configures optional collaborators.
type DataServiceOption func(*DataService)

// WithReadingWriter stores ingested readings in the time-series store.
func WithReadingWriter(w ReadingWriter) DataServiceOption {
	return func(s *DataService) { s.writer = w }
}

// WithSessionStore records ingested readings as sessions.
func WithSessionStore(store SessionStore) DataServiceOption {
	return func(s *DataService) { s.sessions = store }
}

// WithBroadcaster pushes ingested readings to live subscribers.
func WithBroadcaster(b Broadcaster) DataServiceOption {
	return func(s *DataService) { s.broadcaster = b }
}

// WithIngestRecorder counts accepted and failed readings.
func WithIngestRecorder(r IngestRecorder) DataServiceOption {
	return func(s *DataService) { s.recorder = r }
}

// NewDataService creates a new DataService.
func NewDataService(source MetricSource, logger *zap.SugaredLogger, opts ...DataServiceOption) *DataService {
	s := &DataService{
		source: source,
		now:    time.Now,
		logger: logger.Named("data"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Samples returns every latest sample for field.
func (s *DataService) Samples(ctx context.Context, field string) ([]models.Sample, error) {
	samples, err := s.source.Latest(ctx, field)
	if err != nil {
		return nil, err
	}
	if samples == nil {
		samples = []models.Sample{}
	}
	return samples, nil
}

// Gauge returns the first sample of field; ok is false when there is none.
func (s *DataService) Gauge(ctx context.Context, field string) (sample models.Sample, ok bool, err error) {
	samples, err := s.source.Latest(ctx, field)
	if err != nil {
		return models.Sample{}, false, err
	}
	if len(samples) == 0 {
		return models.Sample{}, false, nil
	}
	return samples[0], true, nil
}

// Dashboard is the server-rendered overview.
type Dashboard struct {
	Power    []models.Sample
	Distance []models.Sample
	Gear     models.Sample
	HasGear  bool
}

// Dashboard collects the latest power, distance and gear.
func (s *DataService) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	var err error
	if d.Power, err = s.Samples(ctx, models.FieldPower); err != nil {
		return Dashboard{}, err
	}
	if d.Distance, err = s.Samples(ctx, models.FieldDistance); err != nil {
		return Dashboard{}, err
	}
	if d.Gear, d.HasGear, err = s.Gauge(ctx, models.FieldGear); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

// ProcessReading validates a bike broadcast, stores it and pushes it to live subscribers.
func (s *DataService) ProcessReading(ctx context.Context, source string, reading models.TelemetryReading) (models.SessionRecord, error) {
	rec, err := s.processReading(ctx, reading)
	if s.recorder != nil {
		if err != nil {
			s.recorder.ReadingFailed()
		} else {
			s.recorder.ReadingIngested(source)
		}
	}
	return rec, err
}

func (s *DataService) processReading(ctx context.Context, reading models.TelemetryReading) (models.SessionRecord, error) {
	if err := reading.Validate(); err != nil {
		return models.SessionRecord{}, fmt.Errorf("%w: %v", ErrInvalidReading, err)
	}
	ts := reading.Time(s.now)

	if s.writer != nil {
		if err := s.writer.WriteReading(ctx, reading, ts); err != nil {
			return models.SessionRecord{}, err
		}
	}

	rec := models.SessionRecord{
		Timestamp: ts,
		Device:    reading.EquipmentID,
		Power:     reading.Power,
		Cadence:   reading.Cadence,
	}
	if reading.HeartRate != nil {
		hr := int64(*reading.HeartRate)
		rec.HeartRate = &hr
	}
	if s.sessions != nil {
		if err := s.sessions.InsertSession(ctx, &rec); err != nil {
			return models.SessionRecord{}, err
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(models.NewLiveMessage(reading, ts))
	}
	s.logger.Debugw("reading processed", "equipment_id", reading.EquipmentID, "power", reading.Power, "cadence", reading.Cadence)
	return rec, nil
}
