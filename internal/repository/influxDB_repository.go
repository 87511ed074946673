// internal/repository/influxDB_repository.go

package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"Cycleroom.influxDB/internal/config"
	"Cycleroom.influxDB/internal/models"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/query"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"go.uber.org/zap"
)

const equipmentWindow = 24 * time.Hour

// recordStream is the subset of *api.QueryTableResult the repository reads.
type recordStream interface {
	Next() bool
	Record() *query.FluxRecord
	Err() error
	Close() error
}

type fluxQuerier interface {
	Query(ctx context.Context, flux string) (recordStream, error)
}

type pointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

type queryAPIAdapter struct {
	api api.QueryAPI
}

func (a queryAPIAdapter) Query(ctx context.Context, flux string) (recordStream, error) {
	result, err := a.api.Query(ctx, flux)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// InfluxDBRepository reads and writes bike telemetry in InfluxDB.
type InfluxDBRepository struct {
	client      influxdb2.Client
	querier     fluxQuerier
	writer      pointWriter
	org         string
	bucket      string
	measurement string
	lookback    time.Duration
	logger      *zap.SugaredLogger
}

// NewInfluxDBRepository creates a new InfluxDBRepository.
func NewInfluxDBRepository(cfg config.Config, logger *zap.SugaredLogger) *InfluxDBRepository {
	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	repo := newInfluxDBRepository(
		queryAPIAdapter{api: client.QueryAPI(cfg.InfluxDBOrg)},
		client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket),
		cfg.InfluxDBBucket, cfg.InfluxDBMeasurement, cfg.Lookback, logger,
	)
	repo.client = client
	repo.org = cfg.InfluxDBOrg
	return repo
}

func newInfluxDBRepository(q fluxQuerier, w pointWriter, bucket, measurement string, lookback time.Duration, logger *zap.SugaredLogger) *InfluxDBRepository {
	return &InfluxDBRepository{
		querier:     q,
		writer:      w,
		bucket:      bucket,
		measurement: measurement,
		lookback:    lookback,
		logger:      logger.Named("influxdb"),
	}
}

// Ping checks the server is reachable and healthy.
func (r *InfluxDBRepository) Ping(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	ok, err := r.client.Ping(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to InfluxDB: %w", err)
	}
	if !ok {
		return fmt.Errorf("InfluxDB health check failed")
	}
	return nil
}

// EnsureBucket creates the configured bucket in the configured organization when it does not exist.
func (r *InfluxDBRepository) EnsureBucket(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	bucketsAPI := r.client.BucketsAPI()
	if _, err := bucketsAPI.FindBucketByName(ctx, r.bucket); err == nil {
		r.logger.Infof("Bucket '%s' already exists", r.bucket)
		return nil
	}

	org, err := r.client.OrganizationsAPI().FindOrganizationByName(ctx, r.org)
	if err != nil {
		return fmt.Errorf("error finding organization '%s': %w", r.org, err)
	}
	if _, err := bucketsAPI.CreateBucketWithName(ctx, org, r.bucket); err != nil {
		return fmt.Errorf("error creating bucket '%s': %w", r.bucket, err)
	}
	r.logger.Infof("✅ Bucket '%s' created successfully.", r.bucket)
	return nil
}

// Close releases the underlying client.
func (r *InfluxDBRepository) Close() {
	if r.client != nil {
		r.client.Close()
	}
}

// Latest returns the last point of field for every bike reporting within the look-back window.
// Rows are returned in store order; an empty window yields an empty, non-nil slice.
func (r *InfluxDBRepository) Latest(ctx context.Context, field string) ([]models.Sample, error) {
	flux := BuildLastValueQuery(r.bucket, r.measurement, field, r.lookback)
	r.logger.Debugw("executing InfluxDB query", "field", field, "query", flux)

	result, err := r.querier.Query(ctx, flux)
	if err != nil {
		r.logger.Errorw("error querying InfluxDB", "field", field, "error", err)
		return nil, &models.StoreQueryError{Field: field, Err: err}
	}
	defer result.Close()

	samples := make([]models.Sample, 0)
	for result.Next() {
		samples = append(samples, toSample(result.Record()))
	}
	if err := result.Err(); err != nil {
		r.logger.Errorw("error during query iteration", "field", field, "error", err)
		return nil, &models.StoreQueryError{Field: field, Err: err}
	}
	return samples, nil
}

func toSample(record *query.FluxRecord) models.Sample {
	s := models.Sample{Time: record.Time()}
	if id, ok := record.ValueByKey("equipment_id").(string); ok {
		s.EquipmentID = id
	}
	s.Value = toFloat(record.Value())
	return s
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case bool:
		if n {
			return 1
		}
	}
	return 0
}

// ListEquipment returns every bike that reported in the last day, sorted by id.
func (r *InfluxDBRepository) ListEquipment(ctx context.Context) ([]models.Equipment, error) {
	flux := BuildEquipmentQuery(r.bucket, r.measurement, equipmentWindow)
	result, err := r.querier.Query(ctx, flux)
	if err != nil {
		return nil, &models.StoreQueryError{Field: "equipment_id", Err: err}
	}
	defer result.Close()

	seen := make(map[string]struct{})
	for result.Next() {
		id, ok := result.Record().ValueByKey("equipment_id").(string)
		if !ok || id == "" {
			r.logger.Warn("⚠️ Found a non-string equipment_id, skipping...")
			continue
		}
		seen[id] = struct{}{}
	}
	if err := result.Err(); err != nil {
		return nil, &models.StoreQueryError{Field: "equipment_id", Err: err}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	equipment := make([]models.Equipment, 0, len(ids))
	for _, id := range ids {
		equipment = append(equipment, models.Equipment{EquipmentID: id, Name: "Bike " + id})
	}
	return equipment, nil
}

// WriteReading stores one bike broadcast as a point tagged with its equipment_id.
func (r *InfluxDBRepository) WriteReading(ctx context.Context, reading models.TelemetryReading, ts time.Time) error {
	fields := map[string]interface{}{
		"power":        reading.Power,
		"cadence":      reading.Cadence,
		"gear":         int64(reading.Gear),
		"distance":     reading.Distance,
		"caloric_burn": reading.CaloricBurn,
		"duration":     int64(reading.Duration),
	}
	if reading.HeartRate != nil {
		fields["heart_rate"] = *reading.HeartRate
	}

	p := influxdb2.NewPoint(
		r.measurement,
		map[string]string{"equipment_id": reading.EquipmentID},
		fields,
		ts,
	)
	if err := r.writer.WritePoint(ctx, p); err != nil {
		return fmt.Errorf("error writing to InfluxDB: %w", err)
	}
	r.logger.Debugw("data point written to InfluxDB", "bucket", r.bucket, "equipment_id", reading.EquipmentID)
	return nil
}
