package repository

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"Cycleroom.influxDB/internal/models"
)

const (
	mockEquipmentID = "mock"
	mockBikeCount   = 20
)

// MockSource serves random telemetry for local development without a live store.
type MockSource struct {
	now func() time.Time
}

// NewMockSource creates a MockSource.
func NewMockSource() *MockSource {
	return &MockSource{now: time.Now}
}

// Latest returns a random series for power and distance and a single random gear reading.
func (m *MockSource) Latest(_ context.Context, field string) ([]models.Sample, error) {
	now := m.now().UTC()
	switch field {
	case models.FieldGear:
		return []models.Sample{{Time: now, Value: float64(rand.Intn(25)), EquipmentID: mockEquipmentID}}, nil
	case models.FieldPower:
		return m.series(now, 200), nil
	case models.FieldDistance:
		return m.series(now, 10), nil
	}
	return []models.Sample{}, nil
}

func (m *MockSource) series(now time.Time, scale float64) []models.Sample {
	samples := make([]models.Sample, 0, 3)
	for i := 2; i >= 0; i-- {
		samples = append(samples, models.Sample{
			Time:        now.Add(-time.Duration(i) * time.Minute),
			Value:       rand.Float64() * scale,
			EquipmentID: mockEquipmentID,
		})
	}
	return samples
}

// ListEquipment returns the fixed studio line-up, Bike 1 to Bike 20.
func (m *MockSource) ListEquipment(_ context.Context) ([]models.Equipment, error) {
	bikes := make([]models.Equipment, 0, mockBikeCount)
	for i := 1; i <= mockBikeCount; i++ {
		id := strconv.Itoa(i)
		bikes = append(bikes, models.Equipment{EquipmentID: id, Name: "Bike " + id})
	}
	return bikes, nil
}
