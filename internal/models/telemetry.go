package models

import (
	"fmt"
	"strings"
	"time"
)

// TelemetryReading is a single broadcast from a bike, as posted to /sessions or published over MQTT.
type TelemetryReading struct {
	EquipmentID string   `json:"equipment_id"`
	Timestamp   string   `json:"timestamp"`
	Power       float64  `json:"power"`
	Cadence     float64  `json:"cadence"`
	HeartRate   *float64 `json:"heart_rate,omitempty"`
	Gear        int      `json:"gear"`
	Distance    float64  `json:"distance"`
	CaloricBurn float64  `json:"caloric_burn"`
	Duration    int      `json:"duration"`
}

// Validate checks the fields a reading cannot be stored without.
func (r TelemetryReading) Validate() error {
	if strings.TrimSpace(r.EquipmentID) == "" {
		return fmt.Errorf("equipment_id is required")
	}
	if r.Power < 0 || r.Cadence < 0 || r.Distance < 0 {
		return fmt.Errorf("power, cadence and distance cannot be negative")
	}
	return nil
}

// Time returns the reading timestamp, falling back to now when it is missing or unparsable.
func (r TelemetryReading) Time(now func() time.Time) time.Time {
	if r.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, r.Timestamp); err == nil {
			return ts.UTC()
		}
	}
	return now().UTC()
}

// LiveMetrics is the payload pushed to live-feed subscribers.
type LiveMetrics struct {
	EquipmentID string   `json:"equipment_id"`
	Timestamp   string   `json:"timestamp"`
	Power       float64  `json:"power"`
	Cadence     float64  `json:"cadence"`
	Distance    float64  `json:"distance"`
	Gear        int      `json:"gear"`
	HeartRate   *float64 `json:"heart_rate,omitempty"`
	CaloricBurn float64  `json:"caloric_burn"`
}

// LiveMessage is the push channel envelope.
type LiveMessage struct {
	Data LiveMetrics `json:"data"`
}

// NewLiveMessage wraps a reading for the push channel.
func NewLiveMessage(r TelemetryReading, ts time.Time) LiveMessage {
	return LiveMessage{Data: LiveMetrics{
		EquipmentID: r.EquipmentID,
		Timestamp:   ts.Format(time.RFC3339),
		Power:       r.Power,
		Cadence:     r.Cadence,
		Distance:    r.Distance,
		Gear:        r.Gear,
		HeartRate:   r.HeartRate,
		CaloricBurn: r.CaloricBurn,
	}}
}
