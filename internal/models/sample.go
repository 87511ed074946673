package models

import "time"

// Sample is one reading of one field for one piece of equipment.
type Sample struct {
	Time        time.Time `json:"time"`
	Value       float64   `json:"value"`
	EquipmentID string    `json:"equipment_id"`
}

// GaugeDefault is returned by gauge endpoints when the store has no reading.
type GaugeDefault struct {
	Value float64 `json:"value"`
}

// Fields served by the telemetry endpoints.
const (
	FieldPower    = "power"
	FieldDistance = "distance"
	FieldGear     = "gear"
)
