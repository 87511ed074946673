package repository

import (
	"fmt"
	"time"
)

// BuildLastValueQuery selects the most recent point of one field per series
// within the look-back window.
func BuildLastValueQuery(bucket, measurement, field string, lookback time.Duration) string {
	return fmt.Sprintf(`from(bucket: "%s")
  |> range(start: -%s)
  |> filter(fn: (r) => r["_measurement"] == "%s")
  |> filter(fn: (r) => r["_field"] == "%s")
  |> last()`, bucket, fluxDuration(lookback), measurement, field)
}

// BuildEquipmentQuery lists the distinct equipment_id tags seen in the window.
func BuildEquipmentQuery(bucket, measurement string, window time.Duration) string {
	return fmt.Sprintf(`from(bucket: "%s")
  |> range(start: -%s)
  |> filter(fn: (r) => r["_measurement"] == "%s")
  |> keep(columns: ["equipment_id"])
  |> group()
  |> unique(column: "equipment_id")`, bucket, fluxDuration(window), measurement)
}

// fluxDuration renders d as a single-unit Flux duration literal.
func fluxDuration(d time.Duration) string {
	switch {
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	case d%time.Second == 0:
		return fmt.Sprintf("%ds", d/time.Second)
	default:
		return fmt.Sprintf("%dms", d/time.Millisecond)
	}
}
