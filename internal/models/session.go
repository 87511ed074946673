package models

import "time"

// SessionRecord is one stored reading in the session history.
type SessionRecord struct {
	ID        int64     `json:"id" db:"id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Device    string    `json:"device" db:"device"`
	Power     float64   `json:"power" db:"power"`
	Cadence   float64   `json:"cadence" db:"cadence"`
	HeartRate *int64    `json:"heart_rate,omitempty" db:"heart_rate"`
}

// LeaderboardEntry ranks a device by its best effort.
type LeaderboardEntry struct {
	Device     string  `json:"device" db:"device"`
	MaxPower   float64 `json:"max_power" db:"max_power"`
	MaxCadence float64 `json:"max_cadence" db:"max_cadence"`
}
