package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"Cycleroom.influxDB/internal/models"
)

// DefaultLeaderboardSize is the number of riders shown when no limit is given.
const DefaultLeaderboardSize = 10

// ErrNotConfigured is returned when no session database is configured.
var ErrNotConfigured = errors.New("session history is not configured")

// SessionService reads the ride history.
type SessionService struct {
	store SessionStore
}

// NewSessionService creates a SessionService. store may be nil.
func NewSessionService(store SessionStore) *SessionService {
	return &SessionService{store: store}
}

// List returns the most recent sessions.
func (s *SessionService) List(ctx context.Context, limit int) ([]models.SessionRecord, error) {
	if s.store == nil {
		return nil, ErrNotConfigured
	}
	return s.store.ListSessions(ctx, limit)
}

// Leaderboard returns the top riders by max power.
func (s *SessionService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if s.store == nil {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	return s.store.Leaderboard(ctx, limit)
}

// ExportCSV writes the full history, newest first.
func (s *SessionService) ExportCSV(ctx context.Context, w io.Writer) error {
	sessions, err := s.List(ctx, 0)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Device", "Timestamp", "Power", "Cadence", "Heart Rate"}); err != nil {
		return err
	}
	for _, rec := range sessions {
		hr := ""
		if rec.HeartRate != nil {
			hr = strconv.FormatInt(*rec.HeartRate, 10)
		}
		row := []string{
			strconv.FormatInt(rec.ID, 10),
			rec.Device,
			rec.Timestamp.UTC().Format(time.RFC3339),
			strconv.FormatFloat(rec.Power, 'f', -1, 64),
			strconv.FormatFloat(rec.Cadence, 'f', -1, 64),
			hr,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
