package repository

import (
	"context"
	"testing"
	"time"

	"Cycleroom.influxDB/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSessions(t *testing.T) *SessionRepository {
	t.Helper()
	repo, err := OpenSessionRepository(context.Background(), "sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func insert(t *testing.T, repo *SessionRepository, device string, at time.Time, power, cadence float64, hr *int64) models.SessionRecord {
	t.Helper()
	rec := models.SessionRecord{Device: device, Timestamp: at, Power: power, Cadence: cadence, HeartRate: hr}
	require.NoError(t, repo.InsertSession(context.Background(), &rec))
	return rec
}

func TestSessionRepositoryPing(t *testing.T) {
	assert.NoError(t, openTestSessions(t).Ping(context.Background()))
}

func TestInsertAndListSessions(t *testing.T) {
	repo := openTestSessions(t)
	base := time.Date(2025, 2, 11, 20, 0, 0, 0, time.UTC)
	hr := int64(140)

	first := insert(t, repo, "bike-1", base, 150, 80, &hr)
	second := insert(t, repo, "bike-2", base.Add(time.Minute), 210, 92, nil)
	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	sessions, err := repo.ListSessions(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.Equal(t, "bike-2", sessions[0].Device)
	assert.Nil(t, sessions[0].HeartRate)
	assert.True(t, sessions[0].Timestamp.Equal(base.Add(time.Minute)))

	assert.Equal(t, "bike-1", sessions[1].Device)
	require.NotNil(t, sessions[1].HeartRate)
	assert.Equal(t, int64(140), *sessions[1].HeartRate)
}

func TestListSessionsLimit(t *testing.T) {
	repo := openTestSessions(t)
	base := time.Date(2025, 2, 11, 20, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		insert(t, repo, "bike-1", base.Add(time.Duration(i)*time.Second), float64(100+i), 80, nil)
	}

	sessions, err := repo.ListSessions(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, 104.0, sessions[0].Power)
}

func TestListSessionsEmpty(t *testing.T) {
	sessions, err := openTestSessions(t).ListSessions(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}

func TestLeaderboardRanksByMaxPower(t *testing.T) {
	repo := openTestSessions(t)
	now := time.Date(2025, 2, 11, 20, 0, 0, 0, time.UTC)

	insert(t, repo, "bike-1", now, 180, 95, nil)
	insert(t, repo, "bike-1", now.Add(time.Second), 240, 88, nil)
	insert(t, repo, "bike-2", now, 300, 70, nil)
	insert(t, repo, "bike-3", now, 120, 110, nil)

	entries, err := repo.Leaderboard(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []models.LeaderboardEntry{
		{Device: "bike-2", MaxPower: 300, MaxCadence: 70},
		{Device: "bike-1", MaxPower: 240, MaxCadence: 95},
		{Device: "bike-3", MaxPower: 120, MaxCadence: 110},
	}, entries)

	top, err := repo.Leaderboard(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "bike-2", top[0].Device)
}
