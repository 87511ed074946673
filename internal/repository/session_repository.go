package repository

import (
	"context"
	"fmt"

	"Cycleroom.influxDB/internal/models"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	postgresSchema = `CREATE TABLE IF NOT EXISTS sessions (
	id         BIGSERIAL PRIMARY KEY,
	device     TEXT NOT NULL,
	timestamp  TIMESTAMPTZ NOT NULL,
	power      DOUBLE PRECISION NOT NULL DEFAULT 0,
	cadence    DOUBLE PRECISION NOT NULL DEFAULT 0,
	heart_rate BIGINT
)`

	sqliteSchema = `CREATE TABLE IF NOT EXISTS sessions (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	device     TEXT NOT NULL,
	timestamp  TIMESTAMP NOT NULL,
	power      REAL NOT NULL DEFAULT 0,
	cadence    REAL NOT NULL DEFAULT 0,
	heart_rate INTEGER
)`
)

// SessionRepository keeps the ride history used by /sessions, /leaderboard and /export.
type SessionRepository struct {
	db *sqlx.DB
}

// OpenSessionRepository connects to the session database and creates the schema if needed.
// driver is "postgres" (TimescaleDB) or "sqlite3".
func OpenSessionRepository(ctx context.Context, driver, dsn string) (*SessionRepository, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session database: %w", err)
	}
	if driver == "sqlite3" {
		// a single writer keeps in-memory databases shared across the pool
		db.SetMaxOpenConns(1)
	}

	repo := NewSessionRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// NewSessionRepository wraps an open connection.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Migrate creates the sessions table.
func (r *SessionRepository) Migrate(ctx context.Context) error {
	schema := sqliteSchema
	if r.db.DriverName() == "postgres" {
		schema = postgresSchema
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("error creating sessions table: %w", err)
	}
	return nil
}

// InsertSession stores rec and fills in its ID.
func (r *SessionRepository) InsertSession(ctx context.Context, rec *models.SessionRecord) error {
	q := r.db.Rebind(`INSERT INTO sessions (device, timestamp, power, cadence, heart_rate)
		VALUES (?, ?, ?, ?, ?) RETURNING id`)
	if err := r.db.QueryRowxContext(ctx, q, rec.Device, rec.Timestamp, rec.Power, rec.Cadence, rec.HeartRate).Scan(&rec.ID); err != nil {
		return fmt.Errorf("error inserting session: %w", err)
	}
	return nil
}

// ListSessions returns the most recent sessions first. limit <= 0 returns everything.
func (r *SessionRepository) ListSessions(ctx context.Context, limit int) ([]models.SessionRecord, error) {
	sessions := []models.SessionRecord{}
	q := `SELECT id, device, timestamp, power, cadence, heart_rate FROM sessions ORDER BY timestamp DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	if err := r.db.SelectContext(ctx, &sessions, r.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	return sessions, nil
}

// Leaderboard ranks devices by their best power output.
func (r *SessionRepository) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	entries := []models.LeaderboardEntry{}
	q := r.db.Rebind(`SELECT device, MAX(power) AS max_power, MAX(cadence) AS max_cadence
		FROM sessions
		GROUP BY device
		ORDER BY max_power DESC, device ASC
		LIMIT ?`)
	if err := r.db.SelectContext(ctx, &entries, q, limit); err != nil {
		return nil, fmt.Errorf("error building leaderboard: %w", err)
	}
	return entries, nil
}

// Ping checks the database connection.
func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the connection pool.
func (r *SessionRepository) Close() error {
	return r.db.Close()
}
