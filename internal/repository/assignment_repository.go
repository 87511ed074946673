package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"Cycleroom.influxDB/internal/models"
	"github.com/go-redis/redis/v8"
)

// ErrAssignmentNotFound is returned when no rider is bound to a bike.
var ErrAssignmentNotFound = errors.New("no rider assigned to bike")

func assignmentKey(equipmentID string) string {
	return fmt.Sprintf("equipment:%s:rider", equipmentID)
}

// RedisAssignmentRepository stores rider/bike bindings in Redis with a TTL.
type RedisAssignmentRepository struct {
	client *redis.Client
}

// NewRedisAssignmentRepository connects to Redis and checks the connection.
func NewRedisAssignmentRepository(ctx context.Context, addr, password string, db int) (*RedisAssignmentRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not connect to Redis: %w", err)
	}
	return &RedisAssignmentRepository{client: client}, nil
}

// Save binds sel.UserName to sel.EquipmentID for ttl.
func (r *RedisAssignmentRepository) Save(ctx context.Context, sel models.EquipmentSelection, ttl time.Duration) error {
	payload, err := json.Marshal(sel)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, assignmentKey(sel.EquipmentID), payload, ttl).Err()
}

// Get returns the rider currently bound to equipmentID.
func (r *RedisAssignmentRepository) Get(ctx context.Context, equipmentID string) (models.EquipmentSelection, error) {
	raw, err := r.client.Get(ctx, assignmentKey(equipmentID)).Result()
	if err != nil {
		if err == redis.Nil {
			return models.EquipmentSelection{}, ErrAssignmentNotFound
		}
		return models.EquipmentSelection{}, err
	}
	var sel models.EquipmentSelection
	if err := json.Unmarshal([]byte(raw), &sel); err != nil {
		return models.EquipmentSelection{}, fmt.Errorf("decoding assignment for %s: %w", equipmentID, err)
	}
	return sel, nil
}

// Ping checks the Redis connection.
func (r *RedisAssignmentRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (r *RedisAssignmentRepository) Close() error {
	return r.client.Close()
}

// MemoryAssignmentRepository is used when no Redis address is configured.
type MemoryAssignmentRepository struct {
	mu      sync.Mutex
	entries map[string]memoryAssignment
	now     func() time.Time
}

type memoryAssignment struct {
	sel     models.EquipmentSelection
	expires time.Time
}

// NewMemoryAssignmentRepository creates an empty in-process store.
func NewMemoryAssignmentRepository() *MemoryAssignmentRepository {
	return &MemoryAssignmentRepository{entries: make(map[string]memoryAssignment), now: time.Now}
}

func (m *MemoryAssignmentRepository) Save(_ context.Context, sel models.EquipmentSelection, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expires time.Time
	if ttl > 0 {
		expires = m.now().Add(ttl)
	}
	m.entries[assignmentKey(sel.EquipmentID)] = memoryAssignment{sel: sel, expires: expires}
	return nil
}

func (m *MemoryAssignmentRepository) Get(_ context.Context, equipmentID string) (models.EquipmentSelection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := assignmentKey(equipmentID)
	entry, ok := m.entries[key]
	if !ok {
		return models.EquipmentSelection{}, ErrAssignmentNotFound
	}
	if !entry.expires.IsZero() && !m.now().Before(entry.expires) {
		delete(m.entries, key)
		return models.EquipmentSelection{}, ErrAssignmentNotFound
	}
	return entry.sel, nil
}
