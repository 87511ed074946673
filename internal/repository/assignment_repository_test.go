package repository

import (
	"context"
	"testing"
	"time"

	"Cycleroom.influxDB/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentKey(t *testing.T) {
	assert.Equal(t, "equipment:bike-3:rider", assignmentKey("bike-3"))
}

func TestMemoryAssignmentSaveAndExpire(t *testing.T) {
	now := time.Date(2025, 2, 11, 20, 0, 0, 0, time.UTC)
	repo := NewMemoryAssignmentRepository()
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	sel := models.EquipmentSelection{UserName: "Ada", EquipmentID: "bike-3"}
	require.NoError(t, repo.Save(ctx, sel, time.Hour))

	got, err := repo.Get(ctx, "bike-3")
	require.NoError(t, err)
	assert.Equal(t, sel, got)

	now = now.Add(time.Hour)
	_, err = repo.Get(ctx, "bike-3")
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestMemoryAssignmentOverwrite(t *testing.T) {
	repo := NewMemoryAssignmentRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, models.EquipmentSelection{UserName: "Ada", EquipmentID: "1"}, 0))
	require.NoError(t, repo.Save(ctx, models.EquipmentSelection{UserName: "Grace", EquipmentID: "1"}, 0))

	got, err := repo.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.UserName)

	_, err = repo.Get(ctx, "2")
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}
