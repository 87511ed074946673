package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"Cycleroom.influxDB/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSubmitSavesAndAnnotates(t *testing.T) {
	store := &fakeAssignments{}
	ann := &fakeAnnotator{}
	svc := NewSelectionService(&fakeLister{}, store, ann, 2*time.Hour, zaptest.NewLogger(t).Sugar())

	err := svc.Submit(context.Background(), models.EquipmentSelection{UserName: "  Ada ", EquipmentID: "3"})
	require.NoError(t, err)

	want := models.EquipmentSelection{UserName: "Ada", EquipmentID: "3"}
	assert.Equal(t, want, store.saved["3"])
	assert.Equal(t, 2*time.Hour, store.ttl)
	assert.Equal(t, []models.EquipmentSelection{want}, ann.calls)

	rider, err := svc.Rider(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "Ada", rider.UserName)
}

func TestSubmitValidation(t *testing.T) {
	store := &fakeAssignments{}
	ann := &fakeAnnotator{}
	svc := NewSelectionService(&fakeLister{}, store, ann, time.Hour, zaptest.NewLogger(t).Sugar())

	for _, sel := range []models.EquipmentSelection{
		{UserName: "", EquipmentID: "3"},
		{UserName: "Ada", EquipmentID: ""},
		{UserName: "   ", EquipmentID: "3"},
	} {
		assert.ErrorIs(t, svc.Submit(context.Background(), sel), models.ErrValidation)
	}
	assert.Empty(t, store.saved)
	assert.Empty(t, ann.calls)
}

func TestSubmitWithoutAnnotator(t *testing.T) {
	store := &fakeAssignments{}
	svc := NewSelectionService(&fakeLister{}, store, nil, time.Hour, zaptest.NewLogger(t).Sugar())

	require.NoError(t, svc.Submit(context.Background(), models.EquipmentSelection{UserName: "Ada", EquipmentID: "1"}))
	assert.Len(t, store.saved, 1)
}

func TestSubmitReportsFailures(t *testing.T) {
	log := zaptest.NewLogger(t).Sugar()

	svc := NewSelectionService(&fakeLister{}, &fakeAssignments{err: errors.New("redis down")}, &fakeAnnotator{}, time.Hour, log)
	assert.ErrorContains(t, svc.Submit(context.Background(), models.EquipmentSelection{UserName: "Ada", EquipmentID: "1"}), "redis down")

	svc = NewSelectionService(&fakeLister{}, &fakeAssignments{}, &fakeAnnotator{err: errors.New("401")}, time.Hour, log)
	assert.ErrorContains(t, svc.Submit(context.Background(), models.EquipmentSelection{UserName: "Ada", EquipmentID: "1"}), "failed to update Grafana")
}

func TestListBikes(t *testing.T) {
	bikes := []models.Equipment{{EquipmentID: "1", Name: "Bike 1"}}
	svc := NewSelectionService(&fakeLister{bikes: bikes}, &fakeAssignments{}, nil, time.Hour, zaptest.NewLogger(t).Sugar())

	got, err := svc.ListBikes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, bikes, got)
}
