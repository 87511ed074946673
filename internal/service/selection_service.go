package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"Cycleroom.influxDB/internal/models"
	"go.uber.org/zap"
)

// SelectionService binds riders to bikes.
type SelectionService struct {
	lister      EquipmentLister
	assignments AssignmentStore
	annotator   Annotator
	ttl         time.Duration
	logger      *zap.SugaredLogger
}

// NewSelectionService creates a SelectionService. annotator may be nil.
func NewSelectionService(lister EquipmentLister, assignments AssignmentStore, annotator Annotator, ttl time.Duration, logger *zap.SugaredLogger) *SelectionService {
	return &SelectionService{
		lister:      lister,
		assignments: assignments,
		annotator:   annotator,
		ttl:         ttl,
		logger:      logger.Named("selection"),
	}
}

// ListBikes returns the bikes a rider can pick.
func (s *SelectionService) ListBikes(ctx context.Context) ([]models.Equipment, error) {
	return s.lister.ListEquipment(ctx)
}

// Submit stores the pairing and annotates the external dashboard.
func (s *SelectionService) Submit(ctx context.Context, sel models.EquipmentSelection) error {
	if err := sel.Validate(); err != nil {
		return err
	}
	sel.UserName = strings.TrimSpace(sel.UserName)
	sel.EquipmentID = strings.TrimSpace(sel.EquipmentID)

	if err := s.assignments.Save(ctx, sel, s.ttl); err != nil {
		return fmt.Errorf("failed to save assignment: %w", err)
	}
	if s.annotator != nil {
		if err := s.annotator.AnnotateSelection(ctx, sel); err != nil {
			return fmt.Errorf("failed to update Grafana: %w", err)
		}
	}
	s.logger.Infof("✅ %s assigned to bike %s", sel.UserName, sel.EquipmentID)
	return nil
}

// Rider returns the rider currently on equipmentID.
func (s *SelectionService) Rider(ctx context.Context, equipmentID string) (models.EquipmentSelection, error) {
	return s.assignments.Get(ctx, equipmentID)
}
