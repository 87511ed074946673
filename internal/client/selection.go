package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"Cycleroom.influxDB/internal/models"
	"github.com/go-resty/resty/v2"
)

// ErrValidation is returned before any request when the rider name or bike is missing.
var ErrValidation = models.ErrValidation

// ErrSubmitFailed is returned when the server does not accept a selection.
var ErrSubmitFailed = errors.New("failed to submit bike selection")

// Submitter loads bikes and submits a rider's pick.
type Submitter struct {
	http *resty.Client
}

// NewSubmitter creates a Submitter for the API at baseURL. Requests are never retried.
func NewSubmitter(baseURL string, timeout time.Duration) *Submitter {
	return &Submitter{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetRetryCount(0),
	}
}

// LoadBikes fetches the selectable bikes.
func (s *Submitter) LoadBikes(ctx context.Context) ([]models.Equipment, error) {
	var bikes []models.Equipment
	resp, err := s.http.R().
		SetContext(ctx).
		SetResult(&bikes).
		Get("/bikes")
	if err != nil {
		return nil, fmt.Errorf("error loading bikes: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("error loading bikes: status %d", resp.StatusCode())
	}
	return bikes, nil
}

// Submit sends one selection. Invalid input never reaches the network.
func (s *Submitter) Submit(ctx context.Context, userName, equipmentID string) error {
	sel := models.EquipmentSelection{UserName: strings.TrimSpace(userName), EquipmentID: equipmentID}
	if err := sel.Validate(); err != nil {
		return err
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(sel).
		Post("/update_grafana")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: status %d: %s", ErrSubmitFailed, resp.StatusCode(), resp.String())
	}
	return nil
}
