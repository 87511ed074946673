// Package grafana forwards rider selections to Grafana as dashboard annotations.
package grafana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Cycleroom.influxDB/internal/models"
	"github.com/go-resty/resty/v2"
)

// ErrAnnotationRejected is returned when Grafana answers with a non-2xx status.
var ErrAnnotationRejected = errors.New("grafana rejected annotation")

// Annotation is the body of POST /api/annotations.
type Annotation struct {
	Time int64    `json:"time"`
	Tags []string `json:"tags"`
	Text string   `json:"text"`
}

// Client posts annotations to a Grafana annotations endpoint.
type Client struct {
	http   *resty.Client
	url    string
	apiKey string
	now    func() time.Time
}

// NewClient creates a Client for the full annotations URL, e.g. http://grafana:3000/api/annotations.
func NewClient(url, apiKey string, timeout time.Duration) *Client {
	return &Client{
		http:   resty.New().SetTimeout(timeout),
		url:    url,
		apiKey: apiKey,
		now:    time.Now,
	}
}

// AnnotateSelection marks the moment a rider took a bike.
func (c *Client) AnnotateSelection(ctx context.Context, sel models.EquipmentSelection) error {
	body := Annotation{
		Time: c.now().UnixMilli(),
		Tags: []string{"equipment:" + sel.EquipmentID, "rider:" + sel.UserName},
		Text: fmt.Sprintf("%s is riding bike %s", sel.UserName, sel.EquipmentID),
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if c.apiKey != "" {
		req.SetAuthToken(c.apiKey)
	}

	resp, err := req.Post(c.url)
	if err != nil {
		return fmt.Errorf("error posting annotation: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: status %d: %s", ErrAnnotationRejected, resp.StatusCode(), resp.String())
	}
	return nil
}
