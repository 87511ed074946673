package grafana

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Cycleroom.influxDB/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotateSelection(t *testing.T) {
	var got Annotation
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":1,"message":"Annotation added"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/annotations", "api-key", time.Second)
	c.now = func() time.Time { return time.UnixMilli(1739305478618) }

	err := c.AnnotateSelection(context.Background(), models.EquipmentSelection{UserName: "Ada", EquipmentID: "bike-3"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer api-key", auth)
	assert.Equal(t, int64(1739305478618), got.Time)
	assert.Equal(t, []string{"equipment:bike-3", "rider:Ada"}, got.Tags)
	assert.Equal(t, "Ada is riding bike bike-3", got.Text)
}

func TestAnnotateSelectionRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid API key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "", time.Second).AnnotateSelection(context.Background(), models.EquipmentSelection{UserName: "Ada", EquipmentID: "1"})
	assert.ErrorIs(t, err, ErrAnnotationRejected)
	assert.ErrorContains(t, err, "401")
}
