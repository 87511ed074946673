package hub

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Cycleroom.influxDB/internal/models"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	h := New(zaptest.NewLogger(t).Sugar())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeWS(w, r, strings.TrimPrefix(r.URL.Path, "/ws/"))
	}))
	t.Cleanup(func() {
		h.Close()
		srv.Close()
	})
	return h, srv
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readLive(t *testing.T, conn *websocket.Conn) models.LiveMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg models.LiveMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func live(equipmentID string, power float64) models.LiveMessage {
	return models.LiveMessage{Data: models.LiveMetrics{EquipmentID: equipmentID, Power: power, Cadence: 90}}
}

func TestBroadcastReachesAllBikeSubscriber(t *testing.T) {
	h, srv := startHub(t)
	conn := dial(t, srv, "/ws/")
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	h.Broadcast(live("bike-3", 210))

	msg := readLive(t, conn)
	assert.Equal(t, "bike-3", msg.Data.EquipmentID)
	assert.Equal(t, 210.0, msg.Data.Power)
}

func TestBroadcastFiltersByEquipment(t *testing.T) {
	h, srv := startHub(t)
	bike1 := dial(t, srv, "/ws/bike-1")
	bike2 := dial(t, srv, "/ws/bike-2")
	require.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	h.Broadcast(live("bike-2", 150))
	h.Broadcast(live("bike-1", 175))

	assert.Equal(t, 175.0, readLive(t, bike1).Data.Power)
	assert.Equal(t, 150.0, readLive(t, bike2).Data.Power)
}

func TestClientDisconnectUnregisters(t *testing.T) {
	h, srv := startHub(t)
	conn := dial(t, srv, "/ws/")
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	assert.Eventually(t, func() bool { return h.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}
