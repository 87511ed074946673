// Package client consumes the cycle room API from a rider's point of view.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"Cycleroom.influxDB/internal/models"
	"github.com/gorilla/websocket"
)

// DefaultWindowSize is the number of live points kept for charting.
const DefaultWindowSize = 50

// Point is one live message stamped with the time it was displayed.
type Point struct {
	ReceivedAt time.Time
	Metrics    models.LiveMetrics
}

// Window is a rolling buffer of the most recent points, oldest first.
type Window struct {
	mu     sync.Mutex
	size   int
	points []Point
}

// NewWindow creates a Window holding at most size points.
func NewWindow(size int) *Window {
	if size <= 0 {
		size = DefaultWindowSize
	}
	return &Window{size: size, points: make([]Point, 0, size)}
}

// Add appends p and drops the oldest points beyond the cap.
func (w *Window) Add(p Point) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.points = append(w.points, p)
	if over := len(w.points) - w.size; over > 0 {
		w.points = append(w.points[:0], w.points[over:]...)
	}
}

// Snapshot returns a copy of the window in arrival order.
func (w *Window) Snapshot() []Point {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Point, len(w.points))
	copy(out, w.points)
	return out
}

// Len returns the number of points held.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.points)
}

// LiveURL turns an API base URL into the push channel address, for one bike or all when equipmentID is empty.
func LiveURL(base, equipmentID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid server url %q: %w", base, err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	if equipmentID != "" {
		u.Path += "/" + url.PathEscape(equipmentID)
	}
	return u.String(), nil
}

// Feed is an open push channel connection.
type Feed struct {
	conn      *websocket.Conn
	now       func() time.Time
	closeOnce sync.Once
	closeErr  error
}

// Dial opens the push channel at addr.
func Dial(ctx context.Context, addr string) (*Feed, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("error connecting to live feed: %w", err)
	}
	return &Feed{conn: conn, now: time.Now}, nil
}

// Run delivers each message to onPoint in arrival order until ctx ends, the connection fails,
// a message cannot be decoded or onPoint returns an error.
func (f *Feed) Run(ctx context.Context, onPoint func(Point) error) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			f.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := f.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("error reading live feed: %w", err)
		}

		var msg models.LiveMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return fmt.Errorf("error decoding live message: %w", err)
		}
		if err := onPoint(Point{ReceivedAt: f.now(), Metrics: msg.Data}); err != nil {
			return err
		}
	}
}

// Close closes the connection. Calling it more than once is safe.
func (f *Feed) Close() error {
	f.closeOnce.Do(func() {
		f.closeErr = f.conn.Close()
	})
	return f.closeErr
}

// Watch dials addr and runs the feed; the connection is always closed before it returns.
func Watch(ctx context.Context, addr string, onPoint func(Point) error) error {
	feed, err := Dial(ctx, addr)
	if err != nil {
		return err
	}
	defer feed.Close()
	return feed.Run(ctx, onPoint)
}
