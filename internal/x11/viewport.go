package x11

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/deskshell/internal/geometry"
)

// Viewport is a geometry.ViewportInfo backed by the active monitor's work
// area. Queries are cached for ttl; a failed query keeps the last known
// size, which starts out as the fallback.
type Viewport struct {
	conn   *Connection
	ttl    time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	last    geometry.Viewport
	fetched time.Time
}

// NewViewport returns a viewport reading from conn.
func NewViewport(conn *Connection, fallback geometry.Viewport, ttl time.Duration, logger *zap.Logger) *Viewport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Viewport{conn: conn, ttl: ttl, logger: logger, last: fallback}
}

func (v *Viewport) Viewport() geometry.Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.fetched.IsZero() && time.Since(v.fetched) < v.ttl {
		return v.last
	}
	v.fetched = time.Now()

	mon, err := v.conn.ActiveMonitor()
	if err != nil {
		v.logger.Warn("active monitor lookup failed", zap.Error(err))
		return v.last
	}
	next := geometry.Viewport{Width: mon.Bounds.Width, Height: mon.Bounds.Height}
	if next != v.last {
		v.logger.Debug("viewport changed",
			zap.String("monitor", mon.Name),
			zap.Int("width", next.Width),
			zap.Int("height", next.Height),
		)
	}
	v.last = next
	return next
}
