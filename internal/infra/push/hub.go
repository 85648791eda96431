// Package push exposes the one-way UI boundary: a websocket hub that
// broadcasts market-update pings and leveled notifications to every
// connected client.
package push

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"cardmarket/internal/domain"
	"cardmarket/internal/infra"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const writeTimeout = 5 * time.Second

// frame is the wire format for every push message.
type frame struct {
	Type      string `json:"type"` // "market_update" or "notification"
	Message   string `json:"message,omitempty"`
	Level     string `json:"level,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Hub fans push frames out to connected UI clients. It implements
// domain.Notifier; the engine never blocks on a slow client because dead
// connections are dropped on write failure.
type Hub struct {
	upgrader websocket.Upgrader
	limiter  *rate.Limiter

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewHub creates a hub. notifyPerSec/burst throttle notification frames;
// market-update pings are never throttled.
func NewHub(notifyPerSec float64, burst int) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Local single-player UI; no cross-origin concerns.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		limiter: rate.NewLimiter(rate.Limit(notifyPerSec), burst),
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the connection and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("push upgrade failed", slog.Any("error", err))
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
	infra.GlobalMetrics.IncrementClients()
	slog.Debug("push client connected", slog.String("remote", conn.RemoteAddr().String()))

	// Reader loop only detects close; clients never send payloads.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	if ok {
		infra.GlobalMetrics.DecrementClients()
	}
	conn.Close()
}

// MarketUpdated pushes a tick-completed ping to every client.
func (h *Hub) MarketUpdated() {
	h.broadcast(frame{Type: "market_update", Timestamp: time.Now().Unix()})
}

// Notify pushes a leveled notification, subject to the rate limit.
// Dropped notifications are logged, not queued; wishlist sweeps re-fire
// on the next tick anyway.
func (h *Hub) Notify(message string, level domain.NotificationLevel) {
	if !h.limiter.Allow() {
		slog.Debug("notification throttled", slog.String("message", message))
		return
	}
	h.broadcast(frame{
		Type:      "notification",
		Message:   message,
		Level:     string(level),
		Timestamp: time.Now().Unix(),
	})
}

func (h *Hub) broadcast(f frame) {
	payload, err := json.Marshal(f)
	if err != nil {
		slog.Error("push marshal failed", slog.Any("error", err))
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.drop(conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
