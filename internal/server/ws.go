package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/landmark"
	"github.com/ayusman/mudra/internal/metrics"
)

const writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ResultMessage is the JSON pushed to result feed clients after each render.
type ResultMessage struct {
	Gesture   string             `json:"gesture"`
	Landmarks []landmark.Point3D `json:"landmarks"`
	Status    string             `json:"status"`
	Timestamp int64              `json:"timestamp"`
}

// ResultsHandler broadcasts inference results via WebSocket.
type ResultsHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewResultsHandler creates a new ResultsHandler.
func NewResultsHandler(m *metrics.Metrics, logger *slog.Logger) *ResultsHandler {
	return &ResultsHandler{
		clients: make(map[*websocket.Conn]bool),
		metrics: m,
		logger:  logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *ResultsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade error", "error", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	h.metrics.ClientConnected()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		h.metrics.ClientDisconnected()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (h *ResultsHandler) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends msg to every connected client. Clients that fail to
// receive it are dropped.
func (h *ResultsHandler) Broadcast(msg ResultMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Warn("failed to encode result", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Debug("dropping result client", "error", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
