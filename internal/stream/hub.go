// Package stream pushes fresh fleet snapshots to connected map
// clients over a websocket, so the frontend does not have to run its
// own fetch interval.
package stream

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"fleetmap.kanpurcity.org/internal/logging"
)

// Hub tracks connected websocket clients and broadcasts snapshots to
// all of them. Snapshot produces the payload sent on connect and on
// every broadcast.
type Hub struct {
	logger   *slog.Logger
	snapshot func() any
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewHub creates a hub. checkOrigin decides which websocket origins
// are accepted; nil allows all (same-origin deployments).
func NewHub(logger *slog.Logger, snapshot func() any, checkOrigin func(r *http.Request) bool) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Hub{
		logger:   logger.With(slog.String("component", "stream_hub")),
		snapshot: snapshot,
		upgrader: websocket.Upgrader{CheckOrigin: checkOrigin},
		clients:  make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the connection, registers the client and sends it
// the current snapshot so the map can render immediately.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.LogError(h.logger, "websocket upgrade failed", err)
		return
	}

	h.add(conn)
	go h.readPump(conn)

	if h.snapshot != nil {
		if err := h.writeJSON(conn, h.snapshot()); err != nil {
			h.remove(conn)
			_ = conn.Close()
		}
	}
}

// Broadcast sends the current snapshot to every connected client.
// Clients that fail to receive are dropped.
func (h *Hub) Broadcast() {
	if h.snapshot == nil {
		return
	}
	payload, err := json.Marshal(h.snapshot())
	if err != nil {
		logging.LogError(h.logger, "failed to encode snapshot", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			_ = conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// readPump drains (and discards) client messages so pings and closes
// are processed; the stream is one-way.
func (h *Hub) readPump(conn *websocket.Conn) {
	defer func() {
		h.remove(conn)
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeJSON(conn *websocket.Conn, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, payload)
}
