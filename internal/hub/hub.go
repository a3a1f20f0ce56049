// Package hub fans broadcast events out to every connected viewer over
// WebSocket. Delivery is best-effort: there is no backlog, no replay, and a
// viewer that connects mid-session must fetch current state separately.
package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/dkuiper/taskboard/internal/event"
)

const (
	broadcastBuffer = 100
	writeTimeout    = 5 * time.Second
)

// Hub manages WebSocket connections and broadcasts events to all of them.
// A failed or slow client is dropped, never retried; it re-fetches state
// when it reconnects.
type Hub struct {
	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex

	broadcast chan event.Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *slog.Logger
}

func New(logger *slog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan event.Event, broadcastBuffer),
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger,
	}
	h.wg.Add(1)
	go h.broadcastLoop()
	return h
}

// Broadcast hands an event to the fan-out loop. It never blocks and never
// fails the caller: when the buffer is full the event is dropped with a
// warning, since the mutation it announces has already committed.
func (h *Hub) Broadcast(ev event.Event) {
	select {
	case h.broadcast <- ev:
	case <-h.ctx.Done():
	default:
		h.logger.Warn("broadcast buffer full, dropping event", "event", ev.Name)
	}
}

// Close disconnects all clients and stops the fan-out loop.
func (h *Hub) Close() {
	h.cancel()

	h.clientsMu.Lock()
	for conn := range h.clients {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		delete(h.clients, conn)
	}
	h.clientsMu.Unlock()

	h.wg.Wait()
}

// ClientCount returns the number of currently connected viewers.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcastLoop() {
	defer h.wg.Done()

	for {
		select {
		case <-h.ctx.Done():
			return

		case ev := <-h.broadcast:
			if ev.Timestamp.IsZero() {
				ev.Timestamp = time.Now()
			}

			data, err := json.Marshal(ev)
			if err != nil {
				h.logger.Error("failed to marshal event", "event", ev.Name, "error", err)
				continue
			}

			h.clientsMu.RLock()
			conns := make([]*websocket.Conn, 0, len(h.clients))
			for conn := range h.clients {
				conns = append(conns, conn)
			}
			h.clientsMu.RUnlock()

			// Write outside the lock so one slow client cannot stall
			// registration of new ones.
			for _, conn := range conns {
				ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
				err := conn.Write(ctx, websocket.MessageText, data)
				cancel()
				if err != nil {
					h.logger.Info("dropping viewer after failed write", "error", err)
					h.removeClient(conn)
				}
			}
		}
	}
}

// ServeHTTP upgrades the request to a WebSocket and registers the viewer.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	h.clientsMu.Lock()
	h.clients[conn] = true
	count := len(h.clients)
	h.clientsMu.Unlock()

	h.logger.Info("viewer connected", "total", count)

	go h.readLoop(conn)
}

// readLoop consumes client messages until disconnect. Recognized
// informational events (task:status, team:update) are re-broadcast verbatim
// to all viewers under their *:updated names; everything else is ignored.
func (h *Hub) readLoop(conn *websocket.Conn) {
	defer h.removeClient(conn)

	for {
		_, data, err := conn.Read(h.ctx)
		if err != nil {
			return
		}

		var ev event.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			h.logger.Debug("ignoring malformed client message", "error", err)
			continue
		}
		if name, ok := event.Rebroadcast(ev.Name); ok {
			h.Broadcast(event.Event{Name: name, Data: ev.Data})
		}
	}
}

func (h *Hub) removeClient(conn *websocket.Conn) {
	h.clientsMu.Lock()
	if _, exists := h.clients[conn]; !exists {
		h.clientsMu.Unlock()
		return
	}
	delete(h.clients, conn)
	count := len(h.clients)
	h.clientsMu.Unlock()

	_ = conn.Close(websocket.StatusNormalClosure, "")
	h.logger.Info("viewer disconnected", "total", count)
}
