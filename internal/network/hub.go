// Package network fans simulation records out to spectators over
// WebSocket. It is strictly one-way: the hub implements the manager's
// Notifier contract and nothing a spectator sends can reach the engine.
package network

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/panembot/games-server/internal/domain/event"
	"github.com/panembot/games-server/internal/game"
	"github.com/panembot/games-server/internal/platform/logger"
	"github.com/panembot/games-server/internal/platform/metrics"
)

// Message is the wire format pushed to spectators.
type Message struct {
	Type       string            `json:"type"` // "day_begin", "reveal", "day_end"
	GameID     string            `json:"game_id"`
	Day        int               `json:"day"`
	EventCount int               `json:"event_count,omitempty"`
	Event      *event.FinalEvent `json:"event,omitempty"`
	More       bool              `json:"more,omitempty"`
	Winner     *game.Winner      `json:"winner,omitempty"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	logger     *logger.Logger
	metrics    *metrics.Collector
}

// NewHub initializes a new WebSocket hub.
func NewHub(log *logger.Logger, m *metrics.Collector) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     log,
		metrics:    m,
	}
}

// Run starts the hub's main loop. Call in a goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.metrics.WSConnected()
			h.logger.Info("New spectator connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.metrics.WSDisconnected()
				h.logger.Info("Spectator disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					h.metrics.WSMessageOut()
				default:
					// Slow consumer: drop the connection, not the day.
					close(client.send)
					delete(h.clients, client)
					h.metrics.WSDisconnected()
				}
			}
			h.mu.Unlock()
		}
	}
}

// DayBegan implements manager.Notifier.
func (h *Hub) DayBegan(gameID string, dayNum, eventCount int) {
	h.push(Message{Type: "day_begin", GameID: gameID, Day: dayNum, EventCount: eventCount})
}

// EventRevealed implements manager.Notifier.
func (h *Hub) EventRevealed(gameID string, ev event.FinalEvent, more bool) {
	h.push(Message{Type: "reveal", GameID: gameID, Event: &ev, More: more})
}

// DayEnded implements manager.Notifier.
func (h *Hub) DayEnded(gameID string, dayNum int, winner *game.Winner) {
	h.push(Message{Type: "day_end", GameID: gameID, Day: dayNum, Winner: winner})
}

func (h *Hub) push(msg Message) {
	raw, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Could not marshal spectator message: " + err.Error())
		return
	}
	select {
	case h.broadcast <- raw:
	default:
		h.logger.Warn("Spectator broadcast buffer full, dropping message")
	}
}
