package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"ai-notecapture-be/internal/entity"
	"ai-notecapture-be/internal/pkg/logger"
	"ai-notecapture-be/pkg/events"
)

const hubModule = "Hub"

type envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type noteEventPayload struct {
	Event      string                 `json:"event"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurredAt"`
}

// Hub fans discover snapshots and note events out to every connected client.
// A newly registered client immediately receives the latest snapshot.
type Hub struct {
	clients map[*Client]struct{}

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	mu       sync.RWMutex
	snapshot []byte

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]struct{}),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			if h.snapshot != nil {
				select {
				case client.Send <- h.snapshot:
				default:
				}
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info(hubModule, "Client registered", map[string]interface{}{"clients": count})

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info(hubModule, "Client unregistered", map[string]interface{}{"clients": count})
		}
	}
}

// PublishDiscover replaces the snapshot and broadcasts it.
func (h *Hub) PublishDiscover(items []*entity.DiscoverItem) {
	if items == nil {
		items = []*entity.DiscoverItem{}
	}
	data, err := json.Marshal(envelope{Type: "discover", Data: items})
	if err != nil {
		h.logger.Error(hubModule, "Failed to encode discover items", map[string]interface{}{"error": err.Error()})
		return
	}

	h.mu.Lock()
	h.snapshot = data
	h.mu.Unlock()

	h.broadcast(data)
}

// PublishNoteEvent relays a domain event so open clients can refresh.
func (h *Hub) PublishNoteEvent(evt events.Event) {
	data, err := json.Marshal(envelope{
		Type: "note_event",
		Data: noteEventPayload{
			Event:      evt.EventType(),
			Payload:    evt.Payload(),
			OccurredAt: evt.Timestamp(),
		},
	})
	if err != nil {
		h.logger.Error(hubModule, "Failed to encode note event", map[string]interface{}{"error": err.Error()})
		return
	}
	h.broadcast(data)
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn(hubModule, "Client send buffer full, dropping client", nil)
			h.removeLocked(client)
		}
	}
}

func (h *Hub) removeLocked(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
	}
}
