package websocket

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// ChannelAdmin receives every rental and payment event; per-client channels
// receive only their own rentals' events
const ChannelAdmin = "admin"

// ClientChannel returns the channel name for a registered client account
func ClientChannel(clientID uuid.UUID) string {
	return fmt.Sprintf("client:%s", clientID)
}

// ClientInterface defines the interface that connections must implement
type ClientInterface interface {
	ID() string
	Channel() string
	Send(data []byte) error
	Close() error
}

// Hub manages WebSocket connections organized by channel.
// It is safe for concurrent use.
type Hub struct {
	// channels maps channel name to a map of connection ID to connection
	channels map[string]map[string]ClientInterface
	mu       sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		channels: make(map[string]map[string]ClientInterface),
	}
}

// Register adds a connection to the hub under its channel
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	channel := client.Channel()
	clientID := client.ID()

	if h.channels[channel] == nil {
		h.channels[channel] = make(map[string]ClientInterface)
	}

	h.channels[channel][clientID] = client

	log.Debug().
		Str("channel", channel).
		Str("client_id", clientID).
		Msg("WebSocket client registered")
}

// Unregister removes a connection from the hub
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	channel := client.Channel()
	clientID := client.ID()

	if clients, ok := h.channels[channel]; ok {
		delete(clients, clientID)
		if len(clients) == 0 {
			delete(h.channels, channel)
		}
	}

	log.Debug().
		Str("channel", channel).
		Str("client_id", clientID).
		Msg("WebSocket client unregistered")
}

// Broadcast sends an event to every connection on a channel. Connections
// that fail to accept the message are dropped.
func (h *Hub) Broadcast(channel string, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().Err(err).Str("event_type", event.Type).Msg("failed to serialize event")
		return
	}

	h.mu.RLock()
	clients := make([]ClientInterface, 0, len(h.channels[channel]))
	for _, client := range h.channels[channel] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.Send(data); err != nil {
			log.Debug().
				Str("channel", channel).
				Str("client_id", client.ID()).
				Msg("dropping slow or closed WebSocket client")
			h.Unregister(client)
			_ = client.Close()
		}
	}
}

// ClientCount returns the number of connections on a channel
func (h *Hub) ClientCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}
