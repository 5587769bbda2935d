// Package websocket fans state-change events out to every connected client.
// Delivery is fire-and-forget: no replay, no per-client backlog beyond the
// send buffer, and a disconnected client simply misses events.
package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"potholemap_server/metrics"
)

// Event kinds emitted by the server.
const (
	EventConnected  = "connected"
	EventNewReport  = "new_report"
	EventNewComment = "new_comment"
	EventVoteUpdate = "vote_update"

	// EventJoinReport is accepted from clients for protocol compatibility
	// but not acted upon: the feed is a single public channel.
	EventJoinReport = "join_report"
)

// Event is the wire envelope for every message in either direction.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
	}
}

// Run owns the client set; all membership changes and fan-out go through
// this loop.
func (h *Hub) Run() {
	log.Info().Msg("websocket hub started")

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			metrics.WebsocketClients.Set(float64(len(h.clients)))
			log.Debug().Int("total", len(h.clients)).Msg("websocket client connected")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.WebsocketClients.Set(float64(len(h.clients)))
				log.Debug().Int("total", len(h.clients)).Msg("websocket client disconnected")
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer: drop it rather than block the hub.
					delete(h.clients, client)
					close(client.send)
				}
			}
			metrics.WebsocketClients.Set(float64(len(h.clients)))
		}
	}
}

// Broadcast queues an event for every connected client. Call it only after
// the causing mutation has committed.
func (h *Hub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to marshal broadcast event")
		return
	}

	metrics.EventsBroadcastTotal.WithLabelValues(event).Inc()
	h.broadcast <- payload
}
