package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Event names pushed to spectators.
const (
	EvtRoundStarted   = "round_started"
	EvtPlayerJoined   = "player_joined"
	EvtAnswerReceived = "answer_received"
)

// Message is the websocket envelope format.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans round lifecycle events out to every connected client. There
// is a single global audience because there is a single shared round.
type Hub struct {
	mu    sync.RWMutex
	conns map[*Connection]bool

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan []byte

	log zerolog.Logger
}

// Connection represents one connected websocket client.
type Connection struct {
	Username string // empty for anonymous spectators
	Send     chan []byte
}

// NewHub creates the hub and starts its event loop.
func NewHub(log zerolog.Logger) *Hub {
	h := &Hub{
		conns:      make(map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan []byte, 256),
		log:        log,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn] = true
			h.mu.Unlock()
			h.log.Debug().Str("username", conn.Username).Msg("ws client connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if h.conns[conn] {
				delete(h.conns, conn)
				close(conn.Send)
			}
			h.mu.Unlock()
			h.log.Debug().Str("username", conn.Username).Msg("ws client disconnected")

		case data := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.conns {
				select {
				case conn.Send <- data:
				default:
					// Drop the message if the client's buffer is full.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Broadcast sends an event to every connected client. Implements
// service.Broadcaster.
func (h *Hub) Broadcast(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Warn().Err(err).Str("event", event).Msg("ws payload marshal failed")
		return
	}
	envelope, _ := json.Marshal(&Message{Type: event, Payload: data})
	select {
	case h.broadcast <- envelope:
	default:
		// Full broadcast queue; spectator events are best effort.
	}
}
