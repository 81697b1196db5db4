package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgTurnProcessed      MessageType = "turn_processed"
	MsgInterviewCompleted MessageType = "interview_completed"
	MsgWatcherJoined      MessageType = "watcher_joined"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans session events out to the researchers watching them
type Hub struct {
	// sessionID -> watcher connections
	watchers map[string]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	done       chan struct{}
}

// Connection is one researcher watching one session
type Connection struct {
	SessionID    string
	ResearcherID string
	Send         chan []byte
	Hub          *Hub
}

// BroadcastMessage is a message for every watcher of a session. Close
// disconnects them instead; it shares the queue so earlier messages go out first.
type BroadcastMessage struct {
	SessionID string
	Message   *Message
	Close     bool
}

// NewHub creates a new WebSocket hub and starts its loop
func NewHub() *Hub {
	h := &Hub{
		watchers:   make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.watchers[conn.SessionID] == nil {
				h.watchers[conn.SessionID] = make(map[*Connection]bool)
			}
			h.watchers[conn.SessionID][conn] = true
			h.mu.Unlock()
			log.Debug().Str("session", conn.SessionID).Str("researcher", conn.ResearcherID).Msg("watcher connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			h.remove(conn)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			if msg.Close {
				h.mu.Lock()
				for conn := range h.watchers[msg.SessionID] {
					h.remove(conn)
				}
				h.mu.Unlock()
				continue
			}
			data, err := json.Marshal(msg.Message)
			if err != nil {
				log.Error().Err(err).Str("session", msg.SessionID).Msg("ws marshal failed")
				continue
			}
			h.mu.RLock()
			for conn := range h.watchers[msg.SessionID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			return
		}
	}
}

// remove must be called with mu held
func (h *Hub) remove(conn *Connection) {
	conns, ok := h.watchers[conn.SessionID]
	if !ok || !conns[conn] {
		return
	}
	delete(conns, conn)
	close(conn.Send)
	if len(conns) == 0 {
		delete(h.watchers, conn.SessionID)
	}
	log.Debug().Str("session", conn.SessionID).Msg("watcher disconnected")
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Watchers returns the number of connections watching sessionID
func (h *Hub) Watchers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers[sessionID])
}

// BroadcastToWatchers sends a message to every watcher of a session (implements service.Broadcaster)
func (h *Hub) BroadcastToWatchers(sessionID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("session", sessionID).Msg("ws payload marshal failed")
		return
	}
	h.enqueue(&BroadcastMessage{
		SessionID: sessionID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	})
}

// DisconnectSession closes every watcher of a finished session (implements service.Broadcaster)
func (h *Hub) DisconnectSession(sessionID string) {
	h.enqueue(&BroadcastMessage{SessionID: sessionID, Close: true})
}

func (h *Hub) enqueue(msg *BroadcastMessage) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// Close stops the hub loop
func (h *Hub) Close() {
	close(h.done)
}
