/*
Package api
File: hub.go
Description:
    The WebSocket Hub pushes simulation events to connected clients.

    It maintains a registry of all active clients and a broadcast channel.
    When the heartbeat or an action handler publishes a message, the Hub
    writes it to the socket of every connected client.

    Architecture:
    - Hub: one per server, run in its own goroutine.
    - Client: one browser connection.
    - ServeWs: upgrades a GET request to a WebSocket.
*/

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Message defines the standard JSON envelope for all real-time events.
// Every message sent over the socket follows this structure.
type Message struct {
	ID      string `json:"id"`      // Unique per message, lets clients drop duplicates
	Type    string `json:"type"`    // e.g. "hour", "accounts", "facility_built"
	Time    int64  `json:"time"`    // unix millis when published
	Payload any    `json:"payload"` // event data
	Sender  string `json:"sender"`  // "system" or the world id
}

// Client represents a single connected browser tab.
// It acts as a middleman between the websocket connection and the Hub.
type Client struct {
	hub  *Hub            // Reference to the central Hub
	conn *websocket.Conn // The actual low-level WebSocket connection
	send chan []byte     // Buffered channel for outbound messages
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	// Registered clients.
	// A map makes adding and removing a client a single key operation.
	clients map[*Client]bool

	// Outbound messages, already JSON encoded.
	// Exported so the heartbeat can push to it directly; Publish wraps it.
	Broadcast chan []byte

	// Register requests from newly upgraded connections.
	register chan *Client

	// Unregister requests from clients whose read loop ended.
	unregister chan *Client

	// Closed when Run returns, so pumps and ServeWs never block on a dead Hub.
	done chan struct{}

	log logrus.FieldLogger
}

// NewHub creates a new Hub instance.
// It should be created once in main.go and its Run loop started in a goroutine.
func NewHub(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		Broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
		log:        log.WithField("component", "hub"),
	}
}

// Run is the main event loop for the Hub.
// It blocks until ctx is cancelled, so it must be run in a goroutine:
// `go hub.Run(ctx)`. On the way out every client is closed.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			// Server shutting down: close every socket's send queue.
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			// A new browser connected.
			h.clients[client] = true
			h.log.WithField("clients", len(h.clients)).Info("WS: New connection registered")

		case client := <-h.unregister:
			// A browser disconnected. Clean up so the send channel is not leaked.
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case message := <-h.Broadcast:
			// An event came in (hour report, HUD, action result).
			// Send it to everyone.
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Send buffer full: the client hung or disconnected.
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Publish wraps payload in a Message and queues it for broadcast. It never
// blocks the caller; if the queue is full the message is dropped.
func (h *Hub) Publish(msgType, sender string, payload any) {
	msg := Message{
		ID:      uuid.NewString(),
		Type:    msgType,
		Time:    time.Now().UnixMilli(),
		Payload: payload,
		Sender:  sender,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).WithField("type", msgType).Error("WS: marshal message")
		return
	}
	select {
	case h.Broadcast <- data:
	default:
		h.log.WithField("type", msgType).Warn("WS: broadcast queue full, dropping message")
	}
}

// upgrader configures the WebSocket handshake.
// CheckOrigin returns true to allow connections from any host, matching the
// permissive CORS policy of the HTTP API.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs handles the HTTP request that initiates a WebSocket connection.
// It upgrades the connection and attaches it to hub.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.WithError(err).Warn("WS: upgrade failed")
		return
	}

	// Create the client wrapper
	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256)}

	// Register the client with the Hub loop, unless the Hub has stopped
	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}

	// Start the read/write pumps in their own goroutines.
	// One slow client never blocks the Hub or another client.
	go client.writePump()
	go client.readPump()
}

// readPump reads from the websocket connection until it closes.
// Clients do not send commands over the socket (actions go through the HTTP
// API), so incoming messages are only logged. Reading is still needed to
// notice the close and to process control frames.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.WithError(err).Warn("WS: read error")
			}
			break
		}
		c.hub.log.WithField("bytes", len(message)).Debug("WS: ignoring client message")
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	defer c.conn.Close()

	// Range over the channel. This loop exits when c.send is closed.
	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)

		if err := w.Close(); err != nil {
			return
		}
	}
	// The Hub closed the queue: say goodbye politely.
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
