// Package ws pushes live portal events (audit entries, sync outcomes) to
// connected admin dashboards.
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Envelope wraps every pushed event with its kind ("audit" or "sync").
type Envelope struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload"`
}

// EventsHub fans portal events out to websocket clients.
type EventsHub struct {
	register   chan *eventsClient
	unregister chan *eventsClient
	broadcast  chan []byte
	clients    map[*eventsClient]struct{}
}

func NewEventsHub() *EventsHub {
	return &EventsHub{
		register:   make(chan *eventsClient),
		unregister: make(chan *eventsClient),
		broadcast:  make(chan []byte, 256),
		clients:    make(map[*eventsClient]struct{}),
	}
}

func (h *EventsHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				client.conn.Close()
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					delete(h.clients, client)
					close(client.send)
					client.conn.Close()
				}
			}
		}
	}
}

// Broadcast pushes one event to every connected client. Safe on a nil hub so
// callers need no wiring checks.
func (h *EventsHub) Broadcast(kind string, payload any) {
	if h == nil {
		return
	}
	data, err := json.Marshal(Envelope{Kind: kind, Payload: payload})
	if err != nil {
		log.Printf("ws: marshal event: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

// Serve upgrades the request and attaches the client to the hub. Role gating
// happens in the route middleware, not here.
func (h *EventsHub) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}
	client := &eventsClient{hub: h, conn: conn, send: make(chan []byte, sendBufferSize)}
	h.register <- client
	go client.writePump()
	go client.readPump()
}

type eventsClient struct {
	hub  *EventsHub
	conn *websocket.Conn
	send chan []byte
}

func (c *eventsClient) readPump() {
	defer func() { c.hub.unregister <- c }()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		// The feed is one-way; inbound frames only keep the connection alive.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *eventsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
