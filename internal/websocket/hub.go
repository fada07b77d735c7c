package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"aichat-backend/internal/metrics"
	"aichat-backend/internal/middleware"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
	broadcastQueue = 256
)

type Client struct {
	Hub       *Hub
	ContactID int64
	Conn      *websocket.Conn
	Send      chan []byte
}

// Hub fans thread events out to the websocket clients subscribed to a
// contact. All map access happens on the Run goroutine.
type Hub struct {
	clients    map[int64]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	done       chan struct{}

	mu    sync.RWMutex
	count int
}

type Event struct {
	ContactID int64       `json:"contact_id"`
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, broadcastQueue),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.clients {
				for client := range clients {
					h.drop(client)
				}
			}
			return

		case client := <-h.register:
			if h.clients[client.ContactID] == nil {
				h.clients[client.ContactID] = make(map[*Client]bool)
			}
			h.clients[client.ContactID][client] = true
			h.setCount(1)
			metrics.WsConnections.Inc()

		case client := <-h.unregister:
			h.drop(client)

		case event := <-h.broadcast:
			clients := h.clients[event.ContactID]
			if len(clients) == 0 {
				continue
			}
			payload, err := json.Marshal(event)
			if err != nil {
				log.Error().Err(err).Str("type", event.Type).Msg("encode hub event")
				continue
			}
			for client := range clients {
				select {
				case client.Send <- payload:
				default:
					log.Warn().Int64("contact_id", client.ContactID).Msg("dropping slow websocket client")
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	clients, ok := h.clients[client.ContactID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.ContactID)
	}
	h.setCount(-1)
	metrics.WsConnections.Dec()
}

func (h *Hub) setCount(delta int) {
	h.mu.Lock()
	h.count += delta
	h.mu.Unlock()
}

// ClientCount reports the number of live subscriptions.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Publish queues an event for the contact's subscribers. It never blocks; when
// the queue is full the event is discarded.
func (h *Hub) Publish(contactID int64, eventType string, data interface{}) {
	event := Event{ContactID: contactID, Type: eventType, Data: data, Timestamp: time.Now()}
	select {
	case h.broadcast <- event:
	default:
		log.Warn().Int64("contact_id", contactID).Str("type", eventType).Msg("hub queue full, event dropped")
	}
}

func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades the request and subscribes the connection to contactID.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, contactID int64, allowedOrigins []string) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return middleware.OriginAllowed(r.Header.Get("Origin"), allowedOrigins)
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := &Client{Hub: hub, ContactID: contactID, Conn: conn, Send: make(chan []byte, sendBufferSize)}
	if !hub.Register(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
