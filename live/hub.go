// Package live pushes recorded submissions to websocket subscribers,
// one room per event, so admin dashboards update without polling.
package live

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// SubmissionRecorded is the payload broadcast after every successful
// recording.
type SubmissionRecorded struct {
	EventID   int       `json:"event_id"`
	Player    string    `json:"player"`
	Deck      string    `json:"deck"`
	CreatedAt time.Time `json:"created_at"`
}

type message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	room string
}

// Hub tracks subscribers per event room and fans broadcasts out to
// them. Slow clients are skipped rather than blocking the sender.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.mu.Unlock()
			h.logger.Debug("live client joined", slog.String("room", client.room))

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if _, present := clients[client]; present {
					close(client.send)
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
				}
			}
			h.mu.Unlock()
			h.logger.Debug("live client left", slog.String("room", client.room))
		}
	}
}

// BroadcastToEvent sends a submission notification to every subscriber
// of the event's room.
func (h *Hub) BroadcastToEvent(eventID int, payload SubmissionRecorded) {
	data, err := json.Marshal(message{Type: "SUBMISSION_RECORDED", Payload: payload})
	if err != nil {
		h.logger.Error("failed to marshal live payload", slog.Any("error", err))
		return
	}

	room := roomName(eventID)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[room] {
		select {
		case client.send <- data:
		default:
			// Client buffer full; drop the update for them.
		}
	}
}

// Subscribe attaches an upgraded connection to an event room and
// starts its pumps.
func (h *Hub) Subscribe(eventID int, conn *websocket.Conn) {
	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
		room: roomName(eventID),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func roomName(eventID int) string {
	return "event_" + strconv.Itoa(eventID)
}

// readPump discards inbound frames; the feed is one-way. It exists to
// process control messages and detect disconnects.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
