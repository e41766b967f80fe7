package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/chatbot-widget/backend/internal/model/chat"
	chatService "github.com/zhouzirui/chatbot-widget/backend/internal/service/chat"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 20 * time.Second
	sendBuffer   = 64
	maxFrameSize = 16 << 10
)

// Conversation is what the hub needs from the widget controller.
type Conversation interface {
	Submit(ctx context.Context, raw string) bool
	Sync(fn func(chat.State))
}

type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ackMessage struct {
	Type      string `json:"type"`
	Accepted  bool   `json:"accepted"`
	Timestamp int64  `json:"timestamp"`
}

type errorMessage struct {
	Type      string `json:"type"`
	Error     string `json:"error"`
	Timestamp int64  `json:"timestamp"`
}

type client struct {
	conn *websocket.Conn
	send chan interface{}
}

// Hub pushes conversation events to every connected browser and forwards
// their submissions to the controller.
type Hub struct {
	conv     Conversation
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	wg      sync.WaitGroup
}

// NewHub creates an empty hub. Call Attach once the controller exists.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin:      func(r *http.Request) bool { return true },
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// Attach binds the hub to the controller it projects.
func (h *Hub) Attach(conv Conversation) {
	h.conv = conv
}

// View returns the chat.View feeding this hub.
func (h *Hub) View() chatService.View {
	return chatService.NewEventView(h.Publish)
}

// RegisterRoutes mounts the websocket endpoint on r.
func (h *Hub) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

// Publish queues ev for every client. Clients that cannot keep up are
// disconnected.
func (h *Hub) Publish(ev chat.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if !c.enqueue(ev) {
			h.removeLocked(c)
			log.Warn().Str("remote", c.conn.RemoteAddr().String()).Msg("[websocket] dropping slow client")
		}
	}
}

// Clients reports the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close sends a close frame to every client and waits for their handlers to
// finish.
func (h *Hub) Close() {
	h.mu.Lock()
	for c := range h.clients {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
			time.Now().Add(writeWait))
		h.removeLocked(c)
	}
	h.mu.Unlock()
	h.wg.Wait()
}

func (c *client) enqueue(v interface{}) bool {
	select {
	case c.send <- v:
		return true
	default:
		return false
	}
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	h.removeLocked(c)
	h.mu.Unlock()
}

// send queues v for c unless c has already been removed.
func (h *Hub) send(c *client, v interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	if !c.enqueue(v) {
		h.removeLocked(c)
	}
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.conv == nil {
		http.Error(w, "conversation unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("[websocket] upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan interface{}, sendBuffer)}
	h.conv.Sync(func(state chat.State) {
		h.mu.Lock()
		h.clients[c] = struct{}{}
		h.mu.Unlock()
		c.enqueue(chatService.SnapshotEvent(state))
	})

	log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("[websocket] client connected")

	h.wg.Add(2)
	go h.writePump(c)
	go h.readPump(context.WithoutCancel(r.Context()), c)
}

func (h *Hub) readPump(ctx context.Context, c *client) {
	defer h.wg.Done()
	defer func() {
		h.remove(c)
		_ = c.conn.Close()
		log.Debug().Str("remote", c.conn.RemoteAddr().String()).Msg("[websocket] client disconnected")
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg inboundMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("[websocket] read error")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		switch msg.Type {
		case "submit":
			accepted := h.conv.Submit(ctx, msg.Text)
			h.send(c, ackMessage{Type: "ack", Accepted: accepted, Timestamp: time.Now().UnixMilli()})
		default:
			h.send(c, errorMessage{Type: "error", Error: "unknown message type: " + msg.Type, Timestamp: time.Now().UnixMilli()})
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer h.wg.Done()

	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case v, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := writeJSON(c.conn, v); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// writeJSON is conn.WriteJSON without HTML escaping, so message text reaches
// the browser unchanged.
func writeJSON(conn *websocket.Conn, v interface{}) error {
	w, err := conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
