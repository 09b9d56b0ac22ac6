package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"yogaseq/internal/audio"
	"yogaseq/internal/catalog"
	"yogaseq/internal/logging"
	"yogaseq/internal/player"
)

const (
	clientBuffer = 32
	writeWait    = 2 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The player is served from the same daemon or opened from a local file.
	CheckOrigin: func(*http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans session events and audio cues out to WebSocket clients. It
// implements player.Observer.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	catalog func() *catalog.Catalog
	logger  *slog.Logger
}

// NewHub builds a hub. lookup supplies the catalogue used to resolve pose
// images and may be nil.
func NewHub(lookup func() *catalog.Catalog, logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		catalog: lookup,
		logger:  logging.NewComponentLogger(logger, "session-hub"),
	}
}

// Notify broadcasts a timer event.
func (h *Hub) Notify(ev player.Event) {
	if ev.Type != player.EventTick {
		h.logger.Debug("session event",
			logging.String("event", string(ev.Type)),
			logging.SequenceID(ev.Snapshot.SequenceID),
			logging.PoseIndex(ev.Snapshot.Index),
		)
	}
	session := h.session(ev.Snapshot)
	h.BroadcastJSON(Message{Type: MessageSession, Event: string(ev.Type), Session: &session})
}

// Cue broadcasts an audio cue so browsers can play it.
func (h *Hub) Cue(cue audio.Cue) {
	h.BroadcastJSON(Message{Type: MessageCue, Cue: &cue})
}

func (h *Hub) session(snap player.Snapshot) Session {
	var cat *catalog.Catalog
	if h.catalog != nil {
		cat = h.catalog()
	}
	return FromSnapshot(snap, cat)
}

// BroadcastJSON queues v for every client. Clients whose buffer is full
// are dropped rather than stalling the caller.
func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.logger.Warn("encode hub message failed", logging.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			delete(h.clients, c)
			close(c.send)
			h.logger.Debug("dropped slow websocket client")
		}
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// ServeWS upgrades the request and streams hub messages until the client
// goes away. The first frame is a welcome carrying the current session.
func (h *Hub) ServeWS(current func() player.Snapshot) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Upgrade writes its own 101 response, so carry the request id over.
		header := http.Header{RequestIDHeader: {c.Writer.Header().Get(RequestIDHeader)}}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, header)
		if err != nil {
			return
		}
		cl := &client{conn: conn, send: make(chan []byte, clientBuffer)}

		welcome := Message{Type: MessageWelcome}
		if current != nil {
			session := h.session(current())
			welcome.Session = &session
		}
		if b, err := json.Marshal(welcome); err == nil {
			cl.send <- b
		}
		h.add(cl)
		logging.WithContext(c.Request.Context(), h.logger).Debug("websocket client connected",
			logging.Int("clients", h.Count()),
		)

		go cl.writePump()
		cl.readPump()
		h.remove(cl)
		logging.WithContext(c.Request.Context(), h.logger).Debug("websocket client disconnected")
	}
}

// readPump discards incoming frames and returns when the connection fails.
func (c *client) readPump() {
	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
