package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rustyeddy/sizer/metrics"
	"github.com/rustyeddy/sizer/pkg/id"
	"github.com/rustyeddy/sizer/ui"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

// Message is a JSON frame pushed to WebSocket clients.
type Message struct {
	Type    string     `json:"type"`
	Readout ui.Readout `json:"readout"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	// snapshot supplies the first frame once the client is registered.
	snapshot func() ui.Readout
	// seq is the newest readout queued; older broadcasts are skipped.
	seq uint64
}

type frame struct {
	seq  uint64
	data []byte
}

// Hub tracks WebSocket clients and pushes every rendered readout to all of
// them. It implements ui.Display.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]bool

	broadcast  chan frame
	register   chan *client
	unregister chan *client
	done       chan struct{}

	// OnMessage, if set, receives every text frame a client sends.
	OnMessage func(clientID string, data []byte)

	log *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan frame, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run is the hub's event loop. It returns when ctx is done, closing every
// client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				h.drop(c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			total := len(h.clients)
			h.mu.Unlock()
			metrics.WebSocketClients.Inc()
			h.log.Info("ws client connected", "client", c.id, "total", total)
			h.sendSnapshot(c)

		case c := <-h.unregister:
			h.mu.Lock()
			if h.clients[c] {
				h.drop(c)
			}
			h.mu.Unlock()

		case f := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				if f.seq != 0 && f.seq <= c.seq {
					continue
				}
				select {
				case c.send <- f.data:
					c.seq = f.seq
				default:
					// Slow client; cut it loose rather than block the hub.
					h.log.Warn("ws client too slow, dropping", "client", c.id)
					h.drop(c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// sendSnapshot queues the client's first frame. It runs on the hub loop after
// registration, so no later render can overtake it.
func (h *Hub) sendSnapshot(c *client) {
	if c.snapshot == nil {
		return
	}
	r := c.snapshot()
	data, err := encode(r)
	if err != nil {
		h.log.Error("encode snapshot", "client", c.id, "err", err)
		return
	}
	select {
	case c.send <- data:
		c.seq = r.Seq
	default:
	}
}

// drop must be called with h.mu held.
func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	metrics.WebSocketClients.Dec()
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Render queues r for every client. It never blocks.
func (h *Hub) Render(r ui.Readout) error {
	data, err := encode(r)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- frame{seq: r.Seq, data: data}:
	default:
		h.log.Warn("ws broadcast buffer full, readout dropped")
	}
	return nil
}

func encode(r ui.Readout) ([]byte, error) {
	return json.Marshal(Message{Type: "readout", Readout: r})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// ServeWS upgrades the request and registers the client. snapshot, if not nil,
// is called once the client is registered and its readout is the first frame
// the client receives; broadcasts older than it are not sent.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, snapshot func() ui.Readout) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("ws upgrade failed", "err", err)
		return
	}

	c := &client{
		id:       id.WithPrefix("ws"),
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		snapshot: snapshot,
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) writePump(c *client) {
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

func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		h.log.Info("ws client disconnected", "client", c.id)
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		typ, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if typ == websocket.TextMessage && h.OnMessage != nil {
			h.OnMessage(c.id, data)
		}
	}
}
