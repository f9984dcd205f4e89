package ordercontroller

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/junaidrashid-git/eshop-api/models"
)

const (
	EventOrderCreated = "order.created"
	EventOrderDeleted = "order.deleted"
	EventOrderStatus  = "order.status"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// defaultSendBuffer is how many events a client may fall behind before
	// it is dropped.
	defaultSendBuffer = 64
)

type Event struct {
	Type  string        `json:"type"`
	Order *models.Order `json:"order"`
}

// Notifier receives order lifecycle events from the Manager.
type Notifier interface {
	Publish(Event)
}

// Hub fans order events out to connected websocket clients. Publish never
// blocks on a client: each client has a buffered queue drained by its own
// writer goroutine, and a client whose queue is full is disconnected.
type Hub struct {
	mu         sync.Mutex
	clients    map[*client]struct{}
	closed     bool
	sendBuffer int
	upgrader   websocket.Upgrader
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	// closeCode is what the writer sends once send is closed. Set before
	// send is closed.
	closeCode int
}

// NewHub accepts connections from the given origins; none means any origin.
func NewHub(origins []string) *Hub {
	h := &Hub{clients: make(map[*client]struct{}), sendBuffer: defaultSendBuffer}
	h.upgrader.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return len(origins) == 0 || origin == "" || slices.Contains(origins, "*") || slices.Contains(origins, origin)
	}
	return h
}

// ServeWS upgrades the request and keeps the client registered until it
// disconnects. Incoming messages are discarded.
func (h *Hub) ServeWS() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Debug("websocket upgrade failed", "error", err)
			return
		}
		cl := &client{conn: conn, send: make(chan []byte, h.sendBuffer)}
		if !h.add(cl) {
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			conn.Close()
			return
		}
		go cl.writePump()
		defer h.drop(cl, websocket.CloseNormalClosure)

		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}

// writePump is the only writer on the connection.
func (cl *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(cl.closeCode, ""))
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) add(cl *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[cl] = struct{}{}
	return true
}

// drop unregisters the client and stops its writer. Safe to call twice.
func (h *Hub) drop(cl *client, code int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(cl, code)
}

func (h *Hub) dropLocked(cl *client, code int) {
	if _, ok := h.clients[cl]; !ok {
		return
	}
	delete(h.clients, cl)
	cl.closeCode = code
	close(cl.send)
}

// Publish queues the event for every client. Clients that are too far behind
// are dropped instead of waited on.
func (h *Hub) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("failed to encode order event", "type", ev.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- data:
		default:
			slog.Warn("dropping slow order event client", "remote", cl.conn.RemoteAddr().String())
			h.dropLocked(cl, websocket.ClosePolicyViolation)
		}
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client with a going-away close frame and refuses
// new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for cl := range h.clients {
		h.dropLocked(cl, websocket.CloseGoingAway)
	}
}
