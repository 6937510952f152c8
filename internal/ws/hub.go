// Package ws pushes notification entries to connected browsers over
// websockets. The hub implements workspace.Notifier, so the engine stays
// unaware of the transport.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tanvi-28/huddle/internal/middleware"
	"github.com/tanvi-28/huddle/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks the open connections per user and fans pushed notifications
// out to all of them. Push never blocks: a client that cannot keep up has
// its connection dropped.
type Hub struct {
	log *zap.Logger

	mu      sync.Mutex
	clients map[int64]map[*client]struct{}
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		log:     logger,
		clients: make(map[int64]map[*client]struct{}),
	}
}

// Push implements workspace.Notifier.
func (h *Hub) Push(userID int64, n models.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		h.log.Error("failed to encode notification", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients[userID] {
		select {
		case cl.send <- payload:
		default:
			h.dropLocked(userID, cl)
		}
	}
}

// Handler upgrades GET /v1/notifications/ws. The auth middleware has
// already identified the caller.
func (h *Hub) Handler(c *gin.Context) {
	sess := middleware.Session(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	if h.clients[sess.UserID] == nil {
		h.clients[sess.UserID] = make(map[*client]struct{})
	}
	h.clients[sess.UserID][cl] = struct{}{}
	h.mu.Unlock()

	go h.writePump(sess.UserID, cl)
	go h.readPump(sess.UserID, cl)
}

// readPump discards inbound frames; its job is noticing the close.
func (h *Hub) readPump(userID int64, cl *client) {
	defer func() {
		h.mu.Lock()
		h.dropLocked(userID, cl)
		h.mu.Unlock()
	}()
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(userID int64, cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case payload, ok := <-cl.send:
			if !ok {
				return
			}
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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

// dropLocked removes a client and closes its connection. Caller holds mu.
func (h *Hub) dropLocked(userID int64, cl *client) {
	set := h.clients[userID]
	if _, ok := set[cl]; !ok {
		return
	}
	delete(set, cl)
	if len(set) == 0 {
		delete(h.clients, userID)
	}
	close(cl.send)
	cl.conn.Close()
}
