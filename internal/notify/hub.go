package notify

import (
	"context"
	"net/http"
	"sync"
	"time"

	"condo-backend/internal/metrics"
	"condo-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type subscriber struct {
	tenant models.TenantContext
}

// Hub pushes committed notifications to the websocket clients allowed to see
// them: the recipient profile, or the condominium's admins for the admin feed.
type Hub struct {
	clients    map[*websocket.Conn]subscriber
	clientsMux sync.RWMutex
	broadcast  chan models.Notification
	log        *logrus.Entry
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]subscriber),
		broadcast: make(chan models.Notification, 256),
		log:       logger.WithField("module", "notify"),
	}
}

// Publish queues n for delivery. It never blocks; when the queue is full the
// push is dropped and clients catch up through the REST feed.
func (h *Hub) Publish(n models.Notification) {
	select {
	case h.broadcast <- n:
	default:
		h.log.WithField("notification_id", n.ID).Warn("broadcast queue full, dropping push")
	}
}

// Run delivers queued notifications until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case n := <-h.broadcast:
			h.deliver(n)
		}
	}
}

// ServeWS upgrades the request and registers the tenant's connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, tenant models.TenantContext) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	h.clientsMux.Lock()
	h.clients[conn] = subscriber{tenant: tenant}
	h.clientsMux.Unlock()
	metrics.WebsocketClients.Inc()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(conn)
			return
		}
	}
}

func (h *Hub) ClientCount() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.clients)
}

func (h *Hub) deliver(n models.Notification) {
	h.clientsMux.RLock()
	var targets []*websocket.Conn
	for conn, sub := range h.clients {
		if sub.accepts(n) {
			targets = append(targets, conn)
		}
	}
	h.clientsMux.RUnlock()

	for _, conn := range targets {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(n); err != nil {
			h.remove(conn)
			conn.Close()
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		metrics.WebsocketClients.Dec()
	}
}

func (h *Hub) closeAll() {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
		metrics.WebsocketClients.Dec()
	}
}

func (s subscriber) accepts(n models.Notification) bool {
	if s.tenant.CondominiumID != n.CondominiumID {
		return false
	}
	if n.RecipientProfileID == nil {
		return s.tenant.IsAdmin()
	}
	return *n.RecipientProfileID == s.tenant.ProfileID
}
