package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Event types pushed to connected clients.
const (
	EventStockUpdate   = "stock_update"
	EventCatalogUpdate = "catalog_update"
	EventUserStatus    = "user_status_update"
)

// Actor identifies the user behind an event.
type Actor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Event struct {
	Type    string    `json:"type"`
	Action  string    `json:"action,omitempty"`
	Data    any       `json:"data,omitempty"`
	User    *Actor    `json:"user,omitempty"`
	Message string    `json:"message,omitempty"`
	SentAt  time.Time `json:"sent_at"`
}

// Publisher is what services depend on. Publish must not block the caller.
type Publisher interface {
	Publish(e Event)
}

type Hub struct {
	clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	broadcast  chan []byte
	done       chan struct{}
	mutex      sync.Mutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		log:        log.Named("ws"),
	}
}

// Publish queues the event for broadcast. When the queue is full the event
// is dropped and logged.
func (h *Hub) Publish(e Event) {
	if e.SentAt.IsZero() {
		e.SentAt = time.Now()
	}
	msg, err := json.Marshal(e)
	if err != nil {
		h.log.Error("marshal event", zap.String("type", e.Type), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("broadcast queue full, event dropped", zap.String("type", e.Type))
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Done is closed once Run has returned. Connections must not send on
// Register or Unregister after that.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.clients[conn] = true
			h.mutex.Unlock()
			h.log.Debug("client connected", zap.Int("clients", h.ClientCount()))

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.log.Debug("drop client", zap.Error(err))
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
