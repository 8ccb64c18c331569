// Package realtime fans vehicle telemetry out to websocket subscribers.
package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// AllVehicles is the subscription key of clients watching every vehicle.
const AllVehicles uint = 0

const writeWait = 10 * time.Second

type update struct {
	vehicleID uint
	payload   any
}

// Hub keeps the websocket subscribers per vehicle and broadcasts updates to
// them from a single goroutine, so each connection has one writer.
type Hub struct {
	clients   map[uint]map[*websocket.Conn]bool
	broadcast chan update
	mu        sync.Mutex
	onChange  func(total int)
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[uint]map[*websocket.Conn]bool),
		broadcast: make(chan update, 100),
	}
}

// OnClientsChanged registers a callback receiving the subscriber count.
func (h *Hub) OnClientsChanged(fn func(total int)) {
	h.mu.Lock()
	h.onChange = fn
	h.mu.Unlock()
}

// Run delivers queued updates until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) deliver(msg update) {
	h.mu.Lock()
	targets := make([]*websocket.Conn, 0)
	for conn := range h.clients[msg.vehicleID] {
		targets = append(targets, conn)
	}
	if msg.vehicleID != AllVehicles {
		for conn := range h.clients[AllVehicles] {
			targets = append(targets, conn)
		}
	}
	h.mu.Unlock()

	for _, conn := range targets {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg.payload); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"vehicle_id": msg.vehicleID,
				"conn_ptr":   fmt.Sprintf("%p", conn),
			}).Info("dropping websocket subscriber after failed write")
			h.Unregister(conn)
			_ = conn.Close()
		}
	}
}

// Register subscribes conn to one vehicle, or to every vehicle with AllVehicles.
func (h *Hub) Register(vehicleID uint, conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[vehicleID]; !ok {
		h.clients[vehicleID] = make(map[*websocket.Conn]bool)
	}
	h.clients[vehicleID][conn] = true
	total := h.countLocked()
	fn := h.onChange
	h.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"vehicle_id": vehicleID,
		"conn_ptr":   fmt.Sprintf("%p", conn),
	}).Info("websocket subscriber registered")
	if fn != nil {
		fn(total)
	}
}

// Unregister removes conn from every subscription.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	for id, clients := range h.clients {
		if clients[conn] {
			delete(clients, conn)
			if len(clients) == 0 {
				delete(h.clients, id)
			}
		}
	}
	total := h.countLocked()
	fn := h.onChange
	h.mu.Unlock()

	if fn != nil {
		fn(total)
	}
}

// Publish queues an update. When the queue is full the update is dropped.
func (h *Hub) Publish(vehicleID uint, payload any) {
	select {
	case h.broadcast <- update{vehicleID: vehicleID, payload: payload}:
	default:
		logrus.WithField("vehicle_id", vehicleID).Warn("telemetry broadcast queue full, dropping update")
	}
}

// Clients returns the number of active subscriptions.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.countLocked()
}

func (h *Hub) countLocked() int {
	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, clients := range h.clients {
		for conn := range clients {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second))
			_ = conn.Close()
		}
		delete(h.clients, id)
	}
}
