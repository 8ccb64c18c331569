package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"transit_ops/internal/realtime"
)

// WebSocketController subscribes monitoring clients to vehicle telemetry.
type WebSocketController struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

// NewWebSocketController accepts upgrades from the allowed origins; an empty
// list accepts every origin.
func NewWebSocketController(hub *realtime.Hub, allowedOrigins []string) *WebSocketController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &WebSocketController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin]
			},
		},
	}
}

// Vehicles streams telemetry of one vehicle (?vehicle_id=) or of all of them.
func (h *WebSocketController) Vehicles(c *gin.Context) {
	vehicleID := realtime.AllVehicles
	if raw := c.Query("vehicle_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			badRequest(c, "invalid vehicle_id: "+raw)
			return
		}
		vehicleID = uint(id)
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("failed to upgrade websocket connection")
		return
	}
	defer conn.Close()

	fields := logrus.Fields{"vehicle_id": vehicleID, "conn_ptr": fmt.Sprintf("%p", conn)}
	logrus.WithFields(fields).Info("vehicle monitoring connection established")

	h.hub.Register(vehicleID, conn)
	defer h.hub.Unregister(conn)

	// Subscribers only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithFields(fields).Info("vehicle monitoring connection closed")
			} else {
				logrus.WithError(err).WithFields(fields).Warn("vehicle monitoring read failed")
			}
			return
		}
		logrus.WithFields(fields).Debug("monitoring client sent unexpected message, ignoring")
	}
}
