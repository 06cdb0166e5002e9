package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/bhmida/bricodirect-backend/internal/errors"
	"github.com/bhmida/bricodirect-backend/internal/middleware"
	"github.com/bhmida/bricodirect-backend/internal/notify"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"https://bricodirect.tn":       true,
			"https://admin.bricodirect.tn": true,
			"http://localhost:5173":        true,
			"http://localhost:3000":        true,
		}
		return allowedOrigins[origin]
	},
}

// NotifyController upgrades back-office sessions to WebSocket so they
// receive document events pushed by the hub.
type NotifyController struct {
	hub *notify.Hub
}

func NewNotifyController(hub *notify.Hub) *NotifyController {
	return &NotifyController{hub: hub}
}

// Subscribe opens the notification stream for the current admin session.
// GET /api/v1/admin/notifications/ws
func (ctrl *NotifyController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "Connexion requise")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := notify.NewClient(ctrl.hub, conn, userID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("Notification stream opened", map[string]interface{}{
		"user_id": userID,
	})
}
