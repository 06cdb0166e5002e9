// Package notify pushes document events to connected back-office sessions
// over WebSocket, so the admin dashboard sees new orders and quotations
// without polling.
package notify

import (
	"encoding/json"
	"sync"

	"github.com/bhmida/bricodirect-backend/internal/app/model"
	"github.com/bhmida/bricodirect-backend/pkg/logger"
)

const (
	EventDocumentSubmitted = "document_submitted"
	EventStatusChanged     = "status_changed"
)

// DocumentEvent is the wire format pushed to admin clients.
type DocumentEvent struct {
	Type                string              `json:"type"`
	OrderID             uint                `json:"order_id"`
	Number              string              `json:"number"`
	DocumentType        model.DocumentType  `json:"document_type"`
	Status              model.DocumentStatus `json:"status"`
	TotalAmount         string              `json:"total_amount"`
	CreditLimitExceeded bool                `json:"credit_limit_exceeded"`
}

// Hub fans document events out to every connected admin session.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Info("Admin notification client connected", map[string]interface{}{
				"user_id": client.UserID,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			logger.Info("Admin notification client disconnected", map[string]interface{}{
				"user_id": client.UserID,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer: drop the session rather than block the hub.
					go h.Unregister(client)
					logger.Warn("Notification buffer full, disconnecting client", map[string]interface{}{
						"user_id": client.UserID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// NotifyDocumentSubmitted implements service.Notifier.
func (h *Hub) NotifyDocumentSubmitted(order *model.Order) {
	h.push(EventDocumentSubmitted, order)
}

// NotifyStatusChanged implements service.Notifier.
func (h *Hub) NotifyStatusChanged(order *model.Order) {
	h.push(EventStatusChanged, order)
}

func (h *Hub) push(eventType string, order *model.Order) {
	event := DocumentEvent{
		Type:                eventType,
		OrderID:             order.ID,
		Number:              order.Number,
		DocumentType:        order.DocumentType,
		Status:              order.Status,
		TotalAmount:         order.TotalAmount.String(),
		CreditLimitExceeded: order.CreditLimitExceeded,
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal document event", err, nil)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		// Notifications are best effort; the dashboard reloads on demand.
		logger.Warn("Notification channel full, event dropped", map[string]interface{}{
			"type":     eventType,
			"order_id": order.ID,
		})
	}
}
