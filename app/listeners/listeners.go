// Package listeners wires domain events to their side effects: confirmation
// emails via the queue, live admin feeds over WebSocket, and low-stock
// alerts. Everything here runs after commit and off the request path.
package listeners

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/voltmart/voltmart/app/jobs"
	"github.com/voltmart/voltmart/app/models"
	"github.com/voltmart/voltmart/app/services"
	"github.com/voltmart/voltmart/config"
	"github.com/voltmart/voltmart/pkg/event"
	"github.com/voltmart/voltmart/pkg/logger"
	"github.com/voltmart/voltmart/pkg/notification"
	"github.com/voltmart/voltmart/pkg/queue"
	"github.com/voltmart/voltmart/pkg/ws"
)

// Register hooks up every listener. hub may be nil when no WebSocket feed is
// running (e.g. the workers process).
func Register(db *gorm.DB, hub *ws.Hub) {
	event.Listen(services.EventOrderCreated, func(payload interface{}) {
		p, ok := payload.(services.OrderCreatedPayload)
		if !ok {
			return
		}
		queueConfirmationEmail(db, p)
		broadcastOrder(hub, "order.created", p.Order)
		checkLowStock(db, p.Items)
	})

	event.Listen(services.EventOrderStatusChanged, func(payload interface{}) {
		p, ok := payload.(services.OrderStatusChangedPayload)
		if !ok {
			return
		}
		queueStatusEmail(db, p)
		broadcastOrder(hub, "order.status_changed", p.Order)
	})
}

func queueConfirmationEmail(db *gorm.DB, p services.OrderCreatedPayload) {
	var user models.User
	if err := db.First(&user, p.Order.UserID).Error; err != nil {
		logger.Error("listeners: load buyer for confirmation email", "error", err)
		return
	}

	job := &jobs.OrderConfirmationEmailJob{
		OrderID:     p.Order.ID,
		OrderNumber: p.Order.OrderNumber,
		Email:       user.Email,
		Name:        user.Name,
		TotalAmount: p.Order.TotalAmount,
	}
	if err := queue.Dispatch(job); err != nil {
		logger.Error("listeners: queue confirmation email", "error", err)
	}
}

func queueStatusEmail(db *gorm.DB, p services.OrderStatusChangedPayload) {
	var user models.User
	if err := db.First(&user, p.Order.UserID).Error; err != nil {
		logger.Error("listeners: load buyer for status email", "error", err)
		return
	}

	job := &jobs.OrderStatusEmailJob{
		OrderNumber:    p.Order.OrderNumber,
		Email:          user.Email,
		Name:           user.Name,
		Status:         string(p.Order.Status),
		TrackingNumber: p.Order.TrackingNumber,
	}
	if err := queue.Dispatch(job); err != nil {
		logger.Error("listeners: queue status email", "error", err)
	}
}

// broadcastOrder pushes a JSON event to every connected admin dashboard.
func broadcastOrder(hub *ws.Hub, kind string, order *models.Order) {
	if hub == nil {
		return
	}
	msg, err := json.Marshal(map[string]interface{}{
		"event": kind,
		"order": order,
	})
	if err != nil {
		return
	}
	hub.Broadcast <- msg
}

// checkLowStock alerts once per order for every ordered product that fell to
// or below the threshold.
func checkLowStock(db *gorm.DB, items []models.OrderItem) {
	threshold := config.LowStockThreshold()
	for _, item := range items {
		var p models.Product
		if err := db.First(&p, item.ProductID).Error; err != nil {
			continue
		}
		if p.Stock > threshold {
			continue
		}
		notification.SendAsync(config.AlertsEmail(), &lowStockAlert{
			ProductID: p.ID,
			Name:      p.Name,
			Stock:     p.Stock,
			Threshold: threshold,
		})
	}
}

// lowStockAlert goes to the ops mailbox and the Slack channel when stock runs
// low.
type lowStockAlert struct {
	ProductID uint
	Name      string
	Stock     int
	Threshold int
}

func (a *lowStockAlert) Via() []string {
	channels := []string{"slack"}
	if config.AlertsEmail() != "" {
		channels = append(channels, "mail")
	}
	return channels
}

func (a *lowStockAlert) ToMail() notification.MailData {
	return notification.MailData{
		Subject: fmt.Sprintf("Low stock: %s", a.Name),
		Body: fmt.Sprintf("<p>Product <strong>%s</strong> (#%d) is down to %d units (threshold %d).</p>",
			a.Name, a.ProductID, a.Stock, a.Threshold),
	}
}

func (a *lowStockAlert) ToSlack() notification.SlackData {
	return notification.SlackData{
		Text: fmt.Sprintf("Low stock: %s (#%d) is down to %d units", a.Name, a.ProductID, a.Stock),
		Attachments: []notification.SlackAttachment{
			{Color: "warning", Title: a.Name, Text: fmt.Sprintf("%d units left", a.Stock)},
		},
	}
}
