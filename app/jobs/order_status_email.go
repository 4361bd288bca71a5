package jobs

import (
	"fmt"

	"github.com/voltmart/voltmart/pkg/mail"
)

// statusLines phrases each lifecycle step for the buyer.
var statusLines = map[string]string{
	"confirmed": "has been confirmed and is being prepared",
	"shipped":   "has shipped",
	"completed": "is complete. Thanks for shopping with us",
	"cancelled": "has been cancelled and the stock released",
}

// OrderStatusEmailJob emails the buyer when an order changes status.
type OrderStatusEmailJob struct {
	OrderNumber    string `json:"order_number"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number"`
}

func (j *OrderStatusEmailJob) Handle() error {
	line, ok := statusLines[j.Status]
	if !ok {
		return nil // nothing to say about this status
	}

	body := fmt.Sprintf("<p>Hi %s,</p><p>Your order <strong>%s</strong> %s.</p>",
		j.Name, j.OrderNumber, line)
	if j.Status == "shipped" && j.TrackingNumber != "" {
		body += fmt.Sprintf("<p>Tracking number: <strong>%s</strong></p>", j.TrackingNumber)
	}

	return mail.To(j.Email).
		Subject(fmt.Sprintf("Order %s %s", j.OrderNumber, j.Status)).
		Body(body).
		Send()
}
