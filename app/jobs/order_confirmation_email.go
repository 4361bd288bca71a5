// Package jobs defines the background jobs dispatched onto the queue.
package jobs

import (
	"fmt"

	"github.com/voltmart/voltmart/pkg/mail"
	"github.com/voltmart/voltmart/pkg/queue"
)

// OrderConfirmationEmailJob emails the buyer after an order is placed. It is
// queued rather than sent inline so SMTP latency never touches the checkout
// request.
type OrderConfirmationEmailJob struct {
	OrderID     uint    `json:"order_id"`
	OrderNumber string  `json:"order_number"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	TotalAmount float64 `json:"total_amount"`
}

func (j *OrderConfirmationEmailJob) Handle() error {
	body := fmt.Sprintf(
		"<h2>Thanks for your order, %s!</h2>"+
			"<p>Order <strong>%s</strong> has been received and is awaiting confirmation.</p>"+
			"<p>Total: $%.2f</p>",
		j.Name, j.OrderNumber, j.TotalAmount,
	)

	return mail.To(j.Email).
		Subject(fmt.Sprintf("Order %s received", j.OrderNumber)).
		Body(body).
		Text(fmt.Sprintf("Order %s received. Total: $%.2f", j.OrderNumber, j.TotalAmount)).
		Send()
}

// Register makes the job types resolvable by the queue workers. Call once at
// boot.
func Register() {
	queue.Register("*jobs.OrderConfirmationEmailJob", func() queue.Job { return &OrderConfirmationEmailJob{} })
	queue.Register("*jobs.OrderStatusEmailJob", func() queue.Job { return &OrderStatusEmailJob{} })
}
