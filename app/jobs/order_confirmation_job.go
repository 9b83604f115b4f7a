package jobs

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/database"
	"github.com/shashiranjanraj/vastra/pkg/notification"
	"github.com/shashiranjanraj/vastra/pkg/queue"
)

func init() {
	queue.Register("jobs.OrderConfirmationJob", func() queue.Job { return &OrderConfirmationJob{} })
}

// OrderConfirmationJob mails the buyer after a successful checkout.
// Best effort: checkout never waits on it.
type OrderConfirmationJob struct {
	OrderID uint `json:"order_id"`
}

func (j OrderConfirmationJob) Handle() error {
	ctx := context.Background()
	orders := repositories.NewOrderRepository(database.DB)
	users := repositories.NewUserRepository(database.DB)

	order, err := orders.FindByID(ctx, j.OrderID)
	if err != nil {
		return fmt.Errorf("load order %d: %w", j.OrderID, err)
	}
	user, err := users.FindByID(ctx, order.UserID)
	if err != nil {
		return fmt.Errorf("load user %d: %w", order.UserID, err)
	}

	to := order.ContactEmail
	if to == "" {
		to = user.Email
	}

	errs := notification.Send(to, &orderConfirmedNotification{Order: order, User: user})
	if len(errs) > 0 {
		return fmt.Errorf("send confirmation for %s: %v", order.Code, errs[0])
	}
	return nil
}

type orderConfirmedNotification struct {
	Order models.Order
	User  models.User
}

func (n *orderConfirmedNotification) Via() []string { return []string{"mail"} }

func (n *orderConfirmedNotification) ToMail() notification.MailData {
	body := fmt.Sprintf(
		"<h1>Thanks for your order, %s!</h1>"+
			"<p>Your order <strong>%s</strong> has been received.</p>"+
			"<p>Total: %.2f &middot; Payment: %s</p>",
		n.User.Name, n.Order.Code, n.Order.TotalAmount, n.Order.PaymentMethod)
	return notification.MailData{
		Subject: fmt.Sprintf("Order %s confirmed", n.Order.Code),
		Body:    body,
		Text: fmt.Sprintf("Thanks for your order, %s! Order %s received. Total %.2f.",
			n.User.Name, n.Order.Code, n.Order.TotalAmount),
	}
}
