package jobs

import (
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/event"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/queue"
)

func init() {
	// The confirmation mail hangs off the order.created event so checkout
	// never waits on mail transport.
	event.Listen("order.created", func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}
		if err := queue.Dispatch(OrderConfirmationJob{OrderID: order.ID}); err != nil {
			logger.Warn("confirmation mail dispatch failed",
				"order", order.Code, "error", err)
		}
	})
}
