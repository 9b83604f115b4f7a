package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/vastra/app/jobs"
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/event"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
	"github.com/shashiranjanraj/vastra/pkg/queue"
	"gorm.io/gorm"
)

// orderCounter names the sequence behind the ORD- codes.
const orderCounter = "orders"

// estimatedDeliveryWindow is added to now when the caller gives no estimate.
const estimatedDeliveryWindow = 5 * 24 * time.Hour

// CheckoutService converts a cart into an immutable order.
type CheckoutService struct {
	carts    *repositories.CartRepository
	counters *repositories.CounterRepository
	orders   *repositories.OrderRepository
}

func NewCheckoutService(
	carts *repositories.CartRepository,
	counters *repositories.CounterRepository,
	orders *repositories.OrderRepository,
) *CheckoutService {
	return &CheckoutService{carts: carts, counters: counters, orders: orders}
}

// CheckoutInput is everything the caller supplies at checkout. The monetary
// overrides default to zero; estimated delivery defaults to now + 5 days.
type CheckoutInput struct {
	ShippingAddress   models.ShippingAddress
	PaymentMethod     string
	PaymentStatus     string
	ContactEmail      string
	Notes             string
	DiscountAmount    float64
	ShippingAmount    float64
	TaxAmount         float64
	EstimatedDelivery *time.Time
}

// Checkout runs the full orchestration: load cart, allocate a code, snapshot
// the line items, persist the order, clear the cart.
//
// If order persistence fails the cart is untouched. If the cart-clear fails
// after the order is persisted, the inconsistency is logged and the clear is
// retried through the queue; clearing is idempotent so at-least-once is safe.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint, in CheckoutInput) (models.Order, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrEmptyCart
		}
		return models.Order{}, fmt.Errorf("%w: %v", ErrCartUnavailable, err)
	}
	if cart.Empty() {
		return models.Order{}, ErrEmptyCart
	}

	seq, err := s.counters.Next(ctx, orderCounter)
	if err != nil {
		return models.Order{}, fmt.Errorf("allocate order code: %w", err)
	}
	code := fmt.Sprintf("ORD-%06d", seq)

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, ci := range cart.Items {
		items = append(items, models.OrderItem{
			ProductID: ci.ProductID,
			Name:      ci.Name,
			Price:     ci.Price,
			Quantity:  ci.Quantity,
			Image:     ci.Image,
		})
	}

	paymentStatus := in.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = models.PaymentPending
	}
	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "COD"
	}

	estimated := in.EstimatedDelivery
	if estimated == nil {
		t := time.Now().Add(estimatedDeliveryWindow)
		estimated = &t
	}

	order := models.Order{
		Code:              code,
		UserID:            userID,
		Items:             items,
		TotalAmount:       cart.Total,
		DiscountAmount:    in.DiscountAmount,
		ShippingAmount:    in.ShippingAmount,
		TaxAmount:         in.TaxAmount,
		Status:            models.StatusOrderReceived,
		PaymentStatus:     paymentStatus,
		PaymentMethod:     paymentMethod,
		ShippingAddress:   in.ShippingAddress,
		ContactEmail:      in.ContactEmail,
		Notes:             in.Notes,
		EstimatedDelivery: estimated,
	}

	if err := s.orders.Create(ctx, &order); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Order{}, fmt.Errorf("order %s: %w", code, ErrDuplicateOrderCode)
		}
		return models.Order{}, fmt.Errorf("persist order %s: %w", code, err)
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		// The order exists but the cart does not know. Retry through the
		// queue; a duplicate checkout in the window is an accepted risk.
		logger.WithCtx(ctx).Error("cart clear failed after order persist",
			"order", code, "user_id", userID, "error", err)
		if qErr := queue.Dispatch(jobs.CartClearJob{UserID: userID}); qErr != nil {
			logger.Error("cart clear retry dispatch failed",
				"order", code, "user_id", userID, "error", qErr)
		}
	}

	metrics.OrdersCreated.Inc()
	event.Fire("order.created", order)

	logger.WithCtx(ctx).Info("order created",
		"order", code, "user_id", userID, "total", order.TotalAmount)
	return order, nil
}
