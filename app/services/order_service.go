package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/cache"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
	"gorm.io/gorm"
)

// Publisher delivers a transition event to a user's live subscriptions.
// Delivery is fire-and-forget; the service never sees transport failures.
type Publisher interface {
	Publish(userID uint, eventType string, data interface{})
}

// noopPublisher is used when no hub is wired (tests, CLI commands).
type noopPublisher struct{}

func (noopPublisher) Publish(uint, string, interface{}) {}

const statsCacheKey = "vastra:orders:stats"

// OrderService drives the order status machine and serves order reads.
type OrderService struct {
	orders    *repositories.OrderRepository
	publisher Publisher
}

func NewOrderService(orders *repositories.OrderRepository, publisher Publisher) *OrderService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &OrderService{orders: orders, publisher: publisher}
}

// TransitionInput carries an admin status update. Pointer fields distinguish
// "not sent" from "sent as empty": nil pointers never clear stored values.
type TransitionInput struct {
	Status            string
	TrackingNumber    *string
	Notes             *string
	EstimatedDelivery *time.Time
}

// TransitionResult echoes what changed.
type TransitionResult struct {
	Order     models.Order
	OldStatus string
	NewStatus string
}

// OrderUpdateEvent is the payload published to the owner's subscriptions
// after every successful transition.
type OrderUpdateEvent struct {
	OrderID           string     `json:"orderId"`
	Status            string     `json:"status"`
	TrackingNumber    string     `json:"trackingNumber,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// ApplyTransition validates and applies one status transition.
//
// Any jump between non-terminal statuses is allowed; the machine only rejects
// values outside the enumeration and any move out of a terminal state. All
// changed fields are persisted as one atomic UPDATE, then exactly one event
// is published to the owning user.
func (s *OrderService) ApplyTransition(ctx context.Context, code string, in TransitionInput) (TransitionResult, error) {
	if !models.ValidStatus(in.Status) {
		return TransitionResult{}, fmt.Errorf("status %q: %w", in.Status, ErrInvalidStatus)
	}

	order, err := s.orders.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TransitionResult{}, fmt.Errorf("order %q: %w", code, ErrOrderNotFound)
		}
		return TransitionResult{}, fmt.Errorf("load order %q: %w", code, err)
	}

	if models.TerminalStatus(order.Status) {
		return TransitionResult{}, fmt.Errorf("order %q is %s: %w", code, order.Status, ErrTerminalState)
	}

	fields := map[string]interface{}{"status": in.Status}
	if in.TrackingNumber != nil {
		fields["tracking_number"] = *in.TrackingNumber
		order.TrackingNumber = *in.TrackingNumber
	}
	if in.Notes != nil {
		fields["notes"] = *in.Notes
		order.Notes = *in.Notes
	}
	if in.EstimatedDelivery != nil {
		fields["estimated_delivery"] = *in.EstimatedDelivery
		order.EstimatedDelivery = in.EstimatedDelivery
	}
	if in.Status == models.StatusDelivered && order.DeliveredAt == nil {
		now := time.Now()
		fields["delivered_at"] = now
		order.DeliveredAt = &now
	}

	if err := s.orders.UpdateStatusFields(ctx, code, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A concurrent transition closed the order between our read
			// and the guarded UPDATE.
			return TransitionResult{}, fmt.Errorf("order %q: %w", code, ErrTerminalState)
		}
		return TransitionResult{}, fmt.Errorf("update order %q: %w", code, err)
	}

	old := order.Status
	order.Status = in.Status
	metrics.OrderTransitions.WithLabelValues(in.Status).Inc()
	cache.Forget(statsCacheKey)

	s.publisher.Publish(order.UserID, "order_update", OrderUpdateEvent{
		OrderID:           order.Code,
		Status:            order.Status,
		TrackingNumber:    order.TrackingNumber,
		Notes:             order.Notes,
		EstimatedDelivery: order.EstimatedDelivery,
		UpdatedAt:         time.Now(),
	})

	logger.WithCtx(ctx).Info("order transitioned",
		"order", order.Code, "from", old, "to", order.Status)

	return TransitionResult{Order: order, OldStatus: old, NewStatus: order.Status}, nil
}

// GetForUser returns one order by internal id or by ORD- code, but only if
// it belongs to the given user.
func (s *OrderService) GetForUser(ctx context.Context, userID uint, idOrCode string) (models.Order, error) {
	order, err := s.get(ctx, idOrCode)
	if err != nil {
		return models.Order{}, err
	}
	if order.UserID != userID {
		return models.Order{}, fmt.Errorf("order %q: %w", idOrCode, ErrOrderNotFound)
	}
	return order, nil
}

// Get returns any order by internal id or ORD- code (administrative).
func (s *OrderService) Get(ctx context.Context, idOrCode string) (models.Order, error) {
	return s.get(ctx, idOrCode)
}

func (s *OrderService) get(ctx context.Context, idOrCode string) (models.Order, error) {
	var (
		order models.Order
		err   error
	)
	if id, convErr := strconv.ParseUint(idOrCode, 10, 64); convErr == nil {
		order, err = s.orders.FindByID(ctx, uint(id))
	} else {
		order, err = s.orders.FindByCode(ctx, idOrCode)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, fmt.Errorf("order %q: %w", idOrCode, ErrOrderNotFound)
	}
	return order, err
}

// ListForUser returns the user's orders, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}

// List returns all orders with owner details (administrative).
func (s *OrderService) List(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	return s.orders.All(ctx, page, limit)
}

// Stats is the admin statistics payload.
type Stats struct {
	ByStatus []repositories.StatusCount `json:"byStatus"`
	Total    int64                      `json:"total"`
	Today    int64                      `json:"today"`
}

// GetStats returns order counts grouped by status, the overall total and the
// number created since local midnight. Cached in Redis for 30 seconds.
func (s *OrderService) GetStats(ctx context.Context) (Stats, error) {
	var stats Stats
	if cache.Get(statsCacheKey, &stats) {
		return stats, nil
	}

	byStatus, err := s.orders.StatsByStatus(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("stats by status: %w", err)
	}
	total, err := s.orders.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("stats total: %w", err)
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := s.orders.CountSince(ctx, midnight)
	if err != nil {
		return Stats{}, fmt.Errorf("stats today: %w", err)
	}

	stats = Stats{ByStatus: byStatus, Total: total, Today: today}
	if err := cache.Set(statsCacheKey, stats, 30*time.Second); err != nil {
		logger.Warn("stats cache write failed", "error", err)
	}
	return stats, nil
}
