package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOrderService(t *testing.T) (*services.OrderService, *repositories.OrderRepository, *capturePublisher, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	repo := repositories.NewOrderRepository(db)
	pub := &capturePublisher{}
	return services.NewOrderService(repo, pub), repo, pub, db
}

func seedOrder(t *testing.T, db *gorm.DB, code string, userID uint, status string) models.Order {
	t.Helper()
	order := models.Order{
		Code:          code,
		UserID:        userID,
		Status:        status,
		PaymentStatus: models.PaymentPending,
		TotalAmount:   250,
		Items: []models.OrderItem{
			{ProductID: 1, Name: "Kurta", Price: 250, Quantity: 1},
		},
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestApplyTransitionRejectsUnknownStatus(t *testing.T) {
	svc, _, pub, db := newOrderService(t)
	seedOrder(t, db, "ORD-000001", 1, models.StatusOrderReceived)

	_, err := svc.ApplyTransition(context.Background(), "ORD-000001",
		services.TransitionInput{Status: "Teleported"})
	assert.ErrorIs(t, err, services.ErrInvalidStatus)
	assert.Empty(t, pub.Events())
}

func TestApplyTransitionRejectsMissingOrder(t *testing.T) {
	svc, _, _, _ := newOrderService(t)

	_, err := svc.ApplyTransition(context.Background(), "ORD-999999",
		services.TransitionInput{Status: models.StatusShipped})
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
}

func TestApplyTransitionRejectsTerminalStates(t *testing.T) {
	svc, repo, pub, db := newOrderService(t)

	for i, status := range []string{models.StatusDelivered, models.StatusCancelled, models.StatusReturned} {
		code := []string{"ORD-000001", "ORD-000002", "ORD-000003"}[i]
		seedOrder(t, db, code, 1, status)

		before, err := repo.FindByCode(context.Background(), code)
		require.NoError(t, err)

		_, err = svc.ApplyTransition(context.Background(), code,
			services.TransitionInput{Status: models.StatusProcessing})
		assert.ErrorIs(t, err, services.ErrTerminalState, "status %s must be terminal", status)

		after, err := repo.FindByCode(context.Background(), code)
		require.NoError(t, err)
		assert.Equal(t, before.Status, after.Status)
		assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	}
	assert.Empty(t, pub.Events())
}

func TestApplyTransitionAllowsArbitraryNonTerminalJumps(t *testing.T) {
	svc, _, _, db := newOrderService(t)
	seedOrder(t, db, "ORD-000001", 1, models.StatusOutForDelivery)

	// Jumping backwards is allowed between non-terminal states.
	res, err := svc.ApplyTransition(context.Background(), "ORD-000001",
		services.TransitionInput{Status: models.StatusProcessing})
	require.NoError(t, err)
	assert.Equal(t, models.StatusOutForDelivery, res.OldStatus)
	assert.Equal(t, models.StatusProcessing, res.NewStatus)
}

func TestApplyTransitionOmittedFieldsKeepValues(t *testing.T) {
	svc, repo, _, db := newOrderService(t)
	order := seedOrder(t, db, "ORD-000001", 1, models.StatusPacked)
	require.NoError(t, db.Model(&order).Updates(map[string]interface{}{
		"tracking_number": "TRK-OLD",
		"notes":           "fragile",
	}).Error)

	_, err := svc.ApplyTransition(context.Background(), "ORD-000001",
		services.TransitionInput{Status: models.StatusShipped})
	require.NoError(t, err)

	got, err := repo.FindByCode(context.Background(), "ORD-000001")
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, got.Status)
	assert.Equal(t, "TRK-OLD", got.TrackingNumber)
	assert.Equal(t, "fragile", got.Notes)
}

func TestApplyTransitionSetsProvidedFields(t *testing.T) {
	svc, repo, _, db := newOrderService(t)
	seedOrder(t, db, "ORD-000001", 1, models.StatusPacked)

	tracking := "TRK1"
	eta := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	res, err := svc.ApplyTransition(context.Background(), "ORD-000001",
		services.TransitionInput{
			Status:            models.StatusShipped,
			TrackingNumber:    &tracking,
			EstimatedDelivery: &eta,
		})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPacked, res.OldStatus)
	assert.Equal(t, models.StatusShipped, res.NewStatus)

	got, err := repo.FindByCode(context.Background(), "ORD-000001")
	require.NoError(t, err)
	assert.Equal(t, "TRK1", got.TrackingNumber)
	require.NotNil(t, got.EstimatedDelivery)
	assert.Nil(t, got.DeliveredAt)
}

func TestApplyTransitionStampsDeliveredAtOnce(t *testing.T) {
	svc, repo, _, db := newOrderService(t)
	order := seedOrder(t, db, "ORD-000001", 1, models.StatusOutForDelivery)

	// Simulate an earlier delivery stamp that must never be overwritten.
	stamped := time.Now().Add(-24 * time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, db.Model(&order).UpdateColumn("delivered_at", stamped).Error)

	_, err := svc.ApplyTransition(context.Background(), "ORD-000001",
		services.TransitionInput{Status: models.StatusDelivered})
	require.NoError(t, err)

	got, err := repo.FindByCode(context.Background(), "ORD-000001")
	require.NoError(t, err)
	require.NotNil(t, got.DeliveredAt)
	assert.Equal(t, stamped, got.DeliveredAt.UTC().Truncate(time.Second))
}

func TestApplyTransitionToDeliveredStampsTimestamp(t *testing.T) {
	svc, repo, _, db := newOrderService(t)
	seedOrder(t, db, "ORD-000001", 1, models.StatusOutForDelivery)

	_, err := svc.ApplyTransition(context.Background(), "ORD-000001",
		services.TransitionInput{Status: models.StatusDelivered})
	require.NoError(t, err)

	got, err := repo.FindByCode(context.Background(), "ORD-000001")
	require.NoError(t, err)
	require.NotNil(t, got.DeliveredAt)
	assert.WithinDuration(t, time.Now(), *got.DeliveredAt, 5*time.Second)
}

func TestApplyTransitionPublishesExactlyOneEvent(t *testing.T) {
	svc, _, pub, db := newOrderService(t)
	seedOrder(t, db, "ORD-000001", 42, models.StatusPacked)

	tracking := "TRK1"
	_, err := svc.ApplyTransition(context.Background(), "ORD-000001",
		services.TransitionInput{Status: models.StatusShipped, TrackingNumber: &tracking})
	require.NoError(t, err)

	events := pub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, uint(42), events[0].UserID)
	assert.Equal(t, "order_update", events[0].Type)

	payload, ok := events[0].Data.(services.OrderUpdateEvent)
	require.True(t, ok)
	assert.Equal(t, "ORD-000001", payload.OrderID)
	assert.Equal(t, models.StatusShipped, payload.Status)
	assert.Equal(t, "TRK1", payload.TrackingNumber)
}

func TestGetForUserScopesOwnership(t *testing.T) {
	svc, _, _, db := newOrderService(t)
	order := seedOrder(t, db, "ORD-000001", 1, models.StatusOrderReceived)

	// By code.
	got, err := svc.GetForUser(context.Background(), 1, "ORD-000001")
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// By internal id.
	got, err = svc.GetForUser(context.Background(), 1, "1")
	require.NoError(t, err)
	assert.Equal(t, order.Code, got.Code)

	// Another user sees not-found, not forbidden.
	_, err = svc.GetForUser(context.Background(), 2, "ORD-000001")
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
}
