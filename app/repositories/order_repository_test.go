package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOrder(t *testing.T, db *gorm.DB, code string, userID uint, status string) models.Order {
	t.Helper()
	order := models.Order{
		Code:          code,
		UserID:        userID,
		Status:        status,
		PaymentStatus: models.PaymentPending,
		TotalAmount:   100,
		Items: []models.OrderItem{
			{ProductID: 1, Name: "Saree", Price: 100, Quantity: 1},
		},
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestOrderCodeUniqueIndex(t *testing.T) {
	db := openTestDB(t)
	orders := repositories.NewOrderRepository(db)
	ctx := context.Background()

	first := models.Order{Code: "ORD-000001", UserID: 1, Status: models.StatusOrderReceived, PaymentStatus: models.PaymentPending}
	require.NoError(t, orders.Create(ctx, &first))

	dup := models.Order{Code: "ORD-000001", UserID: 2, Status: models.StatusOrderReceived, PaymentStatus: models.PaymentPending}
	err := orders.Create(ctx, &dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestOrderFindByCodeAndID(t *testing.T) {
	db := openTestDB(t)
	orders := repositories.NewOrderRepository(db)
	ctx := context.Background()

	created := seedOrder(t, db, "ORD-000042", 7, models.StatusOrderReceived)

	byCode, err := orders.FindByCode(ctx, "ORD-000042")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byCode.ID)
	assert.Len(t, byCode.Items, 1)

	byID, err := orders.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ORD-000042", byID.Code)
}

func TestOrderFindByUserScoped(t *testing.T) {
	db := openTestDB(t)
	orders := repositories.NewOrderRepository(db)
	ctx := context.Background()

	seedOrder(t, db, "ORD-000001", 1, models.StatusOrderReceived)
	seedOrder(t, db, "ORD-000002", 1, models.StatusShipped)
	seedOrder(t, db, "ORD-000003", 2, models.StatusOrderReceived)

	mine, err := orders.FindByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, o := range mine {
		assert.Equal(t, uint(1), o.UserID)
	}
}

func TestOrderUpdateStatusFieldsIsPartial(t *testing.T) {
	db := openTestDB(t)
	orders := repositories.NewOrderRepository(db)
	ctx := context.Background()

	seedOrder(t, db, "ORD-000010", 1, models.StatusPacked)
	require.NoError(t, orders.UpdateStatusFields(ctx, "ORD-000010", map[string]interface{}{
		"status":          models.StatusShipped,
		"tracking_number": "TRK1",
	}))

	got, err := orders.FindByCode(ctx, "ORD-000010")
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, got.Status)
	assert.Equal(t, "TRK1", got.TrackingNumber)
	assert.Equal(t, float64(100), got.TotalAmount) // untouched
}

func TestOrderUpdateStatusFieldsRefusesTerminalRows(t *testing.T) {
	db := openTestDB(t)
	orders := repositories.NewOrderRepository(db)
	ctx := context.Background()

	for i, status := range models.TerminalStatuses {
		code := []string{"ORD-000001", "ORD-000002", "ORD-000003"}[i]
		seedOrder(t, db, code, 1, status)

		err := orders.UpdateStatusFields(ctx, code, map[string]interface{}{
			"status": models.StatusProcessing,
		})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		got, findErr := orders.FindByCode(ctx, code)
		require.NoError(t, findErr)
		assert.Equal(t, status, got.Status)
	}

	// Unknown codes report the same way.
	err := orders.UpdateStatusFields(ctx, "ORD-999999", map[string]interface{}{
		"status": models.StatusProcessing,
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderStats(t *testing.T) {
	db := openTestDB(t)
	orders := repositories.NewOrderRepository(db)
	ctx := context.Background()

	seedOrder(t, db, "ORD-000001", 1, models.StatusOrderReceived)
	seedOrder(t, db, "ORD-000002", 1, models.StatusOrderReceived)
	seedOrder(t, db, "ORD-000003", 2, models.StatusDelivered)

	byStatus, err := orders.StatsByStatus(ctx)
	require.NoError(t, err)
	counts := map[string]int64{}
	for _, row := range byStatus {
		counts[row.Status] = row.Count
	}
	assert.Equal(t, int64(2), counts[models.StatusOrderReceived])
	assert.Equal(t, int64(1), counts[models.StatusDelivered])

	total, err := orders.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	since, err := orders.CountSince(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), since)
}
