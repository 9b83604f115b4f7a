package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCheckoutService(t *testing.T) (*services.CheckoutService, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	svc := services.NewCheckoutService(
		repositories.NewCartRepository(db),
		repositories.NewCounterRepository(db),
		repositories.NewOrderRepository(db),
	)
	return svc, db
}

func seedCart(t *testing.T, db *gorm.DB, userID uint, items ...models.CartItem) models.Cart {
	t.Helper()
	cart := models.Cart{UserID: userID, Items: items}
	cart.Recalculate()
	require.NoError(t, db.Create(&cart).Error)
	return cart
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, db := newCheckoutService(t)

	// No cart row at all. The rejection must not create one.
	_, err := svc.Checkout(context.Background(), 1, services.CheckoutInput{})
	assert.ErrorIs(t, err, services.ErrEmptyCart)

	var carts int64
	require.NoError(t, db.Model(&models.Cart{}).Count(&carts).Error)
	assert.Zero(t, carts, "a rejected checkout must not create a cart")

	// Cart row exists but holds no items.
	seedCart(t, db, 2)
	_, err = svc.Checkout(context.Background(), 2, services.CheckoutInput{})
	assert.ErrorIs(t, err, services.ErrEmptyCart)

	require.NoError(t, db.Model(&models.Cart{}).Count(&carts).Error)
	assert.Equal(t, int64(1), carts)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders, "a rejected checkout must write nothing")
	var counters int64
	require.NoError(t, db.Model(&models.Counter{}).Count(&counters).Error)
	assert.Zero(t, counters)
}

func TestCheckoutAssignsSequentialCodes(t *testing.T) {
	svc, db := newCheckoutService(t)

	for i := 1; i <= 3; i++ {
		seedCart(t, db, uint(i), models.CartItem{ProductID: 1, Name: "Saree", Price: 1200, Quantity: 1})
		order, err := svc.Checkout(context.Background(), uint(i), services.CheckoutInput{})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("ORD-%06d", i), order.Code)
	}
}

func TestCheckoutSnapshotsCartAndDefaults(t *testing.T) {
	svc, db := newCheckoutService(t)
	seedCart(t, db, 1,
		models.CartItem{ProductID: 7, Name: "Kurta", Price: 499.50, Quantity: 2, Image: "kurta.jpg"},
		models.CartItem{ProductID: 9, Name: "Dupatta", Price: 150, Quantity: 1},
	)

	order, err := svc.Checkout(context.Background(), 1, services.CheckoutInput{
		ContactEmail:   "buyer@example.com",
		DiscountAmount: 100,
		ShippingAmount: 50,
		TaxAmount:      62.37,
	})
	require.NoError(t, err)

	// Total is the cart total; discount/shipping/tax are carried separately.
	assert.InDelta(t, 2*499.50+150, order.TotalAmount, 0.001)
	assert.Equal(t, float64(100), order.DiscountAmount)
	assert.Equal(t, float64(50), order.ShippingAmount)

	assert.Equal(t, models.StatusOrderReceived, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, "COD", order.PaymentMethod)
	require.NotNil(t, order.EstimatedDelivery)
	assert.WithinDuration(t, time.Now().Add(5*24*time.Hour), *order.EstimatedDelivery, time.Minute)

	require.Len(t, order.Items, 2)
	assert.Equal(t, uint(7), order.Items[0].ProductID)
	assert.Equal(t, "Kurta", order.Items[0].Name)
	assert.Equal(t, 499.50, order.Items[0].Price)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "kurta.jpg", order.Items[0].Image)
}

func TestCheckoutClearsCart(t *testing.T) {
	svc, db := newCheckoutService(t)
	seedCart(t, db, 1, models.CartItem{ProductID: 1, Name: "Saree", Price: 1200, Quantity: 1})

	_, err := svc.Checkout(context.Background(), 1, services.CheckoutInput{})
	require.NoError(t, err)

	cart, err := repositories.NewCartRepository(db).ForUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
}

func TestCheckoutSnapshotsSurviveCatalogueEdits(t *testing.T) {
	svc, db := newCheckoutService(t)

	product := models.Product{Name: "Lehenga", Price: 4999, Stock: 5, SKU: "LEH-1"}
	require.NoError(t, db.Create(&product).Error)
	seedCart(t, db, 1, models.CartItem{
		ProductID: product.ID, Name: product.Name, Price: product.Price, Quantity: 1,
	})

	order, err := svc.Checkout(context.Background(), 1, services.CheckoutInput{})
	require.NoError(t, err)

	// Reprice the catalogue after the sale.
	require.NoError(t, db.Model(&product).Updates(map[string]interface{}{
		"name": "Lehenga Deluxe", "price": 7999,
	}).Error)

	got, err := repositories.NewOrderRepository(db).FindByCode(context.Background(), order.Code)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Lehenga", got.Items[0].Name)
	assert.Equal(t, float64(4999), got.Items[0].Price)
	assert.Equal(t, float64(4999), got.TotalAmount)
}

func TestCheckoutHonoursProvidedPaymentFields(t *testing.T) {
	svc, db := newCheckoutService(t)
	seedCart(t, db, 1, models.CartItem{ProductID: 1, Name: "Saree", Price: 1200, Quantity: 1})

	eta := time.Now().Add(48 * time.Hour)
	order, err := svc.Checkout(context.Background(), 1, services.CheckoutInput{
		PaymentMethod:     "UPI",
		PaymentStatus:     models.PaymentPaid,
		EstimatedDelivery: &eta,
		Notes:             "leave at the gate",
	})
	require.NoError(t, err)
	assert.Equal(t, "UPI", order.PaymentMethod)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)
	assert.Equal(t, "leave at the gate", order.Notes)
	require.NotNil(t, order.EstimatedDelivery)
	assert.WithinDuration(t, eta, *order.EstimatedDelivery, time.Second)
}
