package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/resources"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/ctx"
	"github.com/shashiranjanraj/vastra/pkg/middleware"
	"github.com/shashiranjanraj/vastra/pkg/resource"
)

type OrderController struct {
	checkout *services.CheckoutService
	orders   *services.OrderService
}

func NewOrderController(checkout *services.CheckoutService, orders *services.OrderService) *OrderController {
	return &OrderController{checkout: checkout, orders: orders}
}

type checkoutInput struct {
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"  validate:"nullable,max=64"`
	PaymentStatus   string                 `json:"paymentStatus"  validate:"nullable,in=Pending,Paid,Failed,Refunded,COD"`
	ContactEmail    string                 `json:"contactEmail"   validate:"nullable,email"`
	Notes           string                 `json:"notes"          validate:"nullable,max=2000"`
	DiscountAmount  float64                `json:"discountAmount" validate:"nullable,gte=0"`
	ShippingAmount  float64                `json:"shippingAmount" validate:"nullable,gte=0"`
	TaxAmount       float64                `json:"taxAmount"      validate:"nullable,gte=0"`

	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
}

// Checkout converts the caller's cart into an order.
func (c *OrderController) Checkout(cc *ctx.Context) {
	userID, ok := middleware.UserIDFromCtx(cc.R)
	if !ok {
		cc.Unauthorized()
		return
	}

	var in checkoutInput
	if !cc.BindJSON(&in) {
		return
	}

	order, err := c.checkout.Checkout(cc.Context(), userID, services.CheckoutInput{
		ShippingAddress:   in.ShippingAddress,
		PaymentMethod:     in.PaymentMethod,
		PaymentStatus:     in.PaymentStatus,
		ContactEmail:      in.ContactEmail,
		Notes:             in.Notes,
		DiscountAmount:    in.DiscountAmount,
		ShippingAmount:    in.ShippingAmount,
		TaxAmount:         in.TaxAmount,
		EstimatedDelivery: in.EstimatedDelivery,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			cc.Error(http.StatusBadRequest, "Cart is empty")
		case errors.Is(err, services.ErrDuplicateOrderCode):
			cc.Error(http.StatusConflict, "Order code conflict, please retry")
		default:
			cc.Error(http.StatusInternalServerError, "Checkout failed")
		}
		return
	}

	cc.JSON(http.StatusCreated, map[string]interface{}{
		"status": http.StatusCreated,
		"data":   resources.Order(order),
	})
}

// Index lists the caller's orders, newest first.
func (c *OrderController) Index(cc *ctx.Context) {
	userID, ok := middleware.UserIDFromCtx(cc.R)
	if !ok {
		cc.Unauthorized()
		return
	}

	orders, err := c.orders.ListForUser(cc.Context(), userID)
	if err != nil {
		cc.Error(http.StatusInternalServerError, "Could not load orders")
		return
	}

	resource.Collection(resources.Order, orders).Respond(cc.W)
}

// Show returns one of the caller's orders by internal id or ORD- code.
func (c *OrderController) Show(cc *ctx.Context) {
	userID, ok := middleware.UserIDFromCtx(cc.R)
	if !ok {
		cc.Unauthorized()
		return
	}

	order, err := c.orders.GetForUser(cc.Context(), userID, cc.Param("idOrCode"))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			cc.NotFound("Order not found")
			return
		}
		cc.Error(http.StatusInternalServerError, "Could not load order")
		return
	}

	resource.Item(resources.Order, order).Respond(cc.W)
}
