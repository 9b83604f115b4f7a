package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shashiranjanraj/vastra/app/resources"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/ctx"
	"github.com/shashiranjanraj/vastra/pkg/resource"
)

// AdminOrderController serves the administrative order endpoints. Routes
// using it are guarded by rbac.HasRole("admin").
type AdminOrderController struct {
	orders *services.OrderService
}

func NewAdminOrderController(orders *services.OrderService) *AdminOrderController {
	return &AdminOrderController{orders: orders}
}

// Index lists all orders with owner details.
func (c *AdminOrderController) Index(cc *ctx.Context) {
	page, _ := strconv.Atoi(cc.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(cc.DefaultQuery("limit", "20"))

	orders, total, err := c.orders.List(cc.Context(), page, limit)
	if err != nil {
		cc.Error(http.StatusInternalServerError, "Could not load orders")
		return
	}

	resource.Collection(resources.AdminOrder, orders).
		WithMeta(resource.Map{"total": total, "page": page}).
		Respond(cc.W)
}

// Show returns any order by internal id or ORD- code, owner included.
func (c *AdminOrderController) Show(cc *ctx.Context) {
	order, err := c.orders.Get(cc.Context(), cc.Param("idOrCode"))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			cc.NotFound("Order not found")
			return
		}
		cc.Error(http.StatusInternalServerError, "Could not load order")
		return
	}

	resource.Item(resources.AdminOrder, order).Respond(cc.W)
}

type updateStatusInput struct {
	Status string `json:"status" validate:"required,in=Pending,Cancelled,Returned,Order Received,Processing,Packed,Shipped,In Transit,Out for Delivery,Delivered"`

	// Pointer fields: absent means "keep the stored value".
	TrackingNumber    *string    `json:"trackingNumber"`
	Notes             *string    `json:"notes"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
}

// UpdateStatus applies one status transition and echoes old and new status.
func (c *AdminOrderController) UpdateStatus(cc *ctx.Context) {
	code := cc.Param("code")

	var in updateStatusInput
	if !cc.BindJSON(&in) {
		return
	}

	result, err := c.orders.ApplyTransition(cc.Context(), code, services.TransitionInput{
		Status:            in.Status,
		TrackingNumber:    in.TrackingNumber,
		Notes:             in.Notes,
		EstimatedDelivery: in.EstimatedDelivery,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			cc.Error(http.StatusUnprocessableEntity, "Invalid order status")
		case errors.Is(err, services.ErrOrderNotFound):
			cc.NotFound("Order not found")
		case errors.Is(err, services.ErrTerminalState):
			cc.Error(http.StatusConflict, "Order is in a terminal state")
		default:
			cc.Error(http.StatusInternalServerError, "Status update failed")
		}
		return
	}

	cc.Success(map[string]interface{}{
		"orderId":           result.Order.Code,
		"oldStatus":         result.OldStatus,
		"newStatus":         result.NewStatus,
		"trackingNumber":    result.Order.TrackingNumber,
		"notes":             result.Order.Notes,
		"estimatedDelivery": result.Order.EstimatedDelivery,
		"deliveredAt":       result.Order.DeliveredAt,
	})
}

// Stats returns counts grouped by status, the overall total and the number
// of orders placed since local midnight.
func (c *AdminOrderController) Stats(cc *ctx.Context) {
	stats, err := c.orders.GetStats(cc.Context())
	if err != nil {
		cc.Error(http.StatusInternalServerError, "Could not compute statistics")
		return
	}
	cc.Success(stats)
}
