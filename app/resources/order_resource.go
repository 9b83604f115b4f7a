// Package resources defines the JSON shapes the API exposes for orders.
package resources

import (
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/collection"
	"github.com/shashiranjanraj/vastra/pkg/resource"
)

// Order is the shape a buyer sees: no owner details.
func Order(o models.Order) resource.Map {
	items := collection.Map(o.Items, func(it models.OrderItem) resource.Map {
		return resource.Map{
			"productId": it.ProductID,
			"name":      it.Name,
			"price":     it.Price,
			"quantity":  it.Quantity,
			"image":     it.Image,
		}
	})

	m := resource.Map{
		"orderId":         o.Code,
		"status":          o.Status,
		"paymentStatus":   o.PaymentStatus,
		"paymentMethod":   o.PaymentMethod,
		"items":           items,
		"totalAmount":     o.TotalAmount,
		"discountAmount":  o.DiscountAmount,
		"shippingAmount":  o.ShippingAmount,
		"taxAmount":       o.TaxAmount,
		"shippingAddress": o.ShippingAddress,
		"createdAt":       o.CreatedAt,
		"updatedAt":       o.UpdatedAt,
	}
	if o.TrackingNumber != "" {
		m["trackingNumber"] = o.TrackingNumber
	}
	if o.Notes != "" {
		m["notes"] = o.Notes
	}
	if o.EstimatedDelivery != nil {
		m["estimatedDelivery"] = o.EstimatedDelivery
	}
	if o.DeliveredAt != nil {
		m["deliveredAt"] = o.DeliveredAt
	}
	return m
}

// AdminOrder is the administrative shape: buyer view plus internal id and
// owner details.
func AdminOrder(o models.Order) resource.Map {
	m := Order(o)
	m["id"] = o.ID
	m["user"] = resource.Map{
		"id":    o.User.ID,
		"name":  o.User.Name,
		"email": o.User.Email,
	}
	return m
}
