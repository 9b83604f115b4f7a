package models

import "gorm.io/gorm"

// Cart holds a user's pending purchase. Total is precomputed on every save so
// checkout never re-derives it from the items.
type Cart struct {
	gorm.Model
	UserID uint       `gorm:"uniqueIndex;not null"        json:"-"`
	Items  []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	Total  float64    `gorm:"not null;default:0"          json:"total"`
}

// CartItem is one product line in a cart. Name, price and image are copied
// from the catalogue when the item is added.
type CartItem struct {
	gorm.Model
	CartID    uint    `gorm:"not null;index"             json:"-"`
	ProductID uint    `gorm:"not null;index"             json:"productId"`
	Name      string  `gorm:"size:255"                   json:"name"`
	Price     float64 `gorm:"not null"                   json:"price"`
	Quantity  int     `gorm:"not null;default:1"         json:"quantity"`
	Image     string  `gorm:"size:512"                   json:"image,omitempty"`
}

// Recalculate refreshes the precomputed total from the items.
func (c *Cart) Recalculate() {
	var total float64
	for _, it := range c.Items {
		total += it.Price * float64(it.Quantity)
	}
	c.Total = total
}

// Empty reports whether the cart has no line items.
func (c *Cart) Empty() bool { return len(c.Items) == 0 }
