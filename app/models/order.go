package models

import (
	"time"

	"gorm.io/gorm"
)

// Order status values. "Order Received" is the state every checkout starts
// in; Delivered, Cancelled and Returned are terminal.
const (
	StatusPending        = "Pending"
	StatusCancelled      = "Cancelled"
	StatusReturned       = "Returned"
	StatusOrderReceived  = "Order Received"
	StatusProcessing     = "Processing"
	StatusPacked         = "Packed"
	StatusShipped        = "Shipped"
	StatusInTransit      = "In Transit"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
)

// Payment status values, independent of the order status machine.
const (
	PaymentPending  = "Pending"
	PaymentPaid     = "Paid"
	PaymentFailed   = "Failed"
	PaymentRefunded = "Refunded"
	PaymentCOD      = "COD"
)

// OrderStatuses is the closed set of accepted order statuses.
var OrderStatuses = []string{
	StatusPending, StatusCancelled, StatusReturned, StatusOrderReceived,
	StatusProcessing, StatusPacked, StatusShipped, StatusInTransit,
	StatusOutForDelivery, StatusDelivered,
}

// PaymentStatuses is the closed set of accepted payment statuses.
var PaymentStatuses = []string{
	PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded, PaymentCOD,
}

// ValidStatus reports whether s is one of the ten order statuses.
func ValidStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ValidPaymentStatus reports whether s is an accepted payment status.
func ValidPaymentStatus(s string) bool {
	for _, v := range PaymentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// TerminalStatuses are the statuses that admit no further transitions.
var TerminalStatuses = []string{StatusDelivered, StatusCancelled, StatusReturned}

// TerminalStatus reports whether s admits no further transitions.
func TerminalStatus(s string) bool {
	for _, v := range TerminalStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ShippingAddress is embedded into Order; a snapshot of where the order ships.
type ShippingAddress struct {
	FullName string `gorm:"size:255"  json:"fullName"`
	Phone    string `gorm:"size:32"   json:"phone"`
	Line1    string `gorm:"size:255"  json:"line1"`
	Line2    string `gorm:"size:255"  json:"line2,omitempty"`
	City     string `gorm:"size:128"  json:"city"`
	State    string `gorm:"size:128"  json:"state"`
	PostCode string `gorm:"size:32"   json:"postCode"`
	Country  string `gorm:"size:128"  json:"country"`
}

// Order is one completed checkout. Line items and monetary fields are frozen
// at creation; only status fields and admin annotations mutate afterwards.
type Order struct {
	gorm.Model
	Code   string `gorm:"size:32;uniqueIndex;not null" json:"orderId"`
	UserID uint   `gorm:"not null;index"               json:"-"`
	User   User   `gorm:"constraint:OnDelete:CASCADE"  json:"-"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`

	TotalAmount    float64 `gorm:"not null"  json:"totalAmount"`
	DiscountAmount float64 `json:"discountAmount"`
	ShippingAmount float64 `json:"shippingAmount"`
	TaxAmount      float64 `json:"taxAmount"`

	Status        string `gorm:"size:32;not null;index" json:"status"`
	PaymentStatus string `gorm:"size:32;not null"       json:"paymentStatus"`
	PaymentMethod string `gorm:"size:64"                json:"paymentMethod"`

	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shippingAddress"`
	ContactEmail    string          `gorm:"size:255"                      json:"contactEmail,omitempty"`

	TrackingNumber    string     `gorm:"size:128" json:"trackingNumber,omitempty"`
	Notes             string     `gorm:"type:text" json:"notes,omitempty"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
	DeliveredAt       *time.Time `json:"deliveredAt,omitempty"`
}

// OrderItem is one line of an order; every field is a snapshot taken from the
// cart at checkout time and never updated from the catalogue afterwards.
type OrderItem struct {
	gorm.Model
	OrderID   uint    `gorm:"not null;index" json:"-"`
	ProductID uint    `gorm:"not null"       json:"productId"`
	Name      string  `gorm:"size:255"       json:"name"`
	Price     float64 `gorm:"not null"       json:"price"`
	Quantity  int     `gorm:"not null"       json:"quantity"`
	Image     string  `gorm:"size:512"       json:"image,omitempty"`
}

// Counter backs the sequence allocator. One row per named sequence.
type Counter struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value int64  `gorm:"not null;default:0"`
}
