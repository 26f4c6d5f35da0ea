package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment statuses. Orders start on hold or submitted depending on the
// payment method; only the admin review actions move them further.
const (
	PaymentOnHold    = "on_hold"
	PaymentSubmitted = "payment_submitted"
	PaymentReceived  = "payment_received"
	PaymentRejected  = "payment_rejected"
)

// Shipping statuses.
const (
	ShippingPending   = "pending"
	ShippingShipped   = "shipped"
	ShippingDelivered = "delivered"
)

type Order struct {
	BaseModel
	UserID              uuid.UUID   `gorm:"type:uuid;index" json:"user_id"`
	User                *User       `json:"user,omitempty"`
	OrderNumber         string      `gorm:"uniqueIndex" json:"order_number"`
	PaymentStatus       string      `json:"payment_status"`
	ShippingStatus      string      `json:"shipping_status"`
	TrackingNumber      string      `json:"tracking_number"`
	PlacedAt            time.Time   `json:"placed_at"`
	Subtotal            float64     `json:"subtotal"`
	ShippingFee         float64     `json:"shipping_fee"`
	TotalAmount         float64     `json:"total_amount"`
	Currency            string      `json:"currency"`
	PaymentMethod       string      `json:"payment_method"`
	DeliveryAddressLine string      `json:"delivery_address_line"`
	DeliveryApartment   string      `json:"delivery_apartment"`
	DeliveryCity        string      `json:"delivery_city"`
	DeliveryDistrict    string      `json:"delivery_district"`
	Notes               string      `json:"notes"`
	Items               []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	ProductID *uuid.UUID `gorm:"type:uuid" json:"product_id"`
	Title     string     `json:"title"`
	Quantity  int        `json:"quantity"`
	UnitPrice float64    `json:"unit_price"`
	LineTotal float64    `json:"line_total"`
}
