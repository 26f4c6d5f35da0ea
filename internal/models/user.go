package models

import "github.com/google/uuid"

// User roles. Admin accounts are provisioned out of band; signup always
// produces a customer.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents a storefront account, customer or admin.
type User struct {
	BaseModel
	Email        string        `gorm:"uniqueIndex" json:"email"`
	PasswordHash string        `json:"-"`
	Role         string        `gorm:"default:customer" json:"role"`
	FullName     string        `json:"full_name"`
	Phone        string        `json:"phone"`
	IsDisabled   bool          `json:"is_disabled"`
	Addresses    []UserAddress `json:"addresses,omitempty"`
	Orders       []Order       `json:"orders,omitempty"`
}

// UserAddress is a saved delivery address, snapshotted into orders at checkout.
type UserAddress struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Label       string    `json:"label"`
	AddressLine string    `json:"address_line"`
	Apartment   string    `json:"apartment"`
	City        string    `json:"city"`
	District    string    `json:"district"`
	PostalCode  string    `json:"postal_code"`
	IsDefault   bool      `json:"is_default"`
}
