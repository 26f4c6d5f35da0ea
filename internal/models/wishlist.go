package models

import "github.com/google/uuid"

// WishlistItem marks a product saved by a user. The composite unique index
// gives the wishlist set semantics at the storage level.
type WishlistItem struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;index:idx_user_product,unique" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;index:idx_user_product,unique" json:"product_id"`
}

// WishlistSet is the in-memory view of a user's wishlist.
type WishlistSet map[uuid.UUID]struct{}

// NewWishlistSet builds a set from stored items.
func NewWishlistSet(items []WishlistItem) WishlistSet {
	set := make(WishlistSet, len(items))
	for _, item := range items {
		set[item.ProductID] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s WishlistSet) Has(productID uuid.UUID) bool {
	_, ok := s[productID]
	return ok
}

// Toggle flips membership and reports whether the product is now present.
func (s WishlistSet) Toggle(productID uuid.UUID) bool {
	if s.Has(productID) {
		delete(s, productID)
		return false
	}
	s[productID] = struct{}{}
	return true
}
