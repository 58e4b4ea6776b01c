package domain

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	OwnerID string
	Items   []CartItem
}

// CartItem is one line of the cart. Lines with the same ProductID and
// VariantID are merged on add; ID identifies the line itself.
type CartItem struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	VariantID   uuid.UUID
	Name        string
	VariantName string
	SKU         string
	UnitPrice   Money
	Quantity    int
	ImageURL    string

	CreatedAt time.Time
}

// SameIdentity reports whether two lines refer to the same product variant.
func (i CartItem) SameIdentity(other CartItem) bool {
	return i.ProductID == other.ProductID && i.VariantID == other.VariantID
}

func (i CartItem) LineTotal() Money {
	return i.UnitPrice.MulInt(i.Quantity)
}
