package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

// CartStore holds the ordered cart lines of one browser session.
// Mutations are atomic from the caller's perspective.
type CartStore interface {
	AddItem(item domain.CartItem) error
	UpdateItemQuantity(id uuid.UUID, quantity int) error
	RemoveItem(id uuid.UUID) (bool, error)
	Clear() error
	Items() []domain.CartItem
	Totals() (domain.CartTotals, error)
}

// CartSnapshots persists a point-in-time copy of the cart so it survives a
// page reload. The in-memory store stays authoritative; snapshot writes are
// best effort.
type CartSnapshots interface {
	Save(ctx context.Context, ownerID string, items []domain.CartItem) error
	Load(ctx context.Context, ownerID string) ([]domain.CartItem, error)
	Delete(ctx context.Context, ownerID string) error
}
