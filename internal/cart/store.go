package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"golang.org/x/text/currency"
)

var ErrItemNotFound = errors.New("cart item not found")

// Store is an in-memory cart with derived totals. All mutations take the
// store lock, so they are atomic from the caller's perspective even though
// callers are expected to be a single UI-facing goroutine.
//
// After every mutation the store snapshots itself through port.CartSnapshots,
// if one is configured. Snapshot writes are best effort: a failure goes to
// the error hook and the mutation still succeeds.
type Store struct {
	mu sync.Mutex

	ownerID  string
	items    []domain.CartItem
	policy   domain.TotalsPolicy
	currency currency.Unit

	snapshots   port.CartSnapshots
	snapshotErr func(error)

	subs []chan struct{}
}

type Option func(*Store)

// WithTotalsPolicy sets the tax/shipping policy.
func WithTotalsPolicy(policy domain.TotalsPolicy) Option {
	return func(s *Store) { s.policy = policy }
}

// WithCurrency sets the currency reported by totals of an empty cart.
func WithCurrency(unit currency.Unit) Option {
	return func(s *Store) { s.currency = unit }
}

// WithSnapshots persists the cart through the given snapshot store.
func WithSnapshots(snapshots port.CartSnapshots, onError func(error)) Option {
	return func(s *Store) {
		s.snapshots = snapshots
		s.snapshotErr = onError
	}
}

func NewStore(ownerID string, opts ...Option) (*Store, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	s := &Store{
		ownerID:  ownerID,
		policy:   domain.ZeroPolicy,
		currency: currency.USD,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Restore replaces the cart content with the last saved snapshot, if any.
// Call it once after NewStore; an absent snapshot is not an error.
func (s *Store) Restore(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}

	items, err := s.snapshots.Load(ctx, s.ownerID)
	if err != nil {
		return fmt.Errorf("snapshots.Load: %w", err)
	}

	// a snapshot written under a different currency is stale; restoring it
	// would make every later totals computation fail
	for _, item := range items {
		if item.UnitPrice.Currency.String() != s.currency.String() {
			return nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items

	return nil
}

// AddItem appends a new line or, when a line with the same product+variant
// identity exists, adds the quantities together.
func (s *Store) AddItem(item domain.CartItem) error {
	if item.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", item.Quantity)
	}
	if item.UnitPrice.Currency.String() != s.currency.String() {
		return fmt.Errorf("currency mismatch for %s: %s != %s",
			item.SKU, item.UnitPrice.Currency, s.currency)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.items {
		if !existing.SameIdentity(item) {
			continue
		}

		s.items[i].Quantity += item.Quantity
		s.afterMutation()
		return nil
	}

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.items = append(s.items, item)
	s.afterMutation()

	return nil
}

// UpdateItemQuantity sets the quantity of the line with the given id.
// A quantity below 1 removes the line. An unknown id is an error.
func (s *Store) UpdateItemQuantity(id uuid.UUID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}

		if quantity < 1 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		} else {
			s.items[i].Quantity = quantity
		}
		s.afterMutation()
		return nil
	}

	return fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

// RemoveItem removes the line with the given id. Removing an unknown id is
// a no-op; the return value reports whether a line was removed.
func (s *Store) RemoveItem(id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}

		s.items = append(s.items[:i], s.items[i+1:]...)
		s.afterMutation()
		return true, nil
	}

	return false, nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.afterMutation()

	return nil
}

// Items returns an ordered copy of the cart lines.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.CartItem, len(s.items))
	copy(items, s.items)

	return items
}

func (s *Store) Totals() (domain.CartTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	zero := domain.Money{Currency: s.currency}
	totals, err := domain.ComputeTotals(s.items, zero, s.policy)
	if err != nil {
		return domain.CartTotals{}, fmt.Errorf("domain.ComputeTotals: %w", err)
	}

	return totals, nil
}

// Subscribe returns a channel that receives a signal after each mutation.
// Signals are coalesced; a slow subscriber sees at least one.
func (s *Store) Subscribe() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{}, 1)
	s.subs = append(s.subs, ch)

	return ch
}

// afterMutation is called with the lock held.
func (s *Store) afterMutation() {
	if s.snapshots != nil {
		items := make([]domain.CartItem, len(s.items))
		copy(items, s.items)

		// snapshots are local persistence, not a remote call
		if err := s.snapshots.Save(context.Background(), s.ownerID, items); err != nil {
			if s.snapshotErr != nil {
				s.snapshotErr(fmt.Errorf("snapshots.Save: %w", err))
			}
		}
	}

	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
