// Package checkout constructs an order on the backend and hands amount,
// currency and order id to the payment gateway's client SDK. Pricing,
// inventory and capture all happen on the backend; this side only validates
// what the shopper typed before the handoff.
package checkout

import (
	"context"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type Service struct {
	client port.CheckoutClient
}

func NewService(client port.CheckoutClient) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("client is nil")
	}

	return &Service{client: client}, nil
}

// Begin creates the order from the current cart and returns the gateway
// handoff payload. The cart is left untouched until the payment is verified.
func (s *Service) Begin(ctx context.Context, accessToken string, store port.CartStore) (domain.Order, domain.GatewayHandoff, error) {
	items := store.Items()
	if len(items) == 0 {
		return domain.Order{}, domain.GatewayHandoff{}, fmt.Errorf("cart is empty")
	}

	totals, err := store.Totals()
	if err != nil {
		return domain.Order{}, domain.GatewayHandoff{}, fmt.Errorf("store.Totals: %w", err)
	}

	order, err := s.client.CreateOrder(ctx, accessToken, items, totals)
	if err != nil {
		return domain.Order{}, domain.GatewayHandoff{}, fmt.Errorf("client.CreateOrder: %w", err)
	}

	handoff := domain.GatewayHandoff{
		OrderID:  order.ID,
		Amount:   totals.Total.Amount.String(),
		Currency: totals.Total.Currency.String(),
	}

	return order, handoff, nil
}

// Confirm validates the (possibly partial) payment amount, posts the gateway
// callback to the backend for verification and, on success, empties the cart.
func (s *Service) Confirm(ctx context.Context, accessToken string, store port.CartStore, order domain.Order, amount domain.Money, callback domain.PaymentCallback) error {
	if err := domain.ValidatePaymentAmount(order.Totals.Total, amount); err != nil {
		return fmt.Errorf("domain.ValidatePaymentAmount: %w", err)
	}

	if err := s.client.VerifyPayment(ctx, accessToken, callback); err != nil {
		return fmt.Errorf("client.VerifyPayment: %w", err)
	}

	if err := store.Clear(); err != nil {
		return fmt.Errorf("store.Clear: %w", err)
	}

	return nil
}
