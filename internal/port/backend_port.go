package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

// ProfileClient is the slice of the backend API the session manager needs.
type ProfileClient interface {
	GetCustomerProfile(ctx context.Context, accessToken string) (domain.Profile, error)
	GetAdminProfile(ctx context.Context, accessToken string) (domain.Profile, error)
	UpdateProfile(ctx context.Context, accessToken string, profile domain.Profile) (domain.Profile, error)
	SignOut(ctx context.Context, accessToken string) error
}

// CheckoutClient creates orders on the backend and verifies gateway callbacks.
type CheckoutClient interface {
	CreateOrder(ctx context.Context, accessToken string, items []domain.CartItem, totals domain.CartTotals) (domain.Order, error)
	VerifyPayment(ctx context.Context, accessToken string, callback domain.PaymentCallback) error
}
