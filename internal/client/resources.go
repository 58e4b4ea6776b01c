package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

// Profile

func (c *Client) GetCustomerProfile(ctx context.Context, accessToken string) (domain.Profile, error) {
	if accessToken == "" {
		return domain.Profile{}, &ValidationError{Message: "accessToken is empty"}
	}

	return do[domain.Profile](ctx, c, http.MethodGet, "/customers/me", accessToken, nil)
}

func (c *Client) GetAdminProfile(ctx context.Context, accessToken string) (domain.Profile, error) {
	if accessToken == "" {
		return domain.Profile{}, &ValidationError{Message: "accessToken is empty"}
	}

	return do[domain.Profile](ctx, c, http.MethodGet, "/admin/me", accessToken, nil)
}

func (c *Client) UpdateProfile(ctx context.Context, accessToken string, profile domain.Profile) (domain.Profile, error) {
	if accessToken == "" {
		return domain.Profile{}, &ValidationError{Message: "accessToken is empty"}
	}

	return do[domain.Profile](ctx, c, http.MethodPut, "/customers/me", accessToken, profile)
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return &ValidationError{Message: "accessToken is empty"}
	}

	_, err := do[struct{}](ctx, c, http.MethodPost, "/auth/sign-out", accessToken, nil)
	return err
}

// Checkout

type orderItem struct {
	ProductID   uuid.UUID `json:"productId"`
	VariantID   uuid.UUID `json:"variantId"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	VariantName string    `json:"variantName,omitempty"`
	UnitPrice   string    `json:"unitPrice"`
	Quantity    int       `json:"quantity"`
}

type createOrderRequest struct {
	Items    []orderItem `json:"items"`
	Subtotal string      `json:"subtotal"`
	Tax      string      `json:"tax"`
	Shipping string      `json:"shipping"`
	Total    string      `json:"total"`
	Currency string      `json:"currency"`
}

type createOrderResponse struct {
	ID uuid.UUID `json:"id"`
}

func (c *Client) CreateOrder(ctx context.Context, accessToken string, items []domain.CartItem, totals domain.CartTotals) (domain.Order, error) {
	if accessToken == "" {
		return domain.Order{}, &ValidationError{Message: "accessToken is empty"}
	}
	if len(items) == 0 {
		return domain.Order{}, &ValidationError{Message: "items is empty"}
	}

	req := createOrderRequest{
		Subtotal: totals.Subtotal.Amount.String(),
		Tax:      totals.Tax.Amount.String(),
		Shipping: totals.Shipping.Amount.String(),
		Total:    totals.Total.Amount.String(),
		Currency: totals.Total.Currency.String(),
	}
	for _, item := range items {
		req.Items = append(req.Items, orderItem{
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			SKU:         item.SKU,
			Name:        item.Name,
			VariantName: item.VariantName,
			UnitPrice:   item.UnitPrice.Amount.String(),
			Quantity:    item.Quantity,
		})
	}

	resp, err := do[createOrderResponse](ctx, c, http.MethodPost, "/orders", accessToken, req)
	if err != nil {
		return domain.Order{}, err
	}

	return domain.Order{
		ID:     resp.ID,
		Items:  items,
		Totals: totals,
	}, nil
}

func (c *Client) VerifyPayment(ctx context.Context, accessToken string, callback domain.PaymentCallback) error {
	if accessToken == "" {
		return &ValidationError{Message: "accessToken is empty"}
	}

	_, err := do[struct{}](ctx, c, http.MethodPost, "/payments/verify", accessToken, callback)
	return err
}

// Catalog
//
// The storefront pages only pass these through, so the DTOs stay close to
// the backend's JSON.

type Product struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price"`
	Currency    string    `json:"currency"`
	ImageURL    string    `json:"imageUrl,omitempty"`
}

type Collection struct {
	ID       uuid.UUID `json:"id"`
	Slug     string    `json:"slug"`
	Name     string    `json:"name"`
	ImageURL string    `json:"imageUrl,omitempty"`
}

func (c *Client) ListProducts(ctx context.Context, collectionSlug string) ([]Product, error) {
	path := "/products"
	if collectionSlug != "" {
		path += "?collection=" + url.QueryEscape(collectionSlug)
	}

	return do[[]Product](ctx, c, http.MethodGet, path, "", nil)
}

func (c *Client) GetProduct(ctx context.Context, slug string) (Product, error) {
	if slug == "" {
		return Product{}, &ValidationError{Message: "slug is empty"}
	}

	return do[Product](ctx, c, http.MethodGet, "/products/"+url.PathEscape(slug), "", nil)
}

func (c *Client) ListCollections(ctx context.Context) ([]Collection, error) {
	return do[[]Collection](ctx, c, http.MethodGet, "/collections", "", nil)
}

// Admin attributes

func (c *Client) ListAttributes(ctx context.Context, accessToken string) ([]domain.Attribute, error) {
	if accessToken == "" {
		return nil, &ValidationError{Message: "accessToken is empty"}
	}

	return do[[]domain.Attribute](ctx, c, http.MethodGet, "/admin/attributes", accessToken, nil)
}

func (c *Client) SaveAttribute(ctx context.Context, accessToken string, attr domain.Attribute) (domain.Attribute, error) {
	if accessToken == "" {
		return domain.Attribute{}, &ValidationError{Message: "accessToken is empty"}
	}
	if _, err := domain.ParseAttributeKind(string(attr.Kind)); err != nil {
		return domain.Attribute{}, &ValidationError{Message: err.Error(), Cause: err}
	}

	return do[domain.Attribute](ctx, c, http.MethodPost, "/admin/attributes", accessToken, attr)
}
