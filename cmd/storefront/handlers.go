package main

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/client"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/guard"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/session"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const cartCookie = "storefront_cart"

// handlers owns the per-owner stores of this node. Carts are keyed by a
// cart cookie (guests) or the session subject; session managers are keyed
// by access token.
type handlers struct {
	backend   *client.Client
	checkout  *checkout.Service
	snapshots port.CartSnapshots
	unit      currency.Unit
	logErr    func(error)

	mu       sync.Mutex
	carts    map[string]*cart.Store
	sessions map[string]*session.Manager
	orders   map[uuid.UUID]domain.Order
}

func newHandlers(backend *client.Client, snapshots port.CartSnapshots, unit currency.Unit, logErr func(error)) (*handlers, error) {
	svc, err := checkout.NewService(backend)
	if err != nil {
		return nil, fmt.Errorf("checkout.NewService: %w", err)
	}

	return &handlers{
		backend:   backend,
		checkout:  svc,
		snapshots: snapshots,
		unit:      unit,
		logErr:    logErr,
		carts:     map[string]*cart.Store{},
		sessions:  map[string]*session.Manager{},
		orders:    map[uuid.UUID]domain.Order{},
	}, nil
}

func (h *handlers) register(e *echo.Echo) {
	e.GET("/api/cart", h.getCart)
	e.POST("/api/cart/items", h.addCartItem)
	e.PUT("/api/cart/items/:id", h.updateCartItem)
	e.DELETE("/api/cart/items/:id", h.removeCartItem)
	e.DELETE("/api/cart", h.clearCart)

	e.POST("/api/checkout", h.beginCheckout)
	e.POST("/api/checkout/confirm", h.confirmPayment)

	e.GET("/api/session/profile", h.getProfile)
	e.PUT("/api/session/profile", h.updateProfile)
	e.POST("/api/session/logout", h.logout)

	e.GET("/api/products", h.listProducts)
	e.GET("/api/products/:slug", h.getProduct)
	e.GET("/api/collections", h.listCollections)
	e.GET("/api/admin/attributes", h.listAttributes)
}

// Cart

func (h *handlers) storeFor(c echo.Context) (*cart.Store, error) {
	ownerID := ""
	if sess, ok := guard.SessionFromContext(c); ok && sess.Subject != "" {
		ownerID = sess.Subject
	} else if cookie, err := c.Cookie(cartCookie); err == nil {
		// cookie values are attacker-controlled; only a UUID names a cart
		if _, err := uuid.Parse(cookie.Value); err == nil {
			ownerID = cookie.Value
		}
	}

	if ownerID == "" {
		ownerID = uuid.NewString()
		c.SetCookie(&http.Cookie{
			Name:     cartCookie,
			Value:    ownerID,
			Path:     "/",
			HttpOnly: true,
		})
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if store, ok := h.carts[ownerID]; ok {
		return store, nil
	}

	store, err := cart.NewStore(ownerID,
		cart.WithCurrency(h.unit),
		cart.WithSnapshots(h.snapshots, h.logErr),
	)
	if err != nil {
		return nil, fmt.Errorf("cart.NewStore: %w", err)
	}
	if err := store.Restore(c.Request().Context()); err != nil {
		return nil, fmt.Errorf("store.Restore: %w", err)
	}

	h.carts[ownerID] = store
	return store, nil
}

type cartItemRequest struct {
	ProductID   uuid.UUID `json:"productId"`
	VariantID   uuid.UUID `json:"variantId"`
	Name        string    `json:"name"`
	VariantName string    `json:"variantName"`
	SKU         string    `json:"sku"`
	UnitPrice   string    `json:"unitPrice"`
	Currency    string    `json:"currency"`
	Quantity    int       `json:"quantity"`
	ImageURL    string    `json:"imageUrl"`
}

func (r cartItemRequest) toDomain() (domain.CartItem, error) {
	amount, err := decimal.NewFromString(r.UnitPrice)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("unitPrice[%s] is not valid: %w", r.UnitPrice, err)
	}

	unit, err := currency.ParseISO(r.Currency)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("currency[%s] is not valid: %w", r.Currency, err)
	}

	return domain.CartItem{
		ID:          uuid.New(),
		ProductID:   r.ProductID,
		VariantID:   r.VariantID,
		Name:        r.Name,
		VariantName: r.VariantName,
		SKU:         r.SKU,
		UnitPrice:   domain.Money{Amount: amount, Currency: unit},
		Quantity:    r.Quantity,
		ImageURL:    r.ImageURL,
	}, nil
}

type cartResponse struct {
	Items  []cartItemRequest `json:"items"`
	Totals totalsResponse    `json:"totals"`
}

type totalsResponse struct {
	Subtotal  string `json:"subtotal"`
	Tax       string `json:"tax"`
	Shipping  string `json:"shipping"`
	Total     string `json:"total"`
	Currency  string `json:"currency"`
	ItemCount int    `json:"itemCount"`
}

func cartToResponse(store *cart.Store) (cartResponse, error) {
	totals, err := store.Totals()
	if err != nil {
		return cartResponse{}, fmt.Errorf("store.Totals: %w", err)
	}

	resp := cartResponse{
		Items: []cartItemRequest{},
		Totals: totalsResponse{
			Subtotal:  totals.Subtotal.Amount.String(),
			Tax:       totals.Tax.Amount.String(),
			Shipping:  totals.Shipping.Amount.String(),
			Total:     totals.Total.Amount.String(),
			Currency:  totals.Total.Currency.String(),
			ItemCount: totals.ItemCount,
		},
	}
	for _, item := range store.Items() {
		resp.Items = append(resp.Items, cartItemRequest{
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			Name:        item.Name,
			VariantName: item.VariantName,
			SKU:         item.SKU,
			UnitPrice:   item.UnitPrice.Amount.String(),
			Currency:    item.UnitPrice.Currency.String(),
			Quantity:    item.Quantity,
			ImageURL:    item.ImageURL,
		})
	}

	return resp, nil
}

func (h *handlers) getCart(c echo.Context) error {
	store, err := h.storeFor(c)
	if err != nil {
		return err
	}

	return h.respondCart(c, store)
}

func (h *handlers) addCartItem(c echo.Context) error {
	store, err := h.storeFor(c)
	if err != nil {
		return err
	}

	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := req.toDomain()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := store.AddItem(item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return h.respondCart(c, store)
}

func (h *handlers) updateCartItem(c echo.Context) error {
	store, err := h.storeFor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a UUID")
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := store.UpdateItemQuantity(id, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}

	return h.respondCart(c, store)
}

func (h *handlers) removeCartItem(c echo.Context) error {
	store, err := h.storeFor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a UUID")
	}

	if _, err := store.RemoveItem(id); err != nil {
		return err
	}

	return h.respondCart(c, store)
}

func (h *handlers) clearCart(c echo.Context) error {
	store, err := h.storeFor(c)
	if err != nil {
		return err
	}

	if err := store.Clear(); err != nil {
		return err
	}

	return h.respondCart(c, store)
}

func (h *handlers) respondCart(c echo.Context, store *cart.Store) error {
	resp, err := cartToResponse(store)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// Checkout

func (h *handlers) beginCheckout(c echo.Context) error {
	sess, ok := guard.SessionFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "sign in to check out")
	}

	store, err := h.storeFor(c)
	if err != nil {
		return err
	}

	order, handoff, err := h.checkout.Begin(c.Request().Context(), sess.AccessToken, store)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	h.mu.Lock()
	h.orders[order.ID] = order
	h.mu.Unlock()

	return c.JSON(http.StatusOK, handoff)
}

type confirmPaymentRequest struct {
	domain.PaymentCallback
}

func (h *handlers) confirmPayment(c echo.Context) error {
	sess, ok := guard.SessionFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "sign in to check out")
	}

	var req confirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.mu.Lock()
	order, ok := h.orders[req.OrderID]
	h.mu.Unlock()
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown order")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "amount is not a number")
	}
	unit, err := currency.ParseISO(req.Currency)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "currency is not valid")
	}

	store, err := h.storeFor(c)
	if err != nil {
		return err
	}

	err = h.checkout.Confirm(c.Request().Context(), sess.AccessToken, store, order,
		domain.Money{Amount: amount, Currency: unit}, req.PaymentCallback)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentBelowFloor) || errors.Is(err, domain.ErrPaymentOverTotal) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	h.mu.Lock()
	delete(h.orders, order.ID)
	h.mu.Unlock()

	return c.NoContent(http.StatusNoContent)
}

// Session / profile

func (h *handlers) managerFor(c echo.Context) (*session.Manager, domain.Session, error) {
	sess, ok := guard.SessionFromContext(c)
	if !ok {
		return nil, domain.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if manager, ok := h.sessions[sess.AccessToken]; ok {
		return manager, sess, nil
	}

	manager, err := session.NewManager(h.backend)
	if err != nil {
		return nil, domain.Session{}, fmt.Errorf("session.NewManager: %w", err)
	}
	h.sessions[sess.AccessToken] = manager

	return manager, sess, nil
}

func (h *handlers) getProfile(c echo.Context) error {
	manager, sess, err := h.managerFor(c)
	if err != nil {
		return err
	}

	if profile, ok := manager.Profile(); ok {
		return c.JSON(http.StatusOK, profile)
	}

	if err := manager.OnAuthenticated(c.Request().Context(), sess); err != nil {
		// session stays intact, the client may retry
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	profile, _ := manager.Profile()
	return c.JSON(http.StatusOK, profile)
}

func (h *handlers) updateProfile(c echo.Context) error {
	manager, sess, err := h.managerFor(c)
	if err != nil {
		return err
	}

	if _, ok := manager.Profile(); !ok {
		if err := manager.OnAuthenticated(c.Request().Context(), sess); err != nil {
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
	}

	var profile domain.Profile
	if err := c.Bind(&profile); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := manager.UpdateProfile(c.Request().Context(), profile)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, updated)
}

func (h *handlers) logout(c echo.Context) error {
	manager, sess, err := h.managerFor(c)
	if err != nil {
		return err
	}

	// the profile is not needed to log out, seeding the session is enough
	manager.SetSession(sess)

	if err := manager.Logout(c.Request().Context()); err != nil {
		// local state is already cleared, the remote failure is only logged
		h.logErr(err)
	}

	h.mu.Lock()
	delete(h.sessions, sess.AccessToken)
	h.mu.Unlock()

	c.SetCookie(&http.Cookie{Name: guard.SessionCookie, Value: "", Path: "/", MaxAge: -1})

	return c.NoContent(http.StatusNoContent)
}

// Catalog passthroughs

func (h *handlers) listProducts(c echo.Context) error {
	products, err := h.backend.ListProducts(c.Request().Context(), c.QueryParam("collection"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, products)
}

func (h *handlers) getProduct(c echo.Context) error {
	product, err := h.backend.GetProduct(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, product)
}

func (h *handlers) listCollections(c echo.Context) error {
	collections, err := h.backend.ListCollections(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, collections)
}

func (h *handlers) listAttributes(c echo.Context) error {
	sess, ok := guard.SessionFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}

	attrs, err := h.backend.ListAttributes(c.Request().Context(), sess.AccessToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, attrs)
}
