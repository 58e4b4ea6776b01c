package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// fileSnapshots keeps one JSON file per owner under a directory. It is the
// local-storage equivalent: the cart survives a reload on the same machine
// but is not shared anywhere.
type fileSnapshots struct {
	dir string
}

func NewFileSnapshots(dir string) (port.CartSnapshots, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll: %w", err)
	}

	return &fileSnapshots{dir: dir}, nil
}

type snapshotItem struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"productId"`
	VariantID   uuid.UUID `json:"variantId"`
	Name        string    `json:"name"`
	VariantName string    `json:"variantName,omitempty"`
	SKU         string    `json:"sku"`
	UnitPrice   string    `json:"unitPrice"`
	Currency    string    `json:"currency"`
	Quantity    int       `json:"quantity"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (f *fileSnapshots) Save(_ context.Context, ownerID string, items []domain.CartItem) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	rows := make([]snapshotItem, 0, len(items))
	for _, item := range items {
		rows = append(rows, snapshotItem{
			ID:          item.ID,
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			Name:        item.Name,
			VariantName: item.VariantName,
			SKU:         item.SKU,
			UnitPrice:   item.UnitPrice.Amount.String(),
			Currency:    item.UnitPrice.Currency.String(),
			Quantity:    item.Quantity,
			ImageURL:    item.ImageURL,
			CreatedAt:   item.CreatedAt,
		})
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	path, err := f.path(ownerID)
	if err != nil {
		return err
	}

	// write-then-rename so a crash never leaves a torn snapshot
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("os.WriteFile: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}

	return nil
}

func (f *fileSnapshots) Load(_ context.Context, ownerID string) ([]domain.CartItem, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	path, err := f.path(ownerID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	var rows []snapshotItem
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	var items []domain.CartItem
	for _, row := range rows {
		item, err := mapSnapshotItemToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapSnapshotItemToDomain: %w", err)
		}
		items = append(items, item)
	}

	return items, nil
}

func (f *fileSnapshots) Delete(_ context.Context, ownerID string) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	path, err := f.path(ownerID)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("os.Remove: %w", err)
	}

	return nil
}

// path refuses owner IDs that could name a file outside the snapshot
// directory. Owner IDs come from cookies and session subjects.
func (f *fileSnapshots) path(ownerID string) (string, error) {
	if ownerID == "." || ownerID == ".." || strings.ContainsAny(ownerID, `/\`) {
		return "", fmt.Errorf("ownerID[%s] is not a valid file name", ownerID)
	}

	return filepath.Join(f.dir, ownerID+".json"), nil
}

func mapSnapshotItemToDomain(row snapshotItem) (domain.CartItem, error) {
	amount, err := decimal.NewFromString(row.UnitPrice)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("unitPrice[%s] is not valid: %w", row.UnitPrice, err)
	}

	parsedCurrency, err := currency.ParseISO(row.Currency)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("currency[%s] is not valid: %w", row.Currency, err)
	}

	return domain.CartItem{
		ID:          row.ID,
		ProductID:   row.ProductID,
		VariantID:   row.VariantID,
		Name:        row.Name,
		VariantName: row.VariantName,
		SKU:         row.SKU,
		UnitPrice:   domain.Money{Amount: amount, Currency: parsedCurrency},
		Quantity:    row.Quantity,
		ImageURL:    row.ImageURL,
		CreatedAt:   row.CreatedAt,
	}, nil
}
