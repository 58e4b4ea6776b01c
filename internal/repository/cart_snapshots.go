package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// cartSnapshots persists cart snapshots in Postgres. Save replaces the
// whole snapshot for an owner in one transaction.
type cartSnapshots struct {
	pool *pgxpool.Pool
}

func NewCartSnapshots(pool *pgxpool.Pool) (port.CartSnapshots, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &cartSnapshots{pool: pool}, nil
}

func (r *cartSnapshots) Save(ctx context.Context, ownerID string, items []domain.CartItem) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	_, err := withTx(ctx, r.pool, func(tx pgx.Tx) (struct{}, error) {
		if _, err := tx.Exec(ctx,
			`DELETE FROM cart_snapshot_items WHERE owner_id = $1`, ownerID); err != nil {
			return struct{}{}, fmt.Errorf("tx.Exec delete: %w", err)
		}

		for pos, item := range items {
			_, err := tx.Exec(ctx,
				`INSERT INTO cart_snapshot_items
				   (owner_id, position, item_id, product_id, variant_id,
				    name, variant_name, sku, unit_price_amount, unit_price_currency,
				    quantity, image_url)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
				ownerID, pos, item.ID, item.ProductID, item.VariantID,
				item.Name, item.VariantName, item.SKU,
				item.UnitPrice.Amount, item.UnitPrice.Currency.String(),
				item.Quantity, item.ImageURL,
			)
			if err != nil {
				return struct{}{}, fmt.Errorf("tx.Exec insert: %w", err)
			}
		}

		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func (r *cartSnapshots) Load(ctx context.Context, ownerID string) ([]domain.CartItem, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT item_id, product_id, variant_id, name, variant_name, sku,
		        unit_price_amount, unit_price_currency, quantity, image_url, created_at
		   FROM cart_snapshot_items
		  WHERE owner_id = $1
		  ORDER BY position`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		item, err := scanSnapshotRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanSnapshotRow: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return items, nil
}

func (r *cartSnapshots) Delete(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	if _, err := r.pool.Exec(ctx,
		`DELETE FROM cart_snapshot_items WHERE owner_id = $1`, ownerID); err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}

	return nil
}

func scanSnapshotRow(rows pgx.Rows) (domain.CartItem, error) {
	var (
		item         domain.CartItem
		itemID       uuid.UUID
		productID    uuid.UUID
		variantID    uuid.UUID
		amount       decimal.Decimal
		currencyCode string
	)

	err := rows.Scan(&itemID, &productID, &variantID,
		&item.Name, &item.VariantName, &item.SKU,
		&amount, &currencyCode, &item.Quantity, &item.ImageURL, &item.CreatedAt)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("rows.Scan: %w", err)
	}

	parsedCurrency, err := currency.ParseISO(currencyCode)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("currency[%s] is not valid: %w", currencyCode, err)
	}

	item.ID = itemID
	item.ProductID = productID
	item.VariantID = variantID
	item.UnitPrice = domain.Money{Amount: amount, Currency: parsedCurrency}

	return item, nil
}
