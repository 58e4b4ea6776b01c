package domain

import "fmt"

// CartTotals is derived from cart lines, never stored.
type CartTotals struct {
	Subtotal  Money
	Tax       Money
	Shipping  Money
	Total     Money
	ItemCount int
}

// TotalsPolicy computes tax and shipping for a given subtotal.
// The policy itself is external configuration.
type TotalsPolicy func(subtotal Money) (tax Money, shipping Money)

// ZeroPolicy charges no tax and no shipping.
func ZeroPolicy(subtotal Money) (Money, Money) {
	return subtotal.Zero(), subtotal.Zero()
}

// ComputeTotals aggregates cart lines: subtotal is the sum of line totals,
// itemCount the sum of quantities. An empty items slice yields zero totals
// in the given currency.
func ComputeTotals(items []CartItem, zero Money, policy TotalsPolicy) (CartTotals, error) {
	if policy == nil {
		policy = ZeroPolicy
	}

	subtotal := zero.Zero()
	count := 0

	for _, item := range items {
		var err error
		subtotal, err = subtotal.Add(item.LineTotal())
		if err != nil {
			return CartTotals{}, fmt.Errorf("subtotal.Add: %w", err)
		}
		count += item.Quantity
	}

	tax, shipping := policy(subtotal)

	total, err := subtotal.Add(tax)
	if err != nil {
		return CartTotals{}, fmt.Errorf("total.Add tax: %w", err)
	}
	total, err = total.Add(shipping)
	if err != nil {
		return CartTotals{}, fmt.Errorf("total.Add shipping: %w", err)
	}

	return CartTotals{
		Subtotal:  subtotal,
		Tax:       tax,
		Shipping:  shipping,
		Total:     total,
		ItemCount: count,
	}, nil
}
