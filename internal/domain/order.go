package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrPaymentBelowFloor = errors.New("payment amount is below the partial payment floor")
	ErrPaymentOverTotal  = errors.New("payment amount exceeds the order total")
)

// partialPaymentFloor is the minimum fraction of the order total accepted
// as a partial payment.
var partialPaymentFloor = decimal.NewFromFloat(0.5)

type Order struct {
	ID       uuid.UUID
	Items    []CartItem
	Totals   CartTotals
	Customer string
}

// GatewayHandoff is the payload handed to the payment gateway's client SDK.
type GatewayHandoff struct {
	OrderID  uuid.UUID `json:"orderId"`
	Amount   string    `json:"amount"`
	Currency string    `json:"currency"`
}

// PaymentCallback is what the gateway's checkout modal posts back after the
// shopper pays; the backend verifies the signature.
type PaymentCallback struct {
	OrderID   uuid.UUID `json:"orderId"`
	PaymentID string    `json:"paymentId"`
	Signature string    `json:"signature"`
	Amount    string    `json:"amount"`
	Currency  string    `json:"currency"`
}

// ValidatePaymentAmount checks a (possibly partial) payment against the
// order total: the floor (total/2) and the total itself are both inclusive.
func ValidatePaymentAmount(total, amount Money) error {
	if total.Currency.String() != amount.Currency.String() {
		return fmt.Errorf("currency mismatch: %s != %s", total.Currency, amount.Currency)
	}

	floor := total.Amount.Mul(partialPaymentFloor)
	if amount.Amount.LessThan(floor) {
		return fmt.Errorf("%w: %s < %s", ErrPaymentBelowFloor, amount.Amount, floor)
	}
	if amount.Amount.GreaterThan(total.Amount) {
		return fmt.Errorf("%w: %s > %s", ErrPaymentOverTotal, amount.Amount, total.Amount)
	}

	return nil
}
