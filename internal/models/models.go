// Package models holds the persisted entities of the invoicing engine and the
// value types used to compute amounts on them.
package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingRevision = errors.New("item requires a service revision")
	ErrInvalidQuantity = errors.New("quantity must be > 0")
	ErrNoOwner         = errors.New("item requires a basket or an invoice")
)

// amountPlaces is the number of decimals kept on VAT amounts.
const amountPlaces = 2

var hundred = decimal.NewFromInt(100)

// Amount groups the excluding-VAT, VAT and including-VAT values of a line or
// of a container.
type Amount struct {
	Raw decimal.Decimal `json:"raw"`
	VAT decimal.Decimal `json:"vat"`
	Net decimal.Decimal `json:"net"`
}

// ComputeAmount prices quantity units at unitPrice with a VAT rate expressed
// as a percentage (20 means 20%).
func ComputeAmount(unitPrice decimal.Decimal, quantity int, rate decimal.Decimal) Amount {
	raw := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	vat := raw.Mul(rate).Div(hundred).Round(amountPlaces)
	return Amount{Raw: raw, VAT: vat, Net: raw.Add(vat)}
}

// NewAmount builds an Amount from its raw and VAT parts.
func NewAmount(raw, vat decimal.Decimal) Amount {
	return Amount{Raw: raw, VAT: vat, Net: raw.Add(vat)}
}

// Add returns the sum of two amounts.
func (a Amount) Add(other Amount) Amount {
	return NewAmount(a.Raw.Add(other.Raw), a.VAT.Add(other.VAT))
}

// IsZero reports whether both raw and VAT parts are zero.
func (a Amount) IsZero() bool {
	return a.Raw.IsZero() && a.VAT.IsZero()
}
