package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OwnerKind tells which containers reference an item.
type OwnerKind int

const (
	OwnerNone OwnerKind = iota
	OwnerBasket
	OwnerInvoice
	// OwnerShared is an item converted into an invoice while its basket was
	// not cleared. Both containers count it until one side releases it.
	OwnerShared
)

func (k OwnerKind) String() string {
	switch k {
	case OwnerBasket:
		return "basket"
	case OwnerInvoice:
		return "invoice"
	case OwnerShared:
		return "shared"
	default:
		return "none"
	}
}

// Owner is the container side of an item: a basket, an invoice, or both.
type Owner struct {
	Kind      OwnerKind
	BasketID  uint
	InvoiceID uint
}

func BasketOwner(basketID uint) Owner {
	return Owner{Kind: OwnerBasket, BasketID: basketID}
}

func InvoiceOwner(invoiceID uint) Owner {
	return Owner{Kind: OwnerInvoice, InvoiceID: invoiceID}
}

func SharedOwner(basketID, invoiceID uint) Owner {
	return Owner{Kind: OwnerShared, BasketID: basketID, InvoiceID: invoiceID}
}

// HasBasket reports whether the owner references a basket.
func (o Owner) HasBasket() bool {
	return o.Kind == OwnerBasket || o.Kind == OwnerShared
}

// HasInvoice reports whether the owner references an invoice.
func (o Owner) HasInvoice() bool {
	return o.Kind == OwnerInvoice || o.Kind == OwnerShared
}

// WithoutBasket returns the owner once the basket side is released.
func (o Owner) WithoutBasket() Owner {
	if o.HasInvoice() {
		return InvoiceOwner(o.InvoiceID)
	}
	return Owner{}
}

// WithoutInvoice returns the owner once the invoice side is released.
func (o Owner) WithoutInvoice() Owner {
	if o.HasBasket() {
		return BasketOwner(o.BasketID)
	}
	return Owner{}
}

// Item is a priced line owned by a basket and/or an invoice. Its price is
// frozen on ServiceRevisionID.
type Item struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ServiceID         uint             `gorm:"index;not null" json:"service_id"`
	Service           *Service         `gorm:"foreignKey:ServiceID" json:"-"`
	ServiceRevisionID uint             `gorm:"index;not null" json:"service_revision_id"`
	Revision          *ServiceRevision `gorm:"foreignKey:ServiceRevisionID" json:"revision,omitempty"`

	Quantity  int             `gorm:"not null" json:"quantity"`
	RawAmount decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"raw_amount"`
	VAT       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"vat"`

	BasketID  *uint `gorm:"index;check:chk_items_owner,basket_id IS NOT NULL OR invoice_id IS NOT NULL" json:"basket_id,omitempty"`
	InvoiceID *uint `gorm:"index" json:"invoice_id,omitempty"`
}

// NewItem builds an item of quantity units priced on rev. The revision must
// carry its VatRate.
func NewItem(rev *ServiceRevision, quantity int, owner Owner) (*Item, error) {
	if rev == nil || rev.ID == 0 {
		return nil, ErrMissingRevision
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if owner.Kind == OwnerNone {
		return nil, ErrNoOwner
	}
	it := &Item{ServiceID: rev.ServiceID, Quantity: quantity}
	it.Reprice(rev)
	it.SetOwner(owner)
	return it, nil
}

// Owner derives the ownership variant from the container columns.
func (it *Item) Owner() Owner {
	switch {
	case it.BasketID != nil && it.InvoiceID != nil:
		return SharedOwner(*it.BasketID, *it.InvoiceID)
	case it.BasketID != nil:
		return BasketOwner(*it.BasketID)
	case it.InvoiceID != nil:
		return InvoiceOwner(*it.InvoiceID)
	default:
		return Owner{}
	}
}

// SetOwner writes the ownership variant into the container columns.
func (it *Item) SetOwner(o Owner) {
	it.BasketID, it.InvoiceID = nil, nil
	if o.HasBasket() {
		id := o.BasketID
		it.BasketID = &id
	}
	if o.HasInvoice() {
		id := o.InvoiceID
		it.InvoiceID = &id
	}
}

// Reprice freezes the item on rev and recomputes its amount.
func (it *Item) Reprice(rev *ServiceRevision) {
	it.ServiceRevisionID = rev.ID
	it.Revision = rev
	it.applyAmount(rev.Price(it.Quantity))
}

// Requantify changes the quantity and recomputes the amount on the frozen
// revision, which must be loaded.
func (it *Item) Requantify(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if it.Revision == nil {
		return ErrMissingRevision
	}
	it.Quantity = quantity
	it.applyAmount(it.Revision.Price(quantity))
	return nil
}

// Amount returns the amount of the line.
func (it *Item) Amount() Amount {
	return NewAmount(it.RawAmount, it.VAT)
}

func (it *Item) applyAmount(a Amount) {
	it.RawAmount = a.Raw
	it.VAT = a.VAT
}

// SumItems totals the amounts of items.
func SumItems(items []Item) Amount {
	total := NewAmount(decimal.Zero, decimal.Zero)
	for i := range items {
		total = total.Add(items[i].Amount())
	}
	return total
}
