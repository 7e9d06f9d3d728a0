package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusEmitted   InvoiceStatus = "EMITTED"
	InvoiceStatusReminded  InvoiceStatus = "REMINDED"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// InvoiceStatuses lists every status in lifecycle order.
var InvoiceStatuses = []InvoiceStatus{
	InvoiceStatusDraft,
	InvoiceStatusEmitted,
	InvoiceStatusReminded,
	InvoiceStatusPaid,
	InvoiceStatusCancelled,
}

// Valid reports whether s is a known status.
func (s InvoiceStatus) Valid() bool {
	for _, known := range InvoiceStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition can leave s.
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// AwaitsPayment reports whether an invoice in status s is due but unpaid.
func (s InvoiceStatus) AwaitsPayment() bool {
	return s == InvoiceStatusEmitted || s == InvoiceStatusReminded
}

// Invoice represents a billing invoice.
type Invoice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ClientID uint    `gorm:"index;not null" json:"client_id"`
	Client   *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`

	Status    InvoiceStatus   `gorm:"size:20;not null;index" json:"status"`
	RawAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"raw_amount"`
	VAT       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"vat"`

	Items      []Item      `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	StatusLogs []StatusLog `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"status_logs,omitempty"`
}

// Code returns the display code of the invoice, e.g. FC00007.
func (i *Invoice) Code() string {
	return fmt.Sprintf("FC%05d", i.ID)
}

// IsDraft returns true if the invoice is in draft status.
func (i *Invoice) IsDraft() bool {
	return i.Status == InvoiceStatusDraft
}

// CanEdit returns true if the invoice items can still be changed.
func (i *Invoice) CanEdit() bool {
	return i.Status == InvoiceStatusDraft
}

// Amount returns the cached totals of the invoice.
func (i *Invoice) Amount() Amount {
	return NewAmount(i.RawAmount, i.VAT)
}

// ChangedToOn returns when the invoice entered status, if the loaded log has
// a row for it.
func (i *Invoice) ChangedToOn(status InvoiceStatus) (time.Time, bool) {
	for _, log := range i.StatusLogs {
		if log.Status == status {
			return log.From, true
		}
	}
	return time.Time{}, false
}

// StatusLog records the period during which an invoice held a status. The
// open row of an invoice has a nil To.
type StatusLog struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	InvoiceID uint          `gorm:"index;not null" json:"invoice_id"`
	Status    InvoiceStatus `gorm:"size:20;not null" json:"status"`
	From      time.Time     `gorm:"column:valid_from;not null" json:"from"`
	To        *time.Time    `gorm:"column:valid_to" json:"to,omitempty"`
}

// IsOpen reports whether the row is the current period of its invoice.
func (l *StatusLog) IsOpen() bool {
	return l.To == nil
}
