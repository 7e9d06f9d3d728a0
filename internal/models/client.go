package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Client represents a customer. A client always owns exactly one basket.
type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name     string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Email    string `gorm:"size:255" json:"email,omitempty"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`

	// Address
	Address string `gorm:"size:500" json:"address,omitempty"`
	ZipCode string `gorm:"size:20" json:"zip_code,omitempty"`
	City    string `gorm:"size:100" json:"city,omitempty"`

	// Relations
	Basket   *Basket   `gorm:"foreignKey:ClientID" json:"basket,omitempty"`
	Invoices []Invoice `gorm:"foreignKey:ClientID" json:"invoices,omitempty"`
}

// Code returns the display code of the client, e.g. CL00042.
func (c *Client) Code() string {
	return fmt.Sprintf("CL%05d", c.ID)
}

// FullAddress returns the formatted full address.
func (c *Client) FullAddress() string {
	addr := c.Address
	if c.ZipCode != "" || c.City != "" {
		if addr != "" {
			addr += "\n"
		}
		addr += c.ZipCode
		if c.ZipCode != "" && c.City != "" {
			addr += " "
		}
		addr += c.City
	}
	return addr
}

// Basket is the pending cart of a client. RawAmount and VAT are cached sums of
// the items currently referencing the basket.
type Basket struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UpdatedAt time.Time `json:"updated_at"`

	ClientID  uint            `gorm:"not null;uniqueIndex" json:"client_id"`
	RawAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"raw_amount"`
	VAT       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"vat"`

	Items []Item `gorm:"foreignKey:BasketID" json:"items,omitempty"`
}

// Amount returns the cached totals of the basket.
func (b *Basket) Amount() Amount {
	return NewAmount(b.RawAmount, b.VAT)
}

// IsEmpty reports whether the loaded basket has no item.
func (b *Basket) IsEmpty() bool {
	return len(b.Items) == 0
}
