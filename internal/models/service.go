package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is the stable identity of something that can be billed. Its name,
// price and VAT rate live in ServiceRevision rows; RevisionID points to the
// current one.
type Service struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	RevisionID uint      `gorm:"index;not null;default:0" json:"revision_id"`

	Revisions []ServiceRevision `gorm:"foreignKey:ServiceID" json:"-"`

	// Current is the revision RevisionID points to, loaded on demand.
	Current *ServiceRevision `gorm:"-" json:"current,omitempty"`
}

// ServiceRevision is an immutable snapshot of a service. Rows are only ever
// inserted.
type ServiceRevision struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ServiceID uint            `gorm:"index;not null" json:"service_id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	VatRateID uint            `gorm:"index;not null" json:"vat_rate_id"`
	VatRate   *VatRate        `gorm:"foreignKey:VatRateID" json:"vat_rate,omitempty"`
}

// Price computes the amount of quantity units at this revision's price. The
// VatRate association must be loaded.
func (r *ServiceRevision) Price(quantity int) Amount {
	rate := decimal.Zero
	if r.VatRate != nil {
		rate = r.VatRate.Rate
	}
	return ComputeAmount(r.UnitPrice, quantity, rate)
}

// Differs reports whether the given values differ from the revision.
func (r *ServiceRevision) Differs(name string, unitPrice decimal.Decimal, vatRateID uint) bool {
	return r.Name != name || !r.UnitPrice.Equal(unitPrice) || r.VatRateID != vatRateID
}
