package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VatRate is a named VAT percentage. Exactly one row is the default rate and
// preset rows are read-only.
type VatRate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name      string          `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Rate      decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"rate"`
	IsDefault bool            `gorm:"not null;default:false" json:"is_default"`
	IsPreset  bool            `gorm:"not null;default:false" json:"is_preset"`
}

// PresetVatRates returns the French VAT rates installed on a fresh database.
// The zero rate is the initial default.
func PresetVatRates() []VatRate {
	return []VatRate{
		{Name: "Taux zéro", Rate: decimal.Zero, IsDefault: true, IsPreset: true},
		{Name: "Taux particulier", Rate: decimal.RequireFromString("2.1"), IsPreset: true},
		{Name: "Taux réduit", Rate: decimal.RequireFromString("5.5"), IsPreset: true},
		{Name: "Taux intermédiaire", Rate: decimal.NewFromInt(10), IsPreset: true},
		{Name: "Taux normal", Rate: decimal.NewFromInt(20), IsPreset: true},
	}
}
