package services

import (
	"context"
	"strings"

	"github.com/diewo77/go-facto/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var maxRate = decimal.NewFromInt(100)

// VatRateInput describes a user-defined VAT rate. Rate is a percentage.
type VatRateInput struct {
	Name string
	Rate decimal.Decimal
}

// VatRatePatch lists the editable fields of a VAT rate. Nil fields are kept.
type VatRatePatch struct {
	Name *string
	Rate *decimal.Decimal
}

func (p VatRatePatch) Changes(cur *models.VatRate) map[string]any {
	changes := map[string]any{}
	if p.Name != nil && strings.TrimSpace(*p.Name) != cur.Name {
		changes["name"] = strings.TrimSpace(*p.Name)
	}
	if p.Rate != nil && !p.Rate.Equal(cur.Rate) {
		changes["rate"] = *p.Rate
	}
	return changes
}

func validateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(maxRate) {
		return ErrRateOutOfRange
	}
	return nil
}

// CreateVatRate adds a user-defined rate. It is neither preset nor default.
func (l *Ledger) CreateVatRate(ctx context.Context, in VatRateInput) (*models.VatRate, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if err := validateRate(in.Rate); err != nil {
		return nil, err
	}
	rate := &models.VatRate{Name: name, Rate: in.Rate}
	if err := l.store.VatRates.Create(ctx, rate); err != nil {
		return nil, err
	}
	l.log.Info("vat rate created", zap.Uint("vat_rate_id", rate.ID), zap.String("name", name))
	return rate, nil
}

// GetVatRate fails with crud.ErrNotFound for an unknown id.
func (l *Ledger) GetVatRate(ctx context.Context, id uint) (*models.VatRate, error) {
	return l.store.VatRates.Get(ctx, id)
}

// ListVatRates returns every rate, presets included.
func (l *Ledger) ListVatRates(ctx context.Context) ([]models.VatRate, error) {
	return l.store.VatRates.All(ctx)
}

// DefaultVatRate returns the rate given to services created without one.
func (l *Ledger) DefaultVatRate(ctx context.Context) (*models.VatRate, error) {
	return l.store.DefaultVatRate(ctx)
}

// UpdateVatRate edits a user-defined rate. Preset rates are read-only.
func (l *Ledger) UpdateVatRate(ctx context.Context, id uint, patch VatRatePatch) (*models.VatRate, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, ErrNameRequired
	}
	if patch.Rate != nil {
		if err := validateRate(*patch.Rate); err != nil {
			return nil, err
		}
	}
	rate, err := l.store.VatRates.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rate.IsPreset {
		return nil, reject("Preset VAT rate %q cannot be changed.", rate.Name)
	}
	if _, err := l.store.VatRates.Update(ctx, rate, patch); err != nil {
		return nil, err
	}
	return rate, nil
}

// DeleteVatRate removes a user-defined rate that no service revision uses.
func (l *Ledger) DeleteVatRate(ctx context.Context, id uint) error {
	return l.inTx(ctx, func(tx *Ledger) error {
		rate, err := tx.store.VatRates.Get(ctx, id)
		if err != nil {
			return err
		}
		if rate.IsPreset {
			return reject("Preset VAT rate %q cannot be deleted.", rate.Name)
		}
		if rate.IsDefault {
			return reject("VAT rate %q is the default rate and cannot be deleted.", rate.Name)
		}
		rev, err := tx.store.RevisionUsingVatRate(ctx, id)
		if err != nil {
			return err
		}
		if rev != nil {
			return reject("VAT rate with id %d is used by at least '%s' service.", id, rev.Name)
		}
		return tx.store.VatRates.Delete(ctx, rate)
	})
}

// SetDefaultVatRate moves the default flag to rate id. Both flags are written
// in one transaction; selecting the current default is a no-op.
func (l *Ledger) SetDefaultVatRate(ctx context.Context, id uint) (*models.VatRate, error) {
	var next *models.VatRate
	err := l.inTx(ctx, func(tx *Ledger) error {
		var err error
		if next, err = tx.store.VatRates.Get(ctx, id); err != nil {
			return err
		}
		if next.IsDefault {
			return nil
		}
		old, err := tx.store.DefaultVatRate(ctx)
		if err != nil && !isNotFound(err) {
			return err
		}
		if err := tx.store.SwapDefaultVatRate(ctx, old, next); err != nil {
			return err
		}
		next.IsDefault = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}
