package services

import (
	"context"
	"strings"

	"github.com/diewo77/go-facto/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ServiceInput describes a new service. A zero VatRateID selects the default
// VAT rate.
type ServiceInput struct {
	Name      string
	UnitPrice decimal.Decimal
	VatRateID uint
}

// ServicePatch lists the fields to change on a service. Nil fields keep the
// value of the current revision.
type ServicePatch struct {
	Name      *string
	UnitPrice *decimal.Decimal
	VatRateID *uint
}

func (p ServicePatch) validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ErrNameRequired
	}
	if p.UnitPrice != nil && p.UnitPrice.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// apply returns the values of cur overridden by the patch.
func (p ServicePatch) apply(cur *models.ServiceRevision) (string, decimal.Decimal, uint) {
	name, price, rateID := cur.Name, cur.UnitPrice, cur.VatRateID
	if p.Name != nil {
		name = strings.TrimSpace(*p.Name)
	}
	if p.UnitPrice != nil {
		price = *p.UnitPrice
	}
	if p.VatRateID != nil {
		rateID = *p.VatRateID
	}
	return name, price, rateID
}

// CreateService creates a service and its first revision in one transaction.
func (l *Ledger) CreateService(ctx context.Context, in ServiceInput) (*models.Service, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if in.UnitPrice.IsNegative() {
		return nil, ErrNegativePrice
	}

	var svc *models.Service
	err := l.inTx(ctx, func(tx *Ledger) error {
		rate, err := tx.resolveVatRate(ctx, in.VatRateID)
		if err != nil {
			return err
		}
		svc = &models.Service{}
		if err := tx.store.Services.Create(ctx, svc); err != nil {
			return err
		}
		rev, err := tx.appendRevision(ctx, svc, name, in.UnitPrice, rate)
		if err != nil {
			return err
		}
		svc.Current = rev
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.log.Info("service created", zap.Uint("service_id", svc.ID), zap.String("name", name))
	return svc, nil
}

// UpdateService records a new revision when the patch differs from the
// current one. Existing revisions are never modified.
func (l *Ledger) UpdateService(ctx context.Context, id uint, patch ServicePatch) (*models.Service, error) {
	if err := patch.validate(); err != nil {
		return nil, err
	}

	var svc *models.Service
	err := l.inTx(ctx, func(tx *Ledger) error {
		var err error
		if svc, err = tx.store.ServiceWithCurrent(ctx, id); err != nil {
			return err
		}
		name, price, rateID := patch.apply(svc.Current)
		if !svc.Current.Differs(name, price, rateID) {
			return nil
		}
		rate, err := tx.store.VatRates.Get(ctx, rateID)
		if err != nil {
			return err
		}
		rev, err := tx.appendRevision(ctx, svc, name, price, rate)
		if err != nil {
			return err
		}
		tx.log.Info("service revised",
			zap.Uint("service_id", svc.ID),
			zap.Uint("from_revision", svc.Current.ID),
			zap.Uint("to_revision", rev.ID))
		svc.Current = rev
		return nil
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// GetService returns a service with its current revision.
func (l *Ledger) GetService(ctx context.Context, id uint) (*models.Service, error) {
	return l.store.ServiceWithCurrent(ctx, id)
}

// ListServices returns every service with its current revision loaded.
func (l *Ledger) ListServices(ctx context.Context) ([]models.Service, error) {
	services, err := l.store.Services.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range services {
		if services[i].Current, err = l.store.Revision(ctx, services[i].RevisionID); err != nil {
			return nil, err
		}
	}
	return services, nil
}

// GetRevision returns any revision ever recorded, current or not.
func (l *Ledger) GetRevision(ctx context.Context, id uint) (*models.ServiceRevision, error) {
	return l.store.Revision(ctx, id)
}

// ServiceHistory returns every revision of a service, oldest first.
func (l *Ledger) ServiceHistory(ctx context.Context, id uint) ([]models.ServiceRevision, error) {
	if _, err := l.store.Services.Get(ctx, id); err != nil {
		return nil, err
	}
	return l.store.ServiceRevisions(ctx, id)
}

func (l *Ledger) resolveVatRate(ctx context.Context, id uint) (*models.VatRate, error) {
	if id == 0 {
		return l.store.DefaultVatRate(ctx)
	}
	return l.store.VatRates.Get(ctx, id)
}

// appendRevision inserts a revision and points svc at it.
func (l *Ledger) appendRevision(ctx context.Context, svc *models.Service, name string, price decimal.Decimal, rate *models.VatRate) (*models.ServiceRevision, error) {
	rev := &models.ServiceRevision{
		ServiceID: svc.ID,
		Name:      name,
		UnitPrice: price,
		VatRateID: rate.ID,
	}
	if err := l.store.Revisions.Create(ctx, rev); err != nil {
		return nil, err
	}
	rev.VatRate = rate
	if err := l.store.Services.UpdateColumns(ctx, svc, map[string]any{"revision_id": rev.ID}); err != nil {
		return nil, err
	}
	svc.RevisionID = rev.ID
	return rev, nil
}

// currentRevision returns the revision new items of serviceID are priced on.
func (l *Ledger) currentRevision(ctx context.Context, serviceID uint) (*models.ServiceRevision, error) {
	svc, err := l.store.ServiceWithCurrent(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	return svc.Current, nil
}
