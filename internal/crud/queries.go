package crud

import (
	"context"
	"errors"
	"time"

	"github.com/diewo77/go-facto/internal/models"
	"gorm.io/gorm"
)

// first runs q into a new T. A missing row yields (nil, nil).
func first[T any](q *gorm.DB, op, entity string) (*T, error) {
	var obj T
	if err := q.First(&obj).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, wrap(op, entity, err)
	}
	return &obj, nil
}

func withRevision(q *gorm.DB) *gorm.DB {
	return q.Preload("Revision").Preload("Revision.VatRate")
}

// ─────────────────────────────────────────────────────────────────────────────
// VAT rates
// ─────────────────────────────────────────────────────────────────────────────

// DefaultVatRate returns the rate flagged as default.
func (s *Store) DefaultVatRate(ctx context.Context) (*models.VatRate, error) {
	rate, err := first[models.VatRate](s.q(ctx).Where("is_default = ?", true).Order("id"), "get default", "VatRate")
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, &OpError{Op: "get default", Entity: "VatRate", Kind: ErrNotFound, Err: errors.New("default VatRate")}
	}
	return rate, nil
}

// SwapDefaultVatRate clears the default flag of old and sets it on next in a
// single transaction.
func (s *Store) SwapDefaultVatRate(ctx context.Context, old, next *models.VatRate) error {
	err := s.q(ctx).Transaction(func(tx *gorm.DB) error {
		if old != nil {
			if err := tx.Model(old).Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Model(next).Update("is_default", true).Error
	})
	return wrap("set default", "VatRate", err)
}

// RevisionUsingVatRate returns a service revision referencing the rate, or
// nil when the rate is unused.
func (s *Store) RevisionUsingVatRate(ctx context.Context, rateID uint) (*models.ServiceRevision, error) {
	return first[models.ServiceRevision](
		s.q(ctx).Where("vat_rate_id = ?", rateID).Order("id"),
		"find usage", "ServiceRevision",
	)
}

// ─────────────────────────────────────────────────────────────────────────────
// Services
// ─────────────────────────────────────────────────────────────────────────────

// Revision returns a revision with its VAT rate.
func (s *Store) Revision(ctx context.Context, id uint) (*models.ServiceRevision, error) {
	var rev models.ServiceRevision
	if err := s.q(ctx).Preload("VatRate").First(&rev, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.Revisions.notFound("get", id)
		}
		return nil, wrap("get", "ServiceRevision", err)
	}
	return &rev, nil
}

// ServiceWithCurrent returns a service with its current revision loaded.
func (s *Store) ServiceWithCurrent(ctx context.Context, id uint) (*models.Service, error) {
	svc, err := s.Services.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc.Current, err = s.Revision(ctx, svc.RevisionID); err != nil {
		return nil, err
	}
	return svc, nil
}

// ServiceRevisions returns every revision of a service, oldest first.
func (s *Store) ServiceRevisions(ctx context.Context, serviceID uint) ([]models.ServiceRevision, error) {
	var out []models.ServiceRevision
	err := s.q(ctx).Preload("VatRate").Where("service_id = ?", serviceID).Order("id").Find(&out).Error
	if err != nil {
		return nil, wrap("list", "ServiceRevision", err)
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Clients and baskets
// ─────────────────────────────────────────────────────────────────────────────

// ListClients returns the clients ordered by name.
func (s *Store) ListClients(ctx context.Context, activeOnly bool) ([]models.Client, error) {
	q := s.q(ctx).Order("name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []models.Client
	if err := q.Find(&out).Error; err != nil {
		return nil, wrap("list", "Client", err)
	}
	return out, nil
}

// BasketOf returns the basket of a client with its priced items.
func (s *Store) BasketOf(ctx context.Context, clientID uint) (*models.Basket, error) {
	var basket models.Basket
	err := s.q(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Revision").
		Preload("Items.Revision.VatRate").
		Where("client_id = ?", clientID).
		First(&basket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &OpError{Op: "get", Entity: "Basket", Kind: ErrNotFound, Err: errors.New("Basket of client")}
		}
		return nil, wrap("get", "Basket", err)
	}
	return &basket, nil
}

// HasNonDraftInvoices reports whether the client owns an invoice that left
// the DRAFT status.
func (s *Store) HasNonDraftInvoices(ctx context.Context, clientID uint) (bool, error) {
	var count int64
	err := s.q(ctx).Model(&models.Invoice{}).
		Where("client_id = ? AND status <> ?", clientID, models.InvoiceStatusDraft).
		Count(&count).Error
	if err != nil {
		return false, wrap("count", "Invoice", err)
	}
	return count > 0, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Items
// ─────────────────────────────────────────────────────────────────────────────

// Item returns an item with its frozen revision.
func (s *Store) Item(ctx context.Context, id uint) (*models.Item, error) {
	var it models.Item
	if err := withRevision(s.q(ctx)).First(&it, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.Items.notFound("get", id)
		}
		return nil, wrap("get", "Item", err)
	}
	return &it, nil
}

// BasketItemForService returns the basket item billing serviceID, or nil.
func (s *Store) BasketItemForService(ctx context.Context, basketID, serviceID uint) (*models.Item, error) {
	return first[models.Item](
		withRevision(s.q(ctx)).Where("basket_id = ? AND service_id = ?", basketID, serviceID).Order("id"),
		"get", "Item",
	)
}

// BasketItems returns the items referencing a basket.
func (s *Store) BasketItems(ctx context.Context, basketID uint) ([]models.Item, error) {
	return s.items(ctx, "basket_id = ?", basketID)
}

// InvoiceItems returns the items referencing an invoice.
func (s *Store) InvoiceItems(ctx context.Context, invoiceID uint) ([]models.Item, error) {
	return s.items(ctx, "invoice_id = ?", invoiceID)
}

func (s *Store) items(ctx context.Context, cond string, id uint) ([]models.Item, error) {
	var out []models.Item
	if err := withRevision(s.q(ctx)).Where(cond, id).Order("id").Find(&out).Error; err != nil {
		return nil, wrap("list", "Item", err)
	}
	return out, nil
}

// SetBasketTotals stores the cached totals of a basket.
func (s *Store) SetBasketTotals(ctx context.Context, basketID uint, a models.Amount) error {
	return s.Baskets.UpdateColumns(ctx, &models.Basket{ID: basketID}, map[string]any{
		"raw_amount": a.Raw,
		"vat":        a.VAT,
	})
}

// SetInvoiceTotals stores the cached totals of an invoice.
func (s *Store) SetInvoiceTotals(ctx context.Context, invoiceID uint, a models.Amount) error {
	return s.Invoices.UpdateColumns(ctx, &models.Invoice{ID: invoiceID}, map[string]any{
		"raw_amount": a.Raw,
		"vat":        a.VAT,
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Invoices and status logs
// ─────────────────────────────────────────────────────────────────────────────

// InvoiceWithDetails returns an invoice with its items and status history.
func (s *Store) InvoiceWithDetails(ctx context.Context, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.q(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Revision").
		Preload("Items.Revision.VatRate").
		Preload("StatusLogs", func(db *gorm.DB) *gorm.DB { return db.Order("valid_from, id") }).
		First(&inv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.Invoices.notFound("get", id)
		}
		return nil, wrap("get", "Invoice", err)
	}
	return &inv, nil
}

// OpenStatusLog returns the open status row of an invoice, or nil.
func (s *Store) OpenStatusLog(ctx context.Context, invoiceID uint) (*models.StatusLog, error) {
	return first[models.StatusLog](
		s.q(ctx).Where("invoice_id = ? AND valid_to IS NULL", invoiceID).Order("id DESC"),
		"get open", "StatusLog",
	)
}

// StatusHistory returns the status rows of an invoice in chronological order.
func (s *Store) StatusHistory(ctx context.Context, invoiceID uint) ([]models.StatusLog, error) {
	var out []models.StatusLog
	err := s.q(ctx).Where("invoice_id = ?", invoiceID).Order("valid_from, id").Find(&out).Error
	if err != nil {
		return nil, wrap("list", "StatusLog", err)
	}
	return out, nil
}

// DeleteStatusLogs removes the whole history of an invoice.
func (s *Store) DeleteStatusLogs(ctx context.Context, invoiceID uint) error {
	err := s.q(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("invoice_id = ?", invoiceID).Delete(&models.StatusLog{}).Error
	})
	return wrap("delete", "StatusLog", err)
}

// InvoiceQuery selects invoices. Zero fields do not filter. When Period is
// set, it applies to the time the invoice entered LogStatus.
type InvoiceQuery struct {
	ClientID  uint
	Statuses  []models.InvoiceStatus
	LogStatus models.InvoiceStatus
	Period    *models.Period
}

// FindInvoices returns the invoices matching q, newest first.
func (s *Store) FindInvoices(ctx context.Context, q InvoiceQuery) ([]models.Invoice, error) {
	db := s.q(ctx).Model(&models.Invoice{}).Select("invoices.*")
	if q.ClientID != 0 {
		db = db.Where("invoices.client_id = ?", q.ClientID)
	}
	if len(q.Statuses) > 0 {
		db = db.Where("invoices.status IN ?", q.Statuses)
	}
	if q.Period != nil {
		status := q.LogStatus
		if status == "" {
			status = models.InvoiceStatusDraft
		}
		db = db.Joins("JOIN status_logs ON status_logs.invoice_id = invoices.id AND status_logs.status = ?", status)
		if !q.Period.Start.IsZero() {
			db = db.Where("status_logs.valid_from >= ?", q.Period.Start.UTC())
		}
		if !q.Period.End.IsZero() {
			db = db.Where("status_logs.valid_from <= ?", q.Period.End.UTC())
		}
	}

	var out []models.Invoice
	err := db.Preload("StatusLogs", func(db *gorm.DB) *gorm.DB { return db.Order("valid_from, id") }).
		Order("invoices.id DESC").
		Find(&out).Error
	if err != nil {
		return nil, wrap("list", "Invoice", err)
	}
	return out, nil
}

// CloseStatusLog sets the end of a status period.
func (s *Store) CloseStatusLog(ctx context.Context, log *models.StatusLog, at time.Time) error {
	return s.StatusLogs.UpdateColumns(ctx, log, map[string]any{"valid_to": at})
}
