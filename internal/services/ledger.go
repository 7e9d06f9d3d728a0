// Package services implements the invoicing operations: VAT rates, service
// pricing, clients and their basket, invoices and their status lifecycle.
//
// A Ledger is bound to one database session. Operations that write more than
// one row run in a single transaction; business rules are checked before the
// first write and reported as *RuleError.
package services

import (
	"context"
	"time"

	"github.com/diewo77/go-facto/internal/crud"
	"github.com/diewo77/go-facto/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Ledger runs the business operations over one database session.
type Ledger struct {
	store *crud.Store
	now   func() time.Time
	log   *zap.Logger
}

type Option func(*Ledger)

// WithClock replaces time.Now as the source of status timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithLogger sets the logger of the ledger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

// NewLedger binds a Ledger to db.
func NewLedger(db *gorm.DB, opts ...Option) *Ledger {
	l := &Ledger{store: crud.NewStore(db), now: time.Now, log: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) clock() time.Time {
	return l.now().UTC()
}

// inTx runs fn on a ledger bound to one transaction.
func (l *Ledger) inTx(ctx context.Context, fn func(tx *Ledger) error) error {
	return l.store.WithTx(ctx, func(s *crud.Store) error {
		return fn(&Ledger{store: s, now: l.now, log: l.log})
	})
}

// refreshBasket recomputes the cached totals of a basket from its items.
func (l *Ledger) refreshBasket(ctx context.Context, basketID uint) error {
	items, err := l.store.BasketItems(ctx, basketID)
	if err != nil {
		return err
	}
	return l.store.SetBasketTotals(ctx, basketID, models.SumItems(items))
}

// refreshInvoice recomputes the cached totals of an invoice from its items.
func (l *Ledger) refreshInvoice(ctx context.Context, invoiceID uint) error {
	items, err := l.store.InvoiceItems(ctx, invoiceID)
	if err != nil {
		return err
	}
	return l.store.SetInvoiceTotals(ctx, invoiceID, models.SumItems(items))
}

// refreshOwner recomputes the totals of every container referenced by o.
func (l *Ledger) refreshOwner(ctx context.Context, o models.Owner) error {
	if o.HasBasket() {
		if err := l.refreshBasket(ctx, o.BasketID); err != nil {
			return err
		}
	}
	if o.HasInvoice() {
		return l.refreshInvoice(ctx, o.InvoiceID)
	}
	return nil
}
