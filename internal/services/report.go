package services

import (
	"context"

	"github.com/diewo77/go-facto/internal/crud"
	"github.com/diewo77/go-facto/internal/models"
	"github.com/shopspring/decimal"
)

// SalesSummary aggregates the invoices of every client.
type SalesSummary struct {
	Period         *models.Period `json:"period,omitempty"`
	PendingPayment decimal.Decimal `json:"pending_payment"`
	Pending        int             `json:"pending"`
	Sales          decimal.Decimal `json:"sales"`
	Paid           int             `json:"paid"`
	Drafts         int             `json:"drafts"`
}

// Summary returns the net amount awaiting payment, the net amount paid within
// period and the number of drafts. A nil period counts every payment.
func (l *Ledger) Summary(ctx context.Context, period *models.Period) (*SalesSummary, error) {
	out := &SalesSummary{Period: period, PendingPayment: decimal.Zero, Sales: decimal.Zero}

	pending, err := l.store.FindInvoices(ctx, crud.InvoiceQuery{
		Statuses: []models.InvoiceStatus{models.InvoiceStatusEmitted, models.InvoiceStatusReminded},
	})
	if err != nil {
		return nil, err
	}
	for i := range pending {
		out.PendingPayment = out.PendingPayment.Add(pending[i].Amount().Net)
	}
	out.Pending = len(pending)

	paid, err := l.store.FindInvoices(ctx, crud.InvoiceQuery{
		Statuses:  []models.InvoiceStatus{models.InvoiceStatusPaid},
		LogStatus: models.InvoiceStatusPaid,
		Period:    period,
	})
	if err != nil {
		return nil, err
	}
	for i := range paid {
		out.Sales = out.Sales.Add(paid[i].Amount().Net)
	}
	out.Paid = len(paid)

	drafts, err := l.store.FindInvoices(ctx, crud.InvoiceQuery{
		Statuses: []models.InvoiceStatus{models.InvoiceStatusDraft},
	})
	if err != nil {
		return nil, err
	}
	out.Drafts = len(drafts)
	return out, nil
}
