package services

import (
	"context"
	"time"

	"github.com/diewo77/go-facto/internal/models"
	"go.uber.org/zap"
)

var transitions = map[models.InvoiceStatus][]models.InvoiceStatus{
	models.InvoiceStatusDraft:    {models.InvoiceStatusEmitted},
	models.InvoiceStatusEmitted:  {models.InvoiceStatusReminded, models.InvoiceStatusPaid, models.InvoiceStatusCancelled},
	models.InvoiceStatusReminded: {models.InvoiceStatusReminded, models.InvoiceStatusPaid, models.InvoiceStatusCancelled},
}

// CanTransition reports whether an invoice in status from may be marked as to.
func CanTransition(from, to models.InvoiceStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Window is the validity of a status in the history of an invoice. A nil To
// marks the current status.
type Window struct {
	From time.Time  `json:"from"`
	To   *time.Time `json:"to,omitempty"`
}

// MarkAs moves an invoice to status. The open history row is closed and a new
// one is opened, except for a new reminder which only moves the start of the
// open REMINDED row.
func (l *Ledger) MarkAs(ctx context.Context, invoiceID uint, status models.InvoiceStatus) (*models.Invoice, error) {
	err := l.inTx(ctx, func(tx *Ledger) error {
		inv, err := tx.store.Invoices.Get(ctx, invoiceID)
		if err != nil {
			return err
		}
		if !CanTransition(inv.Status, status) {
			return reject("Invoice status transition from %s to %s is not allowed.", inv.Status, status)
		}
		now := tx.clock()
		open, err := tx.store.OpenStatusLog(ctx, inv.ID)
		if err != nil {
			return err
		}

		if status == models.InvoiceStatusReminded && inv.Status == models.InvoiceStatusReminded && open != nil {
			return tx.store.StatusLogs.UpdateColumns(ctx, open, map[string]any{"valid_from": now})
		}
		if open != nil {
			if err := tx.store.CloseStatusLog(ctx, open, now); err != nil {
				return err
			}
		}
		if err := tx.store.StatusLogs.Create(ctx, &models.StatusLog{InvoiceID: inv.ID, Status: status, From: now}); err != nil {
			return err
		}
		return tx.store.Invoices.UpdateColumns(ctx, inv, map[string]any{"status": status})
	})
	if err != nil {
		return nil, err
	}
	l.log.Info("invoice status changed", zap.Uint("invoice_id", invoiceID), zap.String("status", string(status)))
	return l.store.InvoiceWithDetails(ctx, invoiceID)
}

// RevertStatus cancels the last transition of an invoice: the open row of the
// current status is deleted and the most recently closed row is opened again.
// Rows are matched by status and insertion order, so windows moved by
// UpdateStatusHistory do not change which row goes.
func (l *Ledger) RevertStatus(ctx context.Context, invoiceID uint) (*models.Invoice, error) {
	var from, to models.InvoiceStatus
	err := l.inTx(ctx, func(tx *Ledger) error {
		inv, err := tx.store.Invoices.Get(ctx, invoiceID)
		if err != nil {
			return err
		}
		current, err := tx.store.OpenStatusLog(ctx, inv.ID)
		if err != nil {
			return err
		}
		if current == nil || current.Status != inv.Status {
			return reject("Invoice %s is in %s status but its history has no open %s period.", inv.Code(), inv.Status, inv.Status)
		}
		history, err := tx.store.StatusHistory(ctx, inv.ID)
		if err != nil {
			return err
		}
		var previous *models.StatusLog
		for i := range history {
			row := &history[i]
			if row.ID == current.ID || row.IsOpen() {
				continue
			}
			if previous == nil || row.ID > previous.ID {
				previous = row
			}
		}
		if previous == nil {
			return reject("Invoice %s is in %s status and has no previous status.", inv.Code(), inv.Status)
		}
		from, to = inv.Status, previous.Status

		if err := tx.store.StatusLogs.Delete(ctx, current); err != nil {
			return err
		}
		if err := tx.store.StatusLogs.UpdateColumns(ctx, previous, map[string]any{"valid_to": nil}); err != nil {
			return err
		}
		return tx.store.Invoices.UpdateColumns(ctx, inv, map[string]any{"status": previous.Status})
	})
	if err != nil {
		return nil, err
	}
	l.log.Info("invoice status reverted",
		zap.Uint("invoice_id", invoiceID),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	return l.store.InvoiceWithDetails(ctx, invoiceID)
}

// StatusHistory returns the history rows of an invoice in chronological order.
func (l *Ledger) StatusHistory(ctx context.Context, invoiceID uint) ([]models.StatusLog, error) {
	if _, err := l.store.Invoices.Get(ctx, invoiceID); err != nil {
		return nil, err
	}
	return l.store.StatusHistory(ctx, invoiceID)
}

// UpdateStatusHistory corrects the validity windows of some statuses of an
// invoice. The open row stays open and closed rows stay closed.
func (l *Ledger) UpdateStatusHistory(ctx context.Context, invoiceID uint, windows map[models.InvoiceStatus]Window) (*models.Invoice, error) {
	for status, w := range windows {
		if !status.Valid() {
			return nil, reject("Unknown invoice status %q.", string(status))
		}
		if w.From.IsZero() {
			return nil, reject("The %s period has no start.", status)
		}
		if w.To != nil && w.To.Before(w.From) {
			return nil, reject("The %s period ends before it starts.", status)
		}
	}

	err := l.inTx(ctx, func(tx *Ledger) error {
		inv, err := tx.store.Invoices.Get(ctx, invoiceID)
		if err != nil {
			return err
		}
		history, err := tx.store.StatusHistory(ctx, inv.ID)
		if err != nil {
			return err
		}
		for status, w := range windows {
			found := false
			for i := range history {
				row := &history[i]
				if row.Status != status {
					continue
				}
				found = true
				switch {
				case row.IsOpen() && w.To != nil:
					return reject("The current %s period of invoice %s cannot be closed.", status, inv.Code())
				case !row.IsOpen() && w.To == nil:
					return reject("The past %s period of invoice %s needs an end.", status, inv.Code())
				}
				columns := map[string]any{"valid_from": w.From.UTC()}
				if w.To != nil {
					columns["valid_to"] = w.To.UTC()
				}
				if err := tx.store.StatusLogs.UpdateColumns(ctx, row, columns); err != nil {
					return err
				}
			}
			if !found {
				return reject("Invoice %s was never %s.", inv.Code(), status)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l.store.InvoiceWithDetails(ctx, invoiceID)
}
