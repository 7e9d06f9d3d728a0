package services

import (
	"context"

	"github.com/diewo77/go-facto/internal/crud"
	"github.com/diewo77/go-facto/internal/models"
	"go.uber.org/zap"
)

// InvoiceFilter selects invoices. Filter and Period are mutually exclusive;
// either one applies to the time the invoice entered Status, or its creation
// time when Status is nil.
type InvoiceFilter struct {
	ClientID uint
	Status   *models.InvoiceStatus
	Filter   *models.PeriodFilter
	Period   *models.Period
}

// CreateInvoice creates an empty DRAFT invoice for a client.
func (l *Ledger) CreateInvoice(ctx context.Context, clientID uint) (*models.Invoice, error) {
	var inv *models.Invoice
	err := l.inTx(ctx, func(tx *Ledger) error {
		if _, err := tx.store.Clients.Get(ctx, clientID); err != nil {
			return err
		}
		var err error
		inv, err = tx.newDraft(ctx, clientID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return l.store.InvoiceWithDetails(ctx, inv.ID)
}

// InvoiceFromBasket turns the client's basket into a DRAFT invoice. Every
// item is priced again on the current revision of its service. When
// clearBasket is false the items stay referenced by the basket as well.
func (l *Ledger) InvoiceFromBasket(ctx context.Context, clientID uint, clearBasket bool) (*models.Invoice, error) {
	var inv *models.Invoice
	err := l.inTx(ctx, func(tx *Ledger) error {
		if _, err := tx.store.Clients.Get(ctx, clientID); err != nil {
			return err
		}
		basket, err := tx.store.BasketOf(ctx, clientID)
		if err != nil {
			return err
		}
		if inv, err = tx.newDraft(ctx, clientID); err != nil {
			return err
		}
		if basket.IsEmpty() {
			return nil
		}

		revisions := map[uint]*models.ServiceRevision{}
		for i := range basket.Items {
			item := &basket.Items[i]
			rev, ok := revisions[item.ServiceID]
			if !ok {
				if rev, err = tx.currentRevision(ctx, item.ServiceID); err != nil {
					return err
				}
				revisions[item.ServiceID] = rev
			}
			if err := tx.moveToInvoice(ctx, item, rev, basket.ID, inv.ID, clearBasket); err != nil {
				return err
			}
		}
		if err := tx.refreshInvoice(ctx, inv.ID); err != nil {
			return err
		}
		return tx.refreshBasket(ctx, basket.ID)
	})
	if err != nil {
		return nil, err
	}
	l.log.Info("invoice created from basket",
		zap.Uint("client_id", clientID),
		zap.Uint("invoice_id", inv.ID),
		zap.Bool("clear_basket", clearBasket))
	return l.store.InvoiceWithDetails(ctx, inv.ID)
}

// moveToInvoice re-parents a basket item to invoiceID. An item already held
// by an earlier invoice is copied so that invoice keeps its line.
func (l *Ledger) moveToInvoice(ctx context.Context, item *models.Item, rev *models.ServiceRevision, basketID, invoiceID uint, clearBasket bool) error {
	if item.Owner().HasInvoice() {
		dup, err := models.NewItem(rev, item.Quantity, models.InvoiceOwner(invoiceID))
		if err != nil {
			return err
		}
		if err := l.store.Items.Create(ctx, dup); err != nil {
			return err
		}
		if clearBasket {
			item.SetOwner(item.Owner().WithoutBasket())
			return l.store.Items.Save(ctx, item)
		}
		return nil
	}

	item.Reprice(rev)
	if clearBasket {
		item.SetOwner(models.InvoiceOwner(invoiceID))
	} else {
		item.SetOwner(models.SharedOwner(basketID, invoiceID))
	}
	return l.store.Items.Save(ctx, item)
}

// AddToInvoice adds a new line to a DRAFT invoice, priced on the current
// revision of the service.
func (l *Ledger) AddToInvoice(ctx context.Context, invoiceID, serviceID uint, qty int) (*models.Item, error) {
	if qty <= 0 {
		return nil, ErrQuantityInvalid
	}
	var item *models.Item
	err := l.inTx(ctx, func(tx *Ledger) error {
		inv, err := tx.store.Invoices.Get(ctx, invoiceID)
		if err != nil {
			return err
		}
		if !inv.CanEdit() {
			return reject("Invoice %s is %s: items can only be added to a DRAFT invoice.", inv.Code(), inv.Status)
		}
		rev, err := tx.currentRevision(ctx, serviceID)
		if err != nil {
			return err
		}
		if item, err = models.NewItem(rev, qty, models.InvoiceOwner(inv.ID)); err != nil {
			return err
		}
		if err := tx.store.Items.Create(ctx, item); err != nil {
			return err
		}
		return tx.refreshInvoice(ctx, inv.ID)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetInvoice returns an invoice with its items and status history.
func (l *Ledger) GetInvoice(ctx context.Context, id uint) (*models.Invoice, error) {
	return l.store.InvoiceWithDetails(ctx, id)
}

// ListInvoices returns the invoices matching f, newest first.
func (l *Ledger) ListInvoices(ctx context.Context, f InvoiceFilter) ([]models.Invoice, error) {
	if f.Filter != nil && f.Period != nil {
		return nil, ErrPeriodConflict
	}
	q := crud.InvoiceQuery{ClientID: f.ClientID, Period: f.Period}
	if f.Status != nil {
		if !f.Status.Valid() {
			return nil, reject("Unknown invoice status %q.", string(*f.Status))
		}
		q.Statuses = []models.InvoiceStatus{*f.Status}
		q.LogStatus = *f.Status
	}
	if f.Filter != nil {
		p, err := f.Filter.Period(l.clock())
		if err != nil {
			return nil, reject("%s.", err)
		}
		q.Period = &p
	}
	return l.store.FindInvoices(ctx, q)
}

// ClearInvoice removes every line of a DRAFT invoice. Lines still referenced
// by the basket go back to it alone.
func (l *Ledger) ClearInvoice(ctx context.Context, id uint) (*models.Invoice, error) {
	err := l.inTx(ctx, func(tx *Ledger) error {
		inv, err := tx.editableInvoice(ctx, id, "cleared")
		if err != nil {
			return err
		}
		return tx.clearInvoice(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return l.store.InvoiceWithDetails(ctx, id)
}

// DeleteInvoice removes a DRAFT invoice with its lines and history.
func (l *Ledger) DeleteInvoice(ctx context.Context, id uint) error {
	err := l.inTx(ctx, func(tx *Ledger) error {
		inv, err := tx.editableInvoice(ctx, id, "deleted")
		if err != nil {
			return err
		}
		return tx.dropInvoice(ctx, inv)
	})
	if err == nil {
		l.log.Info("invoice deleted", zap.Uint("invoice_id", id))
	}
	return err
}

// MoveInBasket gives the lines of a DRAFT invoice back to the client's basket
// and deletes the invoice. Lines billing a service already in the basket are
// merged into it.
func (l *Ledger) MoveInBasket(ctx context.Context, id uint, clearBasket bool) (*models.Basket, error) {
	var clientID uint
	err := l.inTx(ctx, func(tx *Ledger) error {
		inv, err := tx.editableInvoice(ctx, id, "moved to the basket")
		if err != nil {
			return err
		}
		clientID = inv.ClientID
		basket, err := tx.store.BasketOf(ctx, inv.ClientID)
		if err != nil {
			return err
		}
		if clearBasket {
			if err := tx.clearBasket(ctx, basket); err != nil {
				return err
			}
		}
		items, err := tx.store.InvoiceItems(ctx, inv.ID)
		if err != nil {
			return err
		}
		var moved []*models.Item
		for i := range items {
			item := &items[i]
			if !item.Owner().HasBasket() {
				moved = append(moved, item)
				continue
			}
			item.SetOwner(item.Owner().WithoutInvoice())
			if err := tx.store.Items.Save(ctx, item); err != nil {
				return err
			}
		}
		for _, item := range moved {
			existing, err := tx.store.BasketItemForService(ctx, basket.ID, item.ServiceID)
			if err != nil {
				return err
			}
			if existing == nil {
				item.SetOwner(models.BasketOwner(basket.ID))
				if err := tx.store.Items.Save(ctx, item); err != nil {
					return err
				}
				continue
			}
			if existing.Owner().HasInvoice() {
				// Another invoice keeps its line; the moved line takes the basket side.
				if err := item.Requantify(item.Quantity + existing.Quantity); err != nil {
					return err
				}
				if err := tx.releaseBasketSide(ctx, existing); err != nil {
					return err
				}
				item.SetOwner(models.BasketOwner(basket.ID))
				if err := tx.store.Items.Save(ctx, item); err != nil {
					return err
				}
				continue
			}
			if err := existing.Requantify(existing.Quantity + item.Quantity); err != nil {
				return err
			}
			if err := tx.store.Items.Save(ctx, existing); err != nil {
				return err
			}
			if err := tx.store.Items.Delete(ctx, item); err != nil {
				return err
			}
		}
		if err := tx.store.DeleteStatusLogs(ctx, inv.ID); err != nil {
			return err
		}
		if err := tx.store.Invoices.Delete(ctx, inv); err != nil {
			return err
		}
		return tx.refreshBasket(ctx, basket.ID)
	})
	if err != nil {
		return nil, err
	}
	return l.store.BasketOf(ctx, clientID)
}

// CopyInBasket adds the lines of an invoice, in any status, to the client's
// basket at the current price of their services.
func (l *Ledger) CopyInBasket(ctx context.Context, id uint, clearBasket bool) (*models.Basket, error) {
	var clientID uint
	err := l.inTx(ctx, func(tx *Ledger) error {
		inv, err := tx.store.Invoices.Get(ctx, id)
		if err != nil {
			return err
		}
		clientID = inv.ClientID
		basket, err := tx.store.BasketOf(ctx, inv.ClientID)
		if err != nil {
			return err
		}
		if clearBasket {
			if err := tx.clearBasket(ctx, basket); err != nil {
				return err
			}
		}
		items, err := tx.store.InvoiceItems(ctx, inv.ID)
		if err != nil {
			return err
		}
		for i := range items {
			if _, err := tx.putInBasket(ctx, basket, items[i].ServiceID, items[i].Quantity); err != nil {
				return err
			}
		}
		return tx.refreshBasket(ctx, basket.ID)
	})
	if err != nil {
		return nil, err
	}
	return l.store.BasketOf(ctx, clientID)
}

// newDraft inserts a DRAFT invoice and opens its first status period.
func (l *Ledger) newDraft(ctx context.Context, clientID uint) (*models.Invoice, error) {
	inv := &models.Invoice{ClientID: clientID, Status: models.InvoiceStatusDraft}
	if err := l.store.Invoices.Create(ctx, inv); err != nil {
		return nil, err
	}
	log := &models.StatusLog{InvoiceID: inv.ID, Status: models.InvoiceStatusDraft, From: l.clock()}
	if err := l.store.StatusLogs.Create(ctx, log); err != nil {
		return nil, err
	}
	inv.StatusLogs = []models.StatusLog{*log}
	return inv, nil
}

func (l *Ledger) editableInvoice(ctx context.Context, id uint, action string) (*models.Invoice, error) {
	inv, err := l.store.Invoices.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inv.IsDraft() {
		return nil, reject("Invoice %s is %s: only a DRAFT invoice can be %s.", inv.Code(), inv.Status, action)
	}
	return inv, nil
}

// clearInvoice detaches or deletes every line of inv and zeroes its totals.
func (l *Ledger) clearInvoice(ctx context.Context, inv *models.Invoice) error {
	items, err := l.store.InvoiceItems(ctx, inv.ID)
	if err != nil {
		return err
	}
	for i := range items {
		item := &items[i]
		owner := item.Owner()
		if owner.HasBasket() {
			item.SetOwner(owner.WithoutInvoice())
			if err := l.store.Items.Save(ctx, item); err != nil {
				return err
			}
			continue
		}
		if err := l.store.Items.Delete(ctx, item); err != nil {
			return err
		}
	}
	return l.store.SetInvoiceTotals(ctx, inv.ID, models.Amount{})
}

// dropInvoice clears inv then deletes its history and the invoice itself.
func (l *Ledger) dropInvoice(ctx context.Context, inv *models.Invoice) error {
	if err := l.clearInvoice(ctx, inv); err != nil {
		return err
	}
	if err := l.store.DeleteStatusLogs(ctx, inv.ID); err != nil {
		return err
	}
	return l.store.Invoices.Delete(ctx, inv)
}
