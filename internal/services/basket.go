package services

import (
	"context"

	"github.com/diewo77/go-facto/internal/models"
	"go.uber.org/zap"
)

// AddToBasket adds qty units of a service to the client's basket. An item
// already billing the service is incremented instead of duplicated, and is
// priced again on the current revision.
func (l *Ledger) AddToBasket(ctx context.Context, clientID, serviceID uint, qty int) (*models.Item, error) {
	if qty <= 0 {
		return nil, ErrQuantityInvalid
	}

	var item *models.Item
	err := l.inTx(ctx, func(tx *Ledger) error {
		client, err := tx.store.Clients.Get(ctx, clientID)
		if err != nil {
			return err
		}
		if !client.IsActive {
			return reject("Client %q is inactive.", client.Name)
		}
		basket, err := tx.store.BasketOf(ctx, clientID)
		if err != nil {
			return err
		}
		if item, err = tx.putInBasket(ctx, basket, serviceID, qty); err != nil {
			return err
		}
		return tx.refreshBasket(ctx, basket.ID)
	})
	if err != nil {
		return nil, err
	}
	l.log.Debug("added to basket",
		zap.Uint("client_id", clientID),
		zap.Uint("service_id", serviceID),
		zap.Int("quantity", item.Quantity))
	return item, nil
}

// RemoveFromBasket takes a service out of the client's basket. An item that an
// invoice still references survives with its basket side released. Removing
// a service that is not in the basket is a no-op.
func (l *Ledger) RemoveFromBasket(ctx context.Context, clientID, serviceID uint) error {
	return l.inTx(ctx, func(tx *Ledger) error {
		if _, err := tx.store.Clients.Get(ctx, clientID); err != nil {
			return err
		}
		basket, err := tx.store.BasketOf(ctx, clientID)
		if err != nil {
			return err
		}
		item, err := tx.store.BasketItemForService(ctx, basket.ID, serviceID)
		if err != nil || item == nil {
			return err
		}
		if err := tx.releaseBasketSide(ctx, item); err != nil {
			return err
		}
		return tx.refreshBasket(ctx, basket.ID)
	})
}

// ClearBasket empties the client's basket.
func (l *Ledger) ClearBasket(ctx context.Context, clientID uint) (*models.Basket, error) {
	var basket *models.Basket
	err := l.inTx(ctx, func(tx *Ledger) error {
		if _, err := tx.store.Clients.Get(ctx, clientID); err != nil {
			return err
		}
		var err error
		if basket, err = tx.store.BasketOf(ctx, clientID); err != nil {
			return err
		}
		if err := tx.clearBasket(ctx, basket); err != nil {
			return err
		}
		basket, err = tx.store.BasketOf(ctx, clientID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return basket, nil
}

// clearBasket deletes or detaches every item of basket and zeroes its totals.
func (l *Ledger) clearBasket(ctx context.Context, basket *models.Basket) error {
	items, err := l.store.BasketItems(ctx, basket.ID)
	if err != nil {
		return err
	}
	for i := range items {
		if err := l.releaseBasketSide(ctx, &items[i]); err != nil {
			return err
		}
	}
	basket.Items = nil
	return l.store.SetBasketTotals(ctx, basket.ID, models.Amount{})
}

// releaseBasketSide deletes an item held only by a basket, or clears the
// basket reference of an item an invoice still holds.
func (l *Ledger) releaseBasketSide(ctx context.Context, item *models.Item) error {
	owner := item.Owner()
	if !owner.HasInvoice() {
		return l.store.Items.Delete(ctx, item)
	}
	item.SetOwner(owner.WithoutBasket())
	return l.store.Items.Save(ctx, item)
}

// putInBasket upserts the basket item of serviceID. The caller refreshes the
// basket totals. An item shared with an invoice is never merged into: its
// basket side is released and a basket-only item takes over its quantity, so
// the invoice line keeps its quantity and totals.
func (l *Ledger) putInBasket(ctx context.Context, basket *models.Basket, serviceID uint, qty int) (*models.Item, error) {
	rev, err := l.currentRevision(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	existing, err := l.store.BasketItemForService(ctx, basket.ID, serviceID)
	if err != nil {
		return nil, err
	}
	if existing == nil || existing.Owner().HasInvoice() {
		if existing != nil {
			qty += existing.Quantity
			if err := l.releaseBasketSide(ctx, existing); err != nil {
				return nil, err
			}
		}
		item, err := models.NewItem(rev, qty, models.BasketOwner(basket.ID))
		if err != nil {
			return nil, err
		}
		if err := l.store.Items.Create(ctx, item); err != nil {
			return nil, err
		}
		return item, nil
	}

	existing.Quantity += qty
	existing.Reprice(rev)
	if err := l.store.Items.Save(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// requireDraft rejects changes to an item held by an invoice past DRAFT.
func (l *Ledger) requireDraft(ctx context.Context, invoiceID, itemID uint) error {
	inv, err := l.store.Invoices.Get(ctx, invoiceID)
	if err != nil {
		return err
	}
	if !inv.CanEdit() {
		return reject("Item %d belongs to invoice %s which is %s and cannot be changed.", itemID, inv.Code(), inv.Status)
	}
	return nil
}
