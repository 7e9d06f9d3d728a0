package services

import (
	"context"

	"github.com/diewo77/go-facto/internal/models"
	"go.uber.org/zap"
)

// UpdateItemQuantity changes the quantity of an item of the client's basket
// or invoices. The amount is recomputed on the revision the item is frozen
// on. Items held by an invoice past DRAFT cannot change.
func (l *Ledger) UpdateItemQuantity(ctx context.Context, clientID, itemID uint, qty int) (*models.Item, error) {
	if qty <= 0 {
		return nil, ErrQuantityInvalid
	}

	var item *models.Item
	err := l.inTx(ctx, func(tx *Ledger) error {
		var err error
		if item, err = tx.ownedItem(ctx, clientID, itemID); err != nil {
			return err
		}
		owner := item.Owner()
		if owner.HasInvoice() {
			if err := tx.requireDraft(ctx, owner.InvoiceID, item.ID); err != nil {
				return err
			}
		}
		if item.Quantity == qty {
			return nil
		}
		if err := item.Requantify(qty); err != nil {
			return err
		}
		if err := tx.store.Items.Save(ctx, item); err != nil {
			return err
		}
		return tx.refreshOwner(ctx, owner)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes an item of the client's basket or invoices. An item
// shared by the basket and a draft invoice only leaves the basket; one shared
// with an invoice past DRAFT is rejected.
func (l *Ledger) RemoveItem(ctx context.Context, clientID, itemID uint) error {
	return l.inTx(ctx, func(tx *Ledger) error {
		item, err := tx.ownedItem(ctx, clientID, itemID)
		if err != nil {
			return err
		}
		owner := item.Owner()
		if owner.HasInvoice() {
			if err := tx.requireDraft(ctx, owner.InvoiceID, item.ID); err != nil {
				return err
			}
		}
		if owner.Kind == models.OwnerShared {
			if err := tx.releaseBasketSide(ctx, item); err != nil {
				return err
			}
		} else if err := tx.store.Items.Delete(ctx, item); err != nil {
			return err
		}
		tx.log.Debug("item removed", zap.Uint("item_id", itemID), zap.Stringer("owner", owner.Kind))
		return tx.refreshOwner(ctx, owner)
	})
}

// ownedItem loads an item and checks that every container referencing it
// belongs to the client.
func (l *Ledger) ownedItem(ctx context.Context, clientID, itemID uint) (*models.Item, error) {
	client, err := l.store.Clients.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}
	item, err := l.store.Item(ctx, itemID)
	if err != nil {
		return nil, err
	}
	owner := item.Owner()
	if owner.HasBasket() {
		basket, err := l.store.Baskets.Get(ctx, owner.BasketID)
		if err != nil {
			return nil, err
		}
		if basket.ClientID != clientID {
			return nil, reject("Item %d is not part of the basket of client %s.", itemID, client.Code())
		}
	}
	if owner.HasInvoice() {
		inv, err := l.store.Invoices.Get(ctx, owner.InvoiceID)
		if err != nil {
			return nil, err
		}
		if inv.ClientID != clientID {
			return nil, reject("Item %d is not part of an invoice of client %s.", itemID, client.Code())
		}
	}
	return item, nil
}
