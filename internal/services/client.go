package services

import (
	"context"
	"strings"

	"github.com/diewo77/go-facto/internal/crud"
	"github.com/diewo77/go-facto/internal/models"
	"go.uber.org/zap"
)

// ClientInput holds the fields of a new client. Only Name is required.
type ClientInput struct {
	Name    string
	Address string
	ZipCode string
	City    string
	Email   string
}

// ClientPatch lists the fields to change on a client. Nil fields are kept.
type ClientPatch struct {
	Name    *string
	Address *string
	ZipCode *string
	City    *string
	Email   *string
}

func (p ClientPatch) Changes(cur *models.Client) map[string]any {
	changes := map[string]any{}
	set := func(column string, v *string, current string) {
		if v != nil && strings.TrimSpace(*v) != current {
			changes[column] = strings.TrimSpace(*v)
		}
	}
	set("name", p.Name, cur.Name)
	set("address", p.Address, cur.Address)
	set("zip_code", p.ZipCode, cur.ZipCode)
	set("city", p.City, cur.City)
	set("email", p.Email, cur.Email)
	return changes
}

type activePatch bool

func (p activePatch) Changes(cur *models.Client) map[string]any {
	if cur.IsActive == bool(p) {
		return nil
	}
	return map[string]any{"is_active": bool(p)}
}

var _ crud.Patch[models.Client] = ClientPatch{}

// CreateClient creates an active client together with its empty basket.
func (l *Ledger) CreateClient(ctx context.Context, in ClientInput) (*models.Client, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	client := &models.Client{
		Name:     name,
		Address:  strings.TrimSpace(in.Address),
		ZipCode:  strings.TrimSpace(in.ZipCode),
		City:     strings.TrimSpace(in.City),
		Email:    strings.TrimSpace(in.Email),
		IsActive: true,
	}
	err := l.inTx(ctx, func(tx *Ledger) error {
		if err := tx.store.Clients.Create(ctx, client); err != nil {
			return err
		}
		basket := &models.Basket{ClientID: client.ID}
		if err := tx.store.Baskets.Create(ctx, basket); err != nil {
			return err
		}
		client.Basket = basket
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.log.Info("client created", zap.Uint("client_id", client.ID), zap.String("code", client.Code()))
	return client, nil
}

func (l *Ledger) GetClient(ctx context.Context, id uint) (*models.Client, error) {
	return l.store.Clients.Get(ctx, id)
}

// ListClients returns the clients ordered by name, optionally the active ones only.
func (l *Ledger) ListClients(ctx context.Context, activeOnly bool) ([]models.Client, error) {
	return l.store.ListClients(ctx, activeOnly)
}

// GetBasket returns the basket of a client with its items.
func (l *Ledger) GetBasket(ctx context.Context, clientID uint) (*models.Basket, error) {
	if _, err := l.store.Clients.Get(ctx, clientID); err != nil {
		return nil, err
	}
	return l.store.BasketOf(ctx, clientID)
}

// UpdateClient renames a client or changes its contact details. A patch equal
// to the stored values writes nothing.
func (l *Ledger) UpdateClient(ctx context.Context, id uint, patch ClientPatch) (*models.Client, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, ErrNameRequired
	}
	client, err := l.store.Clients.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := l.store.Clients.Update(ctx, client, patch); err != nil {
		return nil, err
	}
	return client, nil
}

// SetClientActive activates or deactivates a client. Deactivation empties the
// basket first.
func (l *Ledger) SetClientActive(ctx context.Context, id uint, active bool) (*models.Client, error) {
	var client *models.Client
	err := l.inTx(ctx, func(tx *Ledger) error {
		var err error
		if client, err = tx.store.Clients.Get(ctx, id); err != nil {
			return err
		}
		if !active && client.IsActive {
			basket, err := tx.store.BasketOf(ctx, id)
			if err != nil {
				return err
			}
			if err := tx.clearBasket(ctx, basket); err != nil {
				return err
			}
		}
		_, err = tx.store.Clients.Update(ctx, client, activePatch(active))
		return err
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient removes a client, its basket and its draft invoices. Clients
// with an invoice past DRAFT are kept for the accounting history.
func (l *Ledger) DeleteClient(ctx context.Context, id uint) error {
	return l.inTx(ctx, func(tx *Ledger) error {
		client, err := tx.store.Clients.Get(ctx, id)
		if err != nil {
			return err
		}
		busy, err := tx.store.HasNonDraftInvoices(ctx, id)
		if err != nil {
			return err
		}
		if busy {
			return reject("Client %q has non-draft invoices and cannot be deleted.", client.Name)
		}

		invoices, err := tx.store.FindInvoices(ctx, crud.InvoiceQuery{ClientID: id})
		if err != nil {
			return err
		}
		for i := range invoices {
			if err := tx.dropInvoice(ctx, &invoices[i]); err != nil {
				return err
			}
		}

		basket, err := tx.store.BasketOf(ctx, id)
		if err != nil {
			return err
		}
		for i := range basket.Items {
			if err := tx.store.Items.Delete(ctx, &basket.Items[i]); err != nil {
				return err
			}
		}
		if err := tx.store.Baskets.Delete(ctx, basket); err != nil {
			return err
		}
		if err := tx.store.Clients.Delete(ctx, client); err != nil {
			return err
		}
		tx.log.Info("client deleted", zap.Uint("client_id", id), zap.Int("draft_invoices", len(invoices)))
		return nil
	})
}
