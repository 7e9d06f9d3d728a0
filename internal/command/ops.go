package command

import (
	"context"

	"github.com/diewo77/go-facto/internal/models"
	"github.com/diewo77/go-facto/internal/services"
)

// ─────────────────────────────────────────────────────────────────────────────
// VAT rates
// ─────────────────────────────────────────────────────────────────────────────

func (d *Dispatcher) CreateVatRate(ctx context.Context, in services.VatRateInput) Response[*models.VatRate] {
	return Do(ctx, d, "CREATE_VAT_RATE", func(l *services.Ledger) (*models.VatRate, error) {
		return l.CreateVatRate(ctx, in)
	})
}

func (d *Dispatcher) GetVatRate(ctx context.Context, id uint) Response[*models.VatRate] {
	return Do(ctx, d, "GET_VAT_RATE", func(l *services.Ledger) (*models.VatRate, error) {
		return l.GetVatRate(ctx, id)
	})
}

func (d *Dispatcher) ListVatRates(ctx context.Context) Response[[]models.VatRate] {
	return Do(ctx, d, "LIST_VAT_RATES", func(l *services.Ledger) ([]models.VatRate, error) {
		return l.ListVatRates(ctx)
	})
}

func (d *Dispatcher) DefaultVatRate(ctx context.Context) Response[*models.VatRate] {
	return Do(ctx, d, "GET_DEFAULT_VAT_RATE", func(l *services.Ledger) (*models.VatRate, error) {
		return l.DefaultVatRate(ctx)
	})
}

func (d *Dispatcher) UpdateVatRate(ctx context.Context, id uint, patch services.VatRatePatch) Response[*models.VatRate] {
	return Do(ctx, d, "UPDATE_VAT_RATE", func(l *services.Ledger) (*models.VatRate, error) {
		return l.UpdateVatRate(ctx, id, patch)
	})
}

func (d *Dispatcher) DeleteVatRate(ctx context.Context, id uint) Response[struct{}] {
	return Exec(ctx, d, "DELETE_VAT_RATE", func(l *services.Ledger) error {
		return l.DeleteVatRate(ctx, id)
	})
}

func (d *Dispatcher) SetDefaultVatRate(ctx context.Context, id uint) Response[*models.VatRate] {
	return Do(ctx, d, "SET_DEFAULT_VAT_RATE", func(l *services.Ledger) (*models.VatRate, error) {
		return l.SetDefaultVatRate(ctx, id)
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Services
// ─────────────────────────────────────────────────────────────────────────────

func (d *Dispatcher) CreateService(ctx context.Context, in services.ServiceInput) Response[*models.Service] {
	return Do(ctx, d, "CREATE_SERVICE", func(l *services.Ledger) (*models.Service, error) {
		return l.CreateService(ctx, in)
	})
}

func (d *Dispatcher) UpdateService(ctx context.Context, id uint, patch services.ServicePatch) Response[*models.Service] {
	return Do(ctx, d, "UPDATE_SERVICE", func(l *services.Ledger) (*models.Service, error) {
		return l.UpdateService(ctx, id, patch)
	})
}

func (d *Dispatcher) GetService(ctx context.Context, id uint) Response[*models.Service] {
	return Do(ctx, d, "GET_SERVICE", func(l *services.Ledger) (*models.Service, error) {
		return l.GetService(ctx, id)
	})
}

func (d *Dispatcher) ListServices(ctx context.Context) Response[[]models.Service] {
	return Do(ctx, d, "LIST_SERVICES", func(l *services.Ledger) ([]models.Service, error) {
		return l.ListServices(ctx)
	})
}

func (d *Dispatcher) GetRevision(ctx context.Context, id uint) Response[*models.ServiceRevision] {
	return Do(ctx, d, "GET_REVISION", func(l *services.Ledger) (*models.ServiceRevision, error) {
		return l.GetRevision(ctx, id)
	})
}

func (d *Dispatcher) ServiceHistory(ctx context.Context, id uint) Response[[]models.ServiceRevision] {
	return Do(ctx, d, "SERVICE_HISTORY", func(l *services.Ledger) ([]models.ServiceRevision, error) {
		return l.ServiceHistory(ctx, id)
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Clients and baskets
// ─────────────────────────────────────────────────────────────────────────────

func (d *Dispatcher) CreateClient(ctx context.Context, in services.ClientInput) Response[*models.Client] {
	return Do(ctx, d, "CREATE_CLIENT", func(l *services.Ledger) (*models.Client, error) {
		return l.CreateClient(ctx, in)
	})
}

func (d *Dispatcher) GetClient(ctx context.Context, id uint) Response[*models.Client] {
	return Do(ctx, d, "GET_CLIENT", func(l *services.Ledger) (*models.Client, error) {
		return l.GetClient(ctx, id)
	})
}

func (d *Dispatcher) ListClients(ctx context.Context, activeOnly bool) Response[[]models.Client] {
	return Do(ctx, d, "LIST_CLIENTS", func(l *services.Ledger) ([]models.Client, error) {
		return l.ListClients(ctx, activeOnly)
	})
}

func (d *Dispatcher) UpdateClient(ctx context.Context, id uint, patch services.ClientPatch) Response[*models.Client] {
	return Do(ctx, d, "UPDATE_CLIENT", func(l *services.Ledger) (*models.Client, error) {
		return l.UpdateClient(ctx, id, patch)
	})
}

func (d *Dispatcher) SetClientActive(ctx context.Context, id uint, active bool) Response[*models.Client] {
	op := "DEACTIVATE_CLIENT"
	if active {
		op = "ACTIVATE_CLIENT"
	}
	return Do(ctx, d, op, func(l *services.Ledger) (*models.Client, error) {
		return l.SetClientActive(ctx, id, active)
	})
}

func (d *Dispatcher) DeleteClient(ctx context.Context, id uint) Response[struct{}] {
	return Exec(ctx, d, "DELETE_CLIENT", func(l *services.Ledger) error {
		return l.DeleteClient(ctx, id)
	})
}

func (d *Dispatcher) GetBasket(ctx context.Context, clientID uint) Response[*models.Basket] {
	return Do(ctx, d, "GET_BASKET", func(l *services.Ledger) (*models.Basket, error) {
		return l.GetBasket(ctx, clientID)
	})
}

func (d *Dispatcher) AddToBasket(ctx context.Context, clientID, serviceID uint, qty int) Response[*models.Item] {
	return Do(ctx, d, "ADD_TO_BASKET", func(l *services.Ledger) (*models.Item, error) {
		return l.AddToBasket(ctx, clientID, serviceID, qty)
	})
}

func (d *Dispatcher) RemoveFromBasket(ctx context.Context, clientID, serviceID uint) Response[struct{}] {
	return Exec(ctx, d, "REMOVE_FROM_BASKET", func(l *services.Ledger) error {
		return l.RemoveFromBasket(ctx, clientID, serviceID)
	})
}

func (d *Dispatcher) ClearBasket(ctx context.Context, clientID uint) Response[*models.Basket] {
	return Do(ctx, d, "CLEAR_BASKET", func(l *services.Ledger) (*models.Basket, error) {
		return l.ClearBasket(ctx, clientID)
	})
}

func (d *Dispatcher) UpdateItemQuantity(ctx context.Context, clientID, itemID uint, qty int) Response[*models.Item] {
	return Do(ctx, d, "UPDATE_ITEM", func(l *services.Ledger) (*models.Item, error) {
		return l.UpdateItemQuantity(ctx, clientID, itemID, qty)
	})
}

func (d *Dispatcher) RemoveItem(ctx context.Context, clientID, itemID uint) Response[struct{}] {
	return Exec(ctx, d, "REMOVE_ITEM", func(l *services.Ledger) error {
		return l.RemoveItem(ctx, clientID, itemID)
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Invoices
// ─────────────────────────────────────────────────────────────────────────────

func (d *Dispatcher) CreateInvoice(ctx context.Context, clientID uint) Response[*models.Invoice] {
	return Do(ctx, d, "CREATE_INVOICE", func(l *services.Ledger) (*models.Invoice, error) {
		return l.CreateInvoice(ctx, clientID)
	})
}

func (d *Dispatcher) InvoiceFromBasket(ctx context.Context, clientID uint, clearBasket bool) Response[*models.Invoice] {
	return Do(ctx, d, "INVOICE_FROM_BASKET", func(l *services.Ledger) (*models.Invoice, error) {
		return l.InvoiceFromBasket(ctx, clientID, clearBasket)
	})
}

func (d *Dispatcher) AddToInvoice(ctx context.Context, invoiceID, serviceID uint, qty int) Response[*models.Item] {
	return Do(ctx, d, "ADD_TO_INVOICE", func(l *services.Ledger) (*models.Item, error) {
		return l.AddToInvoice(ctx, invoiceID, serviceID, qty)
	})
}

func (d *Dispatcher) GetInvoice(ctx context.Context, id uint) Response[*models.Invoice] {
	return Do(ctx, d, "GET_INVOICE", func(l *services.Ledger) (*models.Invoice, error) {
		return l.GetInvoice(ctx, id)
	})
}

func (d *Dispatcher) ListInvoices(ctx context.Context, f services.InvoiceFilter) Response[[]models.Invoice] {
	return Do(ctx, d, "LIST_INVOICES", func(l *services.Ledger) ([]models.Invoice, error) {
		return l.ListInvoices(ctx, f)
	})
}

func (d *Dispatcher) ClearInvoice(ctx context.Context, id uint) Response[*models.Invoice] {
	return Do(ctx, d, "CLEAR_INVOICE", func(l *services.Ledger) (*models.Invoice, error) {
		return l.ClearInvoice(ctx, id)
	})
}

func (d *Dispatcher) DeleteInvoice(ctx context.Context, id uint) Response[struct{}] {
	return Exec(ctx, d, "DELETE_INVOICE", func(l *services.Ledger) error {
		return l.DeleteInvoice(ctx, id)
	})
}

func (d *Dispatcher) MoveInBasket(ctx context.Context, id uint, clearBasket bool) Response[*models.Basket] {
	return Do(ctx, d, "MOVE_TO_BASKET", func(l *services.Ledger) (*models.Basket, error) {
		return l.MoveInBasket(ctx, id, clearBasket)
	})
}

func (d *Dispatcher) CopyInBasket(ctx context.Context, id uint, clearBasket bool) Response[*models.Basket] {
	return Do(ctx, d, "COPY_TO_BASKET", func(l *services.Ledger) (*models.Basket, error) {
		return l.CopyInBasket(ctx, id, clearBasket)
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Status lifecycle and reports
// ─────────────────────────────────────────────────────────────────────────────

func (d *Dispatcher) MarkAs(ctx context.Context, id uint, status models.InvoiceStatus) Response[*models.Invoice] {
	return Do(ctx, d, "MARK_AS", func(l *services.Ledger) (*models.Invoice, error) {
		return l.MarkAs(ctx, id, status)
	})
}

func (d *Dispatcher) RevertStatus(ctx context.Context, id uint) Response[*models.Invoice] {
	return Do(ctx, d, "REVERT_STATUS", func(l *services.Ledger) (*models.Invoice, error) {
		return l.RevertStatus(ctx, id)
	})
}

func (d *Dispatcher) StatusHistory(ctx context.Context, id uint) Response[[]models.StatusLog] {
	return Do(ctx, d, "STATUS_HISTORY", func(l *services.Ledger) ([]models.StatusLog, error) {
		return l.StatusHistory(ctx, id)
	})
}

func (d *Dispatcher) UpdateStatusHistory(ctx context.Context, id uint, windows map[models.InvoiceStatus]services.Window) Response[*models.Invoice] {
	return Do(ctx, d, "UPDATE_HISTORY", func(l *services.Ledger) (*models.Invoice, error) {
		return l.UpdateStatusHistory(ctx, id, windows)
	})
}

func (d *Dispatcher) Summary(ctx context.Context, period *models.Period) Response[*services.SalesSummary] {
	return Do(ctx, d, "SUMMARY", func(l *services.Ledger) (*services.SalesSummary, error) {
		return l.Summary(ctx, period)
	})
}
