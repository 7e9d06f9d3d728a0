package handlers

import (
	"net/http"

	"github.com/diewo77/go-facto/internal/command"
)

// Register mounts the JSON API on mux.
func Register(mux *http.ServeMux, d *command.Dispatcher) {
	vh := NewVatRateHandler(d)
	sh := NewServiceHandler(d)
	ch := NewClientHandler(d)
	ih := NewInvoiceHandler(d)

	// ─────────────────────────────────────────────────────────────────────────
	// VAT rates
	// ─────────────────────────────────────────────────────────────────────────
	mux.HandleFunc("GET /vat-rates", vh.List)
	mux.HandleFunc("POST /vat-rates", vh.Create)
	mux.HandleFunc("GET /vat-rates/default", vh.Default)
	mux.HandleFunc("GET /vat-rates/{id}", vh.View)
	mux.HandleFunc("PATCH /vat-rates/{id}", vh.Update)
	mux.HandleFunc("DELETE /vat-rates/{id}", vh.Delete)
	mux.HandleFunc("POST /vat-rates/{id}/default", vh.SetDefault)

	// ─────────────────────────────────────────────────────────────────────────
	// Services
	// ─────────────────────────────────────────────────────────────────────────
	mux.HandleFunc("GET /services", sh.List)
	mux.HandleFunc("POST /services", sh.Create)
	mux.HandleFunc("GET /services/{id}", sh.View)
	mux.HandleFunc("PATCH /services/{id}", sh.Update)
	mux.HandleFunc("GET /services/{id}/revisions", sh.History)
	mux.HandleFunc("GET /revisions/{id}", sh.Revision)

	// ─────────────────────────────────────────────────────────────────────────
	// Clients, baskets and items
	// ─────────────────────────────────────────────────────────────────────────
	mux.HandleFunc("GET /clients", ch.List)
	mux.HandleFunc("POST /clients", ch.Create)
	mux.HandleFunc("GET /clients/{id}", ch.View)
	mux.HandleFunc("PATCH /clients/{id}", ch.Update)
	mux.HandleFunc("DELETE /clients/{id}", ch.Delete)
	mux.HandleFunc("POST /clients/{id}/activate", ch.Activate)
	mux.HandleFunc("POST /clients/{id}/deactivate", ch.Deactivate)
	mux.HandleFunc("GET /clients/{id}/basket", ch.Basket)
	mux.HandleFunc("POST /clients/{id}/basket", ch.AddToBasket)
	mux.HandleFunc("DELETE /clients/{id}/basket", ch.ClearBasket)
	mux.HandleFunc("DELETE /clients/{id}/basket/services/{service_id}", ch.RemoveFromBasket)
	mux.HandleFunc("PATCH /clients/{id}/items/{item_id}", ch.UpdateItem)
	mux.HandleFunc("DELETE /clients/{id}/items/{item_id}", ch.RemoveItem)
	mux.HandleFunc("POST /clients/{id}/invoices", ch.CreateInvoice)

	// ─────────────────────────────────────────────────────────────────────────
	// Invoices
	// ─────────────────────────────────────────────────────────────────────────
	mux.HandleFunc("GET /invoices", ih.List)
	mux.HandleFunc("GET /invoices/summary", ih.Summary)
	mux.HandleFunc("GET /invoices/{id}", ih.View)
	mux.HandleFunc("DELETE /invoices/{id}", ih.Delete)
	mux.HandleFunc("POST /invoices/{id}/items", ih.AddItem)
	mux.HandleFunc("DELETE /invoices/{id}/items", ih.Clear)
	mux.HandleFunc("POST /invoices/{id}/move-to-basket", ih.MoveToBasket)
	mux.HandleFunc("POST /invoices/{id}/copy-to-basket", ih.CopyToBasket)
	mux.HandleFunc("POST /invoices/{id}/status", ih.MarkAs)
	mux.HandleFunc("POST /invoices/{id}/status/revert", ih.Revert)
	mux.HandleFunc("GET /invoices/{id}/history", ih.History)
	mux.HandleFunc("PUT /invoices/{id}/history", ih.UpdateHistory)
}
