package handlers

import (
	"net/http"
	"time"

	"github.com/diewo77/go-facto/httpx"
	"github.com/diewo77/go-facto/internal/command"
	"github.com/diewo77/go-facto/internal/models"
	"github.com/diewo77/go-facto/internal/services"
	"github.com/diewo77/go-facto/validation"
)

var periodFilters = []models.PeriodFilter{
	models.FilterCurrentMonth,
	models.FilterCurrentQuarter,
	models.FilterCurrentYear,
	models.FilterLastMonth,
	models.FilterLastQuarter,
	models.FilterLastYear,
}

// InvoiceHandler serves invoices, their items and their status history.
type InvoiceHandler struct {
	d *command.Dispatcher
}

func NewInvoiceHandler(d *command.Dispatcher) *InvoiceHandler {
	return &InvoiceHandler{d: d}
}

type statusRequest struct {
	Status models.InvoiceStatus `json:"status"`
}

type windowRequest struct {
	From time.Time  `json:"from"`
	To   *time.Time `json:"to"`
}

// List filters by ?client_id, ?status and either ?period (CURRENT_MONTH, ...)
// or a ?from/?to date range.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v := make(validation.Violations)
	f := services.InvoiceFilter{ClientID: queryUint(r, "client_id", v)}

	if raw := q.Get("status"); raw != "" {
		status := models.InvoiceStatus(raw)
		validation.OneOf("status", status, models.InvoiceStatuses, v)
		f.Status = &status
	}
	if raw := q.Get("period"); raw != "" {
		filter := models.PeriodFilter(raw)
		validation.OneOf("period", filter, periodFilters, v)
		f.Filter = &filter
	}
	from := queryDate(r, "from", false, v)
	to := queryDate(r, "to", true, v)
	if !from.IsZero() || !to.IsZero() {
		f.Period = &models.Period{Start: from, End: to}
	}
	if !v.Empty() {
		invalid(w, v)
		return
	}
	respond(w, h.d.ListInvoices(r.Context(), f), http.StatusOK)
}

func (h *InvoiceHandler) View(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	respond(w, h.d.GetInvoice(r.Context(), ids[0]), http.StatusOK)
}

func (h *InvoiceHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	var req quantityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	v := make(validation.Violations)
	validation.RequiredID("service_id", req.ServiceID, v)
	validation.PositiveInt("quantity", req.Quantity, v)
	if !v.Empty() {
		invalid(w, v)
		return
	}
	respond(w, h.d.AddToInvoice(r.Context(), ids[0], req.ServiceID, req.Quantity), http.StatusCreated)
}

func (h *InvoiceHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	respond(w, h.d.ClearInvoice(r.Context(), ids[0]), http.StatusOK)
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	respond(w, h.d.DeleteInvoice(r.Context(), ids[0]), http.StatusNoContent)
}

func (h *InvoiceHandler) MoveToBasket(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	clearBasket := httpx.QueryBool(r, "clear_basket", false)
	respond(w, h.d.MoveInBasket(r.Context(), ids[0], clearBasket), http.StatusOK)
}

func (h *InvoiceHandler) CopyToBasket(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	clearBasket := httpx.QueryBool(r, "clear_basket", false)
	respond(w, h.d.CopyInBasket(r.Context(), ids[0], clearBasket), http.StatusOK)
}

func (h *InvoiceHandler) MarkAs(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	v := make(validation.Violations)
	validation.OneOf("status", req.Status, models.InvoiceStatuses, v)
	if !v.Empty() {
		invalid(w, v)
		return
	}
	respond(w, h.d.MarkAs(r.Context(), ids[0], req.Status), http.StatusOK)
}

func (h *InvoiceHandler) Revert(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	respond(w, h.d.RevertStatus(r.Context(), ids[0]), http.StatusOK)
}

func (h *InvoiceHandler) History(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	respond(w, h.d.StatusHistory(r.Context(), ids[0]), http.StatusOK)
}

// UpdateHistory takes an object keyed by status, e.g.
// {"DRAFT": {"from": "...", "to": "..."}, "EMITTED": {"from": "..."}}.
func (h *InvoiceHandler) UpdateHistory(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	var req map[models.InvoiceStatus]windowRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	v := make(validation.Violations)
	windows := make(map[models.InvoiceStatus]services.Window, len(req))
	for status, win := range req {
		validation.OneOf(string(status), status, models.InvoiceStatuses, v)
		windows[status] = services.Window{From: win.From, To: win.To}
	}
	if len(req) == 0 {
		v["history"] = "required"
	}
	if !v.Empty() {
		invalid(w, v)
		return
	}
	respond(w, h.d.UpdateStatusHistory(r.Context(), ids[0], windows), http.StatusOK)
}

// Summary reports pending payments and sales, optionally restricted to a
// ?period or a ?from/?to range.
func (h *InvoiceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	v := make(validation.Violations)
	var period *models.Period
	if raw := r.URL.Query().Get("period"); raw != "" {
		filter := models.PeriodFilter(raw)
		p, err := filter.Period(time.Now())
		if err != nil {
			v["period"] = "invalid_choice"
		}
		period = &p
	}
	from := queryDate(r, "from", false, v)
	to := queryDate(r, "to", true, v)
	if !from.IsZero() || !to.IsZero() {
		if period != nil {
			v["period"] = "conflicts_with_range"
		}
		period = &models.Period{Start: from, End: to}
	}
	if !v.Empty() {
		invalid(w, v)
		return
	}
	respond(w, h.d.Summary(r.Context(), period), http.StatusOK)
}
