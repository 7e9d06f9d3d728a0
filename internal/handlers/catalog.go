package handlers

import (
	"net/http"

	"github.com/diewo77/go-facto/httpx"
	"github.com/diewo77/go-facto/internal/command"
	"github.com/diewo77/go-facto/internal/services"
	"github.com/diewo77/go-facto/validation"
	"github.com/shopspring/decimal"
)

var (
	zeroRate = decimal.Zero
	fullRate = decimal.NewFromInt(100)
)

type VatRateHandler struct {
	d *command.Dispatcher
}

func NewVatRateHandler(d *command.Dispatcher) *VatRateHandler {
	return &VatRateHandler{d: d}
}

type vatRateRequest struct {
	Name *string          `json:"name"`
	Rate *decimal.Decimal `json:"rate"`
}

func (h *VatRateHandler) List(w http.ResponseWriter, r *http.Request) {
	respond(w, h.d.ListVatRates(r.Context()), http.StatusOK)
}

func (h *VatRateHandler) Default(w http.ResponseWriter, r *http.Request) {
	respond(w, h.d.DefaultVatRate(r.Context()), http.StatusOK)
}

func (h *VatRateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req vatRateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	v := make(validation.Violations)
	in := services.VatRateInput{}
	if req.Name != nil {
		in.Name = *req.Name
	}
	validation.Required("name", in.Name, v)
	if req.Rate == nil {
		v["rate"] = "required"
	} else {
		in.Rate = *req.Rate
		validation.RangeDecimal("rate", in.Rate, zeroRate, fullRate, v)
	}
	if !v.Empty() {
		invalid(w, v)
		return
	}
	respond(w, h.d.CreateVatRate(r.Context(), in), http.StatusCreated)
}

func (h *VatRateHandler) View(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	respond(w, h.d.GetVatRate(r.Context(), ids[0]), http.StatusOK)
}

func (h *VatRateHandler) Update(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	var req vatRateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	v := make(validation.Violations)
	if req.Name != nil {
		validation.Required("name", *req.Name, v)
	}
	if req.Rate != nil {
		validation.RangeDecimal("rate", *req.Rate, zeroRate, fullRate, v)
	}
	if !v.Empty() {
		invalid(w, v)
		return
	}
	patch := services.VatRatePatch{Name: req.Name, Rate: req.Rate}
	respond(w, h.d.UpdateVatRate(r.Context(), ids[0], patch), http.StatusOK)
}

func (h *VatRateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	respond(w, h.d.DeleteVatRate(r.Context(), ids[0]), http.StatusNoContent)
}

func (h *VatRateHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	respond(w, h.d.SetDefaultVatRate(r.Context(), ids[0]), http.StatusOK)
}

// ServiceHandler serves the billable services and their revisions.
type ServiceHandler struct {
	d *command.Dispatcher
}

func NewServiceHandler(d *command.Dispatcher) *ServiceHandler {
	return &ServiceHandler{d: d}
}

type serviceRequest struct {
	Name      *string          `json:"name"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	VatRateID *uint            `json:"vat_rate_id"`
}

func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	respond(w, h.d.ListServices(r.Context()), http.StatusOK)
}

func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	v := make(validation.Violations)
	in := services.ServiceInput{}
	if req.Name != nil {
		in.Name = *req.Name
	}
	validation.Required("name", in.Name, v)
	if req.UnitPrice == nil {
		v["unit_price"] = "required"
	} else {
		in.UnitPrice = *req.UnitPrice
		validation.NonNegativeDecimal("unit_price", in.UnitPrice, v)
	}
	if req.VatRateID != nil {
		in.VatRateID = *req.VatRateID
	}
	if !v.Empty() {
		invalid(w, v)
		return
	}
	respond(w, h.d.CreateService(r.Context(), in), http.StatusCreated)
}

func (h *ServiceHandler) View(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	respond(w, h.d.GetService(r.Context(), ids[0]), http.StatusOK)
}

func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	var req serviceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	v := make(validation.Violations)
	if req.Name != nil {
		validation.Required("name", *req.Name, v)
	}
	if req.UnitPrice != nil {
		validation.NonNegativeDecimal("unit_price", *req.UnitPrice, v)
	}
	if req.VatRateID != nil {
		validation.RequiredID("vat_rate_id", *req.VatRateID, v)
	}
	if !v.Empty() {
		invalid(w, v)
		return
	}
	patch := services.ServicePatch{Name: req.Name, UnitPrice: req.UnitPrice, VatRateID: req.VatRateID}
	respond(w, h.d.UpdateService(r.Context(), ids[0], patch), http.StatusOK)
}

func (h *ServiceHandler) History(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	respond(w, h.d.ServiceHistory(r.Context(), ids[0]), http.StatusOK)
}

func (h *ServiceHandler) Revision(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	respond(w, h.d.GetRevision(r.Context(), ids[0]), http.StatusOK)
}
