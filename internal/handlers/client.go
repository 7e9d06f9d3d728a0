package handlers

import (
	"net/http"

	"github.com/diewo77/go-facto/httpx"
	"github.com/diewo77/go-facto/internal/command"
	"github.com/diewo77/go-facto/internal/services"
	"github.com/diewo77/go-facto/validation"
)

// ClientHandler serves clients, their basket and the items they own.
type ClientHandler struct {
	d *command.Dispatcher
}

func NewClientHandler(d *command.Dispatcher) *ClientHandler {
	return &ClientHandler{d: d}
}

type clientRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	ZipCode *string `json:"zip_code"`
	City    *string `json:"city"`
	Email   *string `json:"email"`
}

type quantityRequest struct {
	ServiceID uint `json:"service_id"`
	Quantity  int  `json:"quantity"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := httpx.QueryBool(r, "active", false)
	respond(w, h.d.ListClients(r.Context(), activeOnly), http.StatusOK)
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	v := make(validation.Violations)
	validation.Required("name", str(req.Name), v)
	if !v.Empty() {
		invalid(w, v)
		return
	}
	in := services.ClientInput{
		Name:    str(req.Name),
		Address: str(req.Address),
		ZipCode: str(req.ZipCode),
		City:    str(req.City),
		Email:   str(req.Email),
	}
	respond(w, h.d.CreateClient(r.Context(), in), http.StatusCreated)
}

func (h *ClientHandler) View(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	respond(w, h.d.GetClient(r.Context(), ids[0]), http.StatusOK)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	var req clientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	v := make(validation.Violations)
	if req.Name != nil {
		validation.Required("name", *req.Name, v)
	}
	if !v.Empty() {
		invalid(w, v)
		return
	}
	patch := services.ClientPatch{Name: req.Name, Address: req.Address, ZipCode: req.ZipCode, City: req.City, Email: req.Email}
	respond(w, h.d.UpdateClient(r.Context(), ids[0], patch), http.StatusOK)
}

func (h *ClientHandler) Activate(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	respond(w, h.d.SetClientActive(r.Context(), ids[0], true), http.StatusOK)
}

func (h *ClientHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	respond(w, h.d.SetClientActive(r.Context(), ids[0], false), http.StatusOK)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	respond(w, h.d.DeleteClient(r.Context(), ids[0]), http.StatusNoContent)
}

func (h *ClientHandler) Basket(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	respond(w, h.d.GetBasket(r.Context(), ids[0]), http.StatusOK)
}

func (h *ClientHandler) AddToBasket(w http.ResponseWriter, r *http.Request) {
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
	respond(w, h.d.AddToBasket(r.Context(), ids[0], req.ServiceID, req.Quantity), http.StatusOK)
}

func (h *ClientHandler) RemoveFromBasket(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id", "service_id")
	if !ok {
		return
	}
	respond(w, h.d.RemoveFromBasket(r.Context(), ids[0], ids[1]), http.StatusNoContent)
}

func (h *ClientHandler) ClearBasket(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	respond(w, h.d.ClearBasket(r.Context(), ids[0]), http.StatusOK)
}

func (h *ClientHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id", "item_id")
	if !ok {
		return
	}
	var req quantityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	v := make(validation.Violations)
	validation.PositiveInt("quantity", req.Quantity, v)
	if !v.Empty() {
		invalid(w, v)
		return
	}
	respond(w, h.d.UpdateItemQuantity(r.Context(), ids[0], ids[1], req.Quantity), http.StatusOK)
}

func (h *ClientHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id", "item_id")
	if !ok {
		return
	}
	respond(w, h.d.RemoveItem(r.Context(), ids[0], ids[1]), http.StatusNoContent)
}

// CreateInvoice creates a draft for the client. With ?from_basket=true the
// basket items are moved into it; ?clear_basket=false keeps them shared.
func (h *ClientHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}
	if httpx.QueryBool(r, "from_basket", false) {
		clearBasket := httpx.QueryBool(r, "clear_basket", true)
		respond(w, h.d.InvoiceFromBasket(r.Context(), ids[0], clearBasket), http.StatusCreated)
		return
	}
	respond(w, h.d.CreateInvoice(r.Context(), ids[0]), http.StatusCreated)
}
