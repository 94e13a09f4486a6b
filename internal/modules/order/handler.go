package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/storefront-api/internal/modules/cart"
)

// Handler exposes order HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Post("/", h.placeOrder)                     // POST  /api/v1/orders
		r.Get("/{id}", h.getOrder)                    // GET   /api/v1/orders/{id}
		r.Get("/number/{number}", h.getOrderByNumber) // GET   /api/v1/orders/number/{number}
		r.Patch("/{id}/status", h.updateStatus)       // PATCH /api/v1/orders/{id}/status
		r.Post("/{id}/cancel", h.cancelOrder)         // POST  /api/v1/orders/{id}/cancel
		r.Get("/cart/{cart_id}", h.listCartOrders)    // GET   /api/v1/orders/cart/{cart_id}
	})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	o, err := h.service.PlaceOrder(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, o)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) getOrderByNumber(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrderByNumber(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	o, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CancelOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "order cancelled"})
}

func (h *Handler) listCartOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListCartOrders(r.Context(), chi.URLParam(r, "cart_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	if orders == nil {
		orders = []*Order{}
	}
	respond(w, http.StatusOK, orders)
}

func respondError(w http.ResponseWriter, err error) {
	var invalid *CartInvalidError
	if errors.As(err, &invalid) {
		respond(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  ErrCartInvalid.Error(),
			"errors": invalid.Errors,
		})
		return
	}
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrOrderNotFound), errors.Is(err, cart.ErrCartNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrEmptyCart):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidRequest):
		code = http.StatusBadRequest
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
