package register

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/warung/internal/cart"
	"github.com/MrJamesThe3rd/warung/internal/checkout"
	"github.com/MrJamesThe3rd/warung/internal/receipt"
)

type Handler struct {
	cart     *cart.Cart
	engine   *checkout.Engine
	renderer *receipt.Renderer
}

func NewHandler(c *cart.Cart, engine *checkout.Engine, renderer *receipt.Renderer) *Handler {
	return &Handler{cart: c, engine: engine, renderer: renderer}
}

func (h *Handler) CartRoutes(r chi.Router) {
	r.Get("/", h.show)
	r.Post("/items", h.addItem)
	r.Post("/items/{id}/increment", h.increment)
	r.Post("/items/{id}/decrement", h.decrement)
	r.Delete("/", h.clear)
}

type cartResponse struct {
	Lines    []cart.Line `json:"lines"`
	Subtotal int64       `json:"subtotal"`
	Count    int         `json:"count"`
}

func (h *Handler) snapshot() cartResponse {
	subtotal, count := h.cart.Totals()

	return cartResponse{Lines: h.cart.Lines(), Subtotal: subtotal, Count: count}
}

func (h *Handler) show(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.snapshot())
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !h.cart.AddItem(req.ProductID, req.Qty) {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, h.snapshot())
}

func (h *Handler) increment(w http.ResponseWriter, r *http.Request) {
	h.cart.Increment(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, h.snapshot())
}

func (h *Handler) decrement(w http.ResponseWriter, r *http.Request) {
	h.cart.Decrement(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, h.snapshot())
}

func (h *Handler) clear(w http.ResponseWriter, _ *http.Request) {
	h.cart.Clear()
	w.WriteHeader(http.StatusNoContent)
}

type checkoutResponse struct {
	ID      string `json:"id"`
	Total   int64  `json:"total"`
	Receipt string `json:"receipt"`
}

// Checkout commits the current cart as a transaction and returns the rendered
// receipt alongside it. An empty cart is a conflict, not a server error.
func (h *Handler) Checkout(w http.ResponseWriter, _ *http.Request) {
	txn, err := h.engine.Checkout()
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusCreated, checkoutResponse{
		ID:      txn.ID,
		Total:   txn.Total,
		Receipt: h.renderer.Render(txn),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
