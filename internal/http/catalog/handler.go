package catalog

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/warung/internal/catalog"
)

type Handler struct {
	catalog *catalog.Catalog
}

func NewHandler(cat *catalog.Catalog) *Handler {
	return &Handler{catalog: cat}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type productResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	SKU   string `json:"sku"`
	Stock *int   `json:"stock,omitempty"`
}

func toResponse(p catalog.Product) productResponse {
	return productResponse{ID: p.ID, Name: p.Name, Price: p.Price, SKU: p.SKU, Stock: p.Stock}
}

func toResponseList(products []catalog.Product) []productResponse {
	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toResponse(p)
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.List()
	if q := r.URL.Query().Get("q"); q != "" {
		products = h.catalog.Search(q)
	}

	writeJSON(w, http.StatusOK, toResponseList(products))
}

type createProductRequest struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
	SKU   string `json:"sku"`
	Stock *int   `json:"stock"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.Price <= 0 {
		http.Error(w, "name and a positive price are required", http.StatusUnprocessableEntity)
		return
	}

	p := catalog.Product{
		ID:    catalog.NewID(),
		Name:  req.Name,
		Price: req.Price,
		SKU:   req.SKU,
		Stock: req.Stock,
	}
	h.catalog.Add(p)

	writeJSON(w, http.StatusCreated, toResponse(p))
}

type updateProductRequest struct {
	Name  *string `json:"name,omitempty"`
	Price *int64  `json:"price,omitempty"`
	SKU   *string `json:"sku,omitempty"`
	Stock *int    `json:"stock,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Price != nil && *req.Price <= 0 {
		http.Error(w, "price must be positive", http.StatusUnprocessableEntity)
		return
	}

	ok := h.catalog.Update(id, catalog.Patch{
		Name:  req.Name,
		Price: req.Price,
		SKU:   req.SKU,
		Stock: req.Stock,
	})
	if !ok {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	p, _ := h.catalog.Find(id)
	writeJSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	h.catalog.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
