package backup

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/warung/internal/backup"
)

type Handler struct {
	service *backup.Service
}

func NewHandler(service *backup.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/export", h.export)
	r.Post("/import", h.restore)
}

func (h *Handler) export(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="warung-backup.json"`)

	if err := h.service.Export(w); err != nil {
		slog.Error("failed to write backup export", "error", err)
	}
}

type importResponse struct {
	Products         int  `json:"products"`
	Txns             int  `json:"txns"`
	ReplacedProducts bool `json:"replaced_products"`
	ReplacedTxns     bool `json:"replaced_txns"`
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	sum, err := h.service.Import(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, importResponse{
		Products:         sum.Products,
		Txns:             sum.Txns,
		ReplacedProducts: sum.ReplacedProducts,
		ReplacedTxns:     sum.ReplacedTxns,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
