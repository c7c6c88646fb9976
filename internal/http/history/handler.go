package history

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/warung/internal/ledger"
)

type Handler struct {
	ledger *ledger.Ledger
}

func NewHandler(led *ledger.Ledger) *Handler {
	return &Handler{ledger: led}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

type transactionResponse struct {
	ID    string        `json:"id"`
	Date  time.Time     `json:"date"`
	Items []ledger.Item `json:"items"`
	Total int64         `json:"total"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var filter ledger.Filter

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		start, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		filter.Start = &start
	}

	if raw := r.URL.Query().Get("end_date"); raw != "" {
		end, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		filter.End = &end
	}

	txns := h.ledger.List(filter)
	resp := make([]transactionResponse, len(txns))

	for i, t := range txns {
		resp[i] = transactionResponse{ID: t.ID, Date: t.Date, Items: t.Items, Total: t.Total}
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
