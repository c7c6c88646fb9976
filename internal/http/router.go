package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/warung/internal/http/backup"
	"github.com/MrJamesThe3rd/warung/internal/http/catalog"
	"github.com/MrJamesThe3rd/warung/internal/http/history"
	"github.com/MrJamesThe3rd/warung/internal/http/register"
)

func New(
	catalogV1 *catalog.Handler,
	registerV1 *register.Handler,
	historyV1 *history.Handler,
	backupV1 *backup.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			catalogV1.Routes(r)
		})

		r.Route("/cart", registerV1.CartRoutes)
		r.Post("/checkout", registerV1.Checkout)

		r.Route("/transactions", func(r chi.Router) {
			historyV1.Routes(r)
		})

		r.Route("/backup", backupV1.Routes)
	})

	return router
}
