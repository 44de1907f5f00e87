package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TarcisoJNDev/upuniversestorege/internal/cart"
	"github.com/TarcisoJNDev/upuniversestorege/internal/catalog"
	"github.com/TarcisoJNDev/upuniversestorege/internal/handler"
)

// NewRouter wires repositories, services and handlers under /api.
func NewRouter(pool *pgxpool.Pool) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	cartRepo := cart.NewRepository(pool)
	cartSvc := cart.NewService(cartRepo)
	cartHandler := handler.NewCartHandler(cartSvc)

	catalogRepo := catalog.NewRepository(pool)
	catalogSvc := catalog.NewService(catalogRepo)
	productHandler := handler.NewProductHandler(catalogSvc)

	r.Route("/api", func(api chi.Router) {
		cartHandler.RegisterRoutes(api)
		productHandler.RegisterRoutes(api)
	})

	return r
}
