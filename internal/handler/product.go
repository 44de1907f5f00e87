package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/TarcisoJNDev/upuniversestorege/internal/catalog"
)

type ProductResponse struct {
	Success bool             `json:"success"`
	Product *catalog.Product `json:"product"`
}

type ProductListResponse struct {
	Success  bool              `json:"success"`
	Products []catalog.Product `json:"products"`
	Count    int               `json:"count"`
}

type CategoryListResponse struct {
	Success    bool               `json:"success"`
	Categories []catalog.Category `json:"categories"`
}

// ProductHandler exposes the read-only product API the catalog client
// consumes.
type ProductHandler struct {
	service catalog.Service
}

func NewProductHandler(service catalog.Service) *ProductHandler {
	return &ProductHandler{service: service}
}

func (h *ProductHandler) RegisterRoutes(router chi.Router) {
	router.Get("/products", h.handleListProducts)
	router.Get("/products/{id}", h.handleGetProductByID)
	router.Get("/categories", h.handleListCategories)
}

func (h *ProductHandler) handleGetProductByID(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	product, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Produto não encontrado")
			return
		}
		log.Error().Err(err).Int64("product_id", id).Msg("Failed to get product")
		respondWithError(w, http.StatusInternalServerError, "Erro ao buscar produto")
		return
	}

	respondWithJSON(w, http.StatusOK, ProductResponse{Success: true, Product: product})
}

func (h *ProductHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	filter := catalog.ListFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		Featured: r.URL.Query().Get("featured") == "true",
	}
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		filter.Limit = limit
	}

	products, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list products")
		respondWithError(w, http.StatusInternalServerError, "Erro ao buscar produtos")
		return
	}

	respondWithJSON(w, http.StatusOK, ProductListResponse{
		Success:  true,
		Products: products,
		Count:    len(products),
	})
}

func (h *ProductHandler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list categories")
		respondWithError(w, http.StatusInternalServerError, "Erro ao buscar categorias")
		return
	}

	respondWithJSON(w, http.StatusOK, CategoryListResponse{Success: true, Categories: categories})
}
