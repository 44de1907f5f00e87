package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/TarcisoJNDev/upuniversestorege/internal/cart"
)

type SaveCartRequest struct {
	Items []CartItemPayload `json:"items" validate:"dive"`
	Total float64           `json:"total"`
	Count int               `json:"count"`
}

type CartItemPayload struct {
	ID               int64    `json:"id" validate:"required,gt=0"`
	Name             string   `json:"name"`
	Price            float64  `json:"price" validate:"gte=0"`
	PromotionalPrice *float64 `json:"promotional_price"`
	ImageURL         string   `json:"image_url"`
	Category         string   `json:"category"`
	Quantity         int      `json:"quantity" validate:"required"`
	Stock            int      `json:"stock"`
}

type CartResponse struct {
	Success bool       `json:"success"`
	Cart    *cart.Cart `json:"cart,omitempty"`
	Message string     `json:"message,omitempty"`
}

type ValidationErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

// CartHandler exposes the cart persistence endpoint consumed by the cart
// store's API client.
type CartHandler struct {
	service  cart.Service
	validate *validator.Validate
}

func NewCartHandler(service cart.Service) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *CartHandler) RegisterRoutes(router chi.Router) {
	router.Get("/cart/{sessionId}", h.handleGetCart)
	router.Post("/cart/{sessionId}", h.handleSaveCart)
	router.Delete("/cart/{sessionId}", h.handleClearCart)
}

func (h *CartHandler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	c, err := h.service.GetCart(r.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to get cart")
		respondWithError(w, mapErrorToStatusCode(err), "Erro ao buscar carrinho")
		return
	}

	respondWithJSON(w, http.StatusOK, CartResponse{Success: true, Cart: c})
}

func (h *CartHandler) handleSaveCart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	var payload SaveCartRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Error().Err(err).Msg("Failed to decode cart payload")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(payload); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Success: false,
				Error:   "Validation failed",
				Details: formatValidationErrors(validationErrors),
			})
			return
		}
		log.Error().Err(err).Msg("Unexpected error during cart validation")
		respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		return
	}

	incoming := &cart.Cart{
		SessionID: sessionID,
		Items:     make([]cart.LineItem, 0, len(payload.Items)),
		Total:     payload.Total,
		Count:     payload.Count,
	}
	for _, item := range payload.Items {
		incoming.Items = append(incoming.Items, cart.LineItem{
			ID:               item.ID,
			Name:             item.Name,
			Price:            item.Price,
			PromotionalPrice: item.PromotionalPrice,
			ImageURL:         item.ImageURL,
			Category:         item.Category,
			Quantity:         item.Quantity,
			Stock:            item.Stock,
		})
	}

	saved, err := h.service.SaveCart(r.Context(), incoming)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to save cart")
		respondWithError(w, mapErrorToStatusCode(err), "Erro ao salvar carrinho")
		return
	}

	respondWithJSON(w, http.StatusOK, CartResponse{
		Success: true,
		Cart:    saved,
		Message: "Carrinho salvo com sucesso",
	})
}

func (h *CartHandler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	if err := h.service.ClearCart(r.Context(), sessionID); err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to clear cart")
		respondWithError(w, mapErrorToStatusCode(err), "Erro ao limpar carrinho")
		return
	}

	respondWithJSON(w, http.StatusOK, CartResponse{Success: true, Message: "Carrinho limpo com sucesso"})
}
