// Package rest serves the demo catalog data over HTTP.
package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	berrors "github.com/abgdnv/storefront/internal/backend/errors"
	"github.com/abgdnv/storefront/internal/backend/store"
	"github.com/abgdnv/storefront/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// StockUpdateDto is the body of a stock update.
type StockUpdateDto struct {
	Stock *int `json:"stock" validate:"required,gte=0"`
}

type Handler struct {
	store    store.ProductStore
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a handler serving products from s.
func NewHandler(s store.ProductStore, logger *slog.Logger) *Handler {
	return &Handler{
		store:    s,
		validate: validator.New(),
		logger:   logger.With("component", "backend-rest"),
	}
}

// RegisterRoutes registers the data source routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.FindAll)
		r.Get("/stock", h.Stock)
		r.Put("/products/{id}/stock", h.UpdateStock)
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindAll returns the product list.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.FindAll(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(products))
	web.RespondJSON(w, h.logger, http.StatusOK, products)
}

// Stock returns the current stock levels.
func (h *Handler) Stock(w http.ResponseWriter, r *http.Request) {
	levels, err := h.store.Stock(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error retrieving stock levels", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to fetch stock")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, levels)
}

// UpdateStock sets the stock of one product.
func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var dto StockUpdateDto
	if !web.DecodeValid(w, r, h.logger, h.validate, &dto) {
		return
	}

	updated, err := h.store.UpdateStock(r.Context(), id, *dto.Stock)
	if err != nil {
		if errors.Is(err, berrors.ErrProductNotFound) {
			h.logger.WarnContext(r.Context(), "Product not found for stock update", "ID", id)
			web.RespondError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		h.logger.ErrorContext(r.Context(), "Error updating stock for product", "ID", id, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Sprintf("Failed to update stock for product with ID %s", id))
		return
	}
	h.logger.InfoContext(r.Context(), "Stock updated successfully for product", "ID", updated.ID, "NewStock", updated.Stock)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
