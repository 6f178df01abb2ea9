// Package rest exposes a storefront session as a JSON view API.
package rest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/storefront/internal/catalog"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Reloader restarts the initial product load.
type Reloader interface {
	Load()
}

type Handler struct {
	reloader Reloader
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates the view API handler. The session store is taken from the request context.
func NewHandler(reloader Reloader, logger *slog.Logger) *Handler {
	return &Handler{
		reloader: reloader,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// WithStore binds s to every request passing through the middleware.
func WithStore(s *store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(store.WithStore(r.Context(), s)))
		})
	}
}

// RegisterRoutes registers the view API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", h.Catalog)
			r.Get("/products", h.Products)
			r.Get("/categories", h.Categories)
			r.Get("/filters", h.Filters)
			r.Patch("/filters", h.PatchFilters)
			r.Post("/reload", h.Reload)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddItem)
			r.Put("/items/{id}", h.SetQty)
			r.Delete("/items/{id}", h.RemoveItem)
		})
		r.Get("/events", h.Events)
	})

	r.Get("/healthz", h.HealthCheck)
}

// session returns the store bound to the request, answering 503 when there is none.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*store.Store, bool) {
	s, err := store.FromContext(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Request outside of a session", "error", err)
		web.RespondError(w, h.logger, http.StatusServiceUnavailable, "No active session")
		return nil, false
	}
	return s, true
}

func catalogView(s *store.Store) CatalogView {
	state := s.State()
	view := CatalogView{
		Loading:      state.Loading,
		Filters:      state.Filters,
		ProductCount: len(state.Products),
		ItemCount:    catalog.ItemCount(state.Cart),
		Total:        catalog.Total(state.Cart),
	}
	if state.Error != "" {
		msg := state.Error
		view.Error = &msg
	}
	return view
}

func cartView(s *store.Store) CartView {
	cart := s.State().Cart
	return CartView{
		Items:     catalog.Entries(cart),
		ItemCount: catalog.ItemCount(cart),
		Total:     catalog.Total(cart),
	}
}

// Catalog returns the catalog summary.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, catalogView(s))
}

// Products returns the products matching the current filters, optionally paged with limit and offset.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	limit, ok := web.QueryIntGt(r, w, h.logger, "limit", 0, 0)
	if !ok {
		return
	}
	offset, ok := web.QueryIntGte(r, w, h.logger, "offset", 0, 0)
	if !ok {
		return
	}

	filtered := s.Filtered()
	page := filtered[min(offset, len(filtered)):]
	if limit > 0 && limit < len(page) {
		page = page[:limit]
	}
	h.logger.DebugContext(r.Context(), "Filtered products", "matching", len(filtered), "returned", len(page))
	web.RespondJSON(w, h.logger, http.StatusOK, page)
}

// Categories returns the distinct product categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, s.Categories())
}

// Filters returns the current filter criteria.
func (h *Handler) Filters(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, s.State().Filters)
}

// PatchFilters merges the supplied fields into the current filters.
func (h *Handler) PatchFilters(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var dto FilterPatchDto
	if !web.DecodeValid(w, r, h.logger, h.validate, &dto) {
		return
	}
	patch, err := dto.toPatch()
	if err != nil {
		h.logger.WarnContext(r.Context(), "Invalid filter patch", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	s.SetFilters(patch)
	web.RespondJSON(w, h.logger, http.StatusOK, s.State().Filters)
}

// Reload restarts the initial product load.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); !ok {
		return
	}
	h.logger.InfoContext(r.Context(), "Catalog reload requested")
	h.reloader.Load()
	w.WriteHeader(http.StatusAccepted)
}

// Cart returns the cart contents.
func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, cartView(s))
}

// AddItem puts units of a loaded product in the cart. The quantity is capped at the stock.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var dto AddItemDto
	if !web.DecodeValid(w, r, h.logger, h.validate, &dto) {
		return
	}

	product, found := findProduct(s.State().Products, dto.ProductID)
	if !found {
		h.logger.WarnContext(r.Context(), "Product not found", "ID", dto.ProductID)
		web.RespondError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", dto.ProductID))
		return
	}
	qty := 1
	if dto.Qty != nil {
		qty = *dto.Qty
	}
	s.Add(product, qty)
	h.logger.DebugContext(r.Context(), "Product added to cart", "ID", product.ID, "qty", qty)
	web.RespondJSON(w, h.logger, http.StatusOK, cartView(s))
}

// SetQty sets the quantity of a cart entry. Unknown entries are left alone.
func (h *Handler) SetQty(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var dto SetQtyDto
	if !web.DecodeValid(w, r, h.logger, h.validate, &dto) {
		return
	}
	s.SetQty(chi.URLParam(r, "id"), *dto.Qty)
	web.RespondJSON(w, h.logger, http.StatusOK, cartView(s))
}

// RemoveItem drops a cart entry.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Remove(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// Events streams the catalog summary as server-sent events: once on connect and again
// after every state change, until the client goes away or the session ends.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Streaming unsupported")
		return
	}
	changes, unsubscribe := s.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for {
		if err := writeEvent(w, catalogView(s)); err != nil {
			h.logger.DebugContext(r.Context(), "Event stream closed", "error", err)
			return
		}
		flusher.Flush()

		select {
		case <-r.Context().Done():
			return
		case _, open := <-changes:
			if !open {
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, view CatalogView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: catalog\ndata: %s\n\n", data)
	return err
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func findProduct(products []catalog.Product, id string) (catalog.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Product{}, false
}
