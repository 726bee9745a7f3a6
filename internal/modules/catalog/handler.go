package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/printa-dashboard/internal/apperr"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct {
	service Service
	now     func() time.Time
}

func NewHandler(service Service) *Handler { return &Handler{service: service, now: time.Now} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", h.listProducts) // ?category=...&low_stock=true&in_stock=true
		r.Get("/products/{id}", h.getProduct)
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		Category:     q.Get("category"),
		LowStockOnly: q.Get("low_stock") == "true",
		InStockOnly:  q.Get("in_stock") == "true",
	}
	respond(w, http.StatusOK, h.service.ListProducts(filter))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.respondError(w, apperr.Validation("id", "invalid product id"))
		return
	}
	p, err := h.service.GetProduct(id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	respond(w, apperr.HTTPStatus(err), map[string]interface{}{
		"error":  err.Error(),
		"banner": apperr.BannerFor(err, h.now()),
	})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
