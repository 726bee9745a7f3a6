package cart

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/printa-dashboard/internal/apperr"
)

// Handler exposes cart HTTP endpoints.
type Handler struct {
	carts *Registry
	now   func() time.Time
}

func NewHandler(carts *Registry) *Handler { return &Handler{carts: carts, now: time.Now} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/carts", func(r chi.Router) {
		r.Post("/", h.createCart)                          // POST   /api/v1/carts
		r.Get("/{id}", h.getCart)                          // GET    /api/v1/carts/{id}
		r.Delete("/{id}", h.discardCart)                   // DELETE /api/v1/carts/{id}
		r.Put("/{id}/lines/{product_id}", h.putLine)       // PUT    /api/v1/carts/{id}/lines/{product_id}
		r.Delete("/{id}/lines/{product_id}", h.removeLine) // DELETE /api/v1/carts/{id}/lines/{product_id}
		r.Post("/{id}/submit", h.submit)                   // POST   /api/v1/carts/{id}/submit
	})
}

func (h *Handler) createCart(w http.ResponseWriter, r *http.Request) {
	c := h.carts.Create()
	respond(w, http.StatusCreated, c.View())
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, c.View())
}

func (h *Handler) discardCart(w http.ResponseWriter, r *http.Request) {
	h.carts.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) putLine(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil {
		h.respondError(w, apperr.Validation("product_id", "invalid product id"))
		return
	}
	var req AddLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := c.AddLine(productID, req.Quantity); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondAction(w, c, nil, "Item added to cart")
}

func (h *Handler) removeLine(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil {
		h.respondError(w, apperr.Validation("product_id", "invalid product id"))
		return
	}
	c.RemoveLine(productID)
	respond(w, http.StatusOK, map[string]interface{}{"cart": c.View()})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	err = c.Submit(r.Context())
	if err != nil && !apperr.IsWarning(err) {
		h.respondError(w, err)
		return
	}
	h.respondAction(w, c, err, "Order created successfully!")
}

// ── helpers ───────────────────────────────────────────────────────────────────

// respondAction reports a completed action. A RaceWarning replaces the success
// banner with a warning one.
func (h *Handler) respondAction(w http.ResponseWriter, c *Composer, warning error, message string) {
	banner := apperr.BannerFor(warning, h.now())
	if banner == nil {
		b := apperr.Success(message, h.now())
		banner = &b
	}
	respond(w, http.StatusOK, map[string]interface{}{"cart": c.View(), "banner": banner})
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
