package order

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/printa-dashboard/internal/apperr"
)

// Handler exposes order HTTP endpoints.
type Handler struct {
	service Service
	now     func() time.Time
}

func NewHandler(service Service) *Handler { return &Handler{service: service, now: time.Now} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Get("/", h.listOrders)                // GET    /api/v1/orders?status=pending
		r.Get("/{id}", h.getOrder)              // GET    /api/v1/orders/{id}
		r.Patch("/{id}/status", h.updateStatus) // PATCH  /api/v1/orders/{id}/status
		r.Delete("/{id}", h.deleteOrder)        // DELETE /api/v1/orders/{id}
	})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.URL.Query().Get("status"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	o, err := h.service.GetOrder(id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	err := h.service.UpdateStatus(r.Context(), id, req.Status)
	h.respondAction(w, err, "Order status updated successfully!")
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	err := h.service.DeleteOrder(r.Context(), id)
	h.respondAction(w, err, "Order deleted successfully!")
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (h *Handler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.respondError(w, apperr.Validation("id", "invalid order id"))
		return 0, false
	}
	return id, true
}

// respondAction answers a mutation. A RaceWarning still counts as success but
// carries a warning banner.
func (h *Handler) respondAction(w http.ResponseWriter, err error, message string) {
	if err != nil && !apperr.IsWarning(err) {
		h.respondError(w, err)
		return
	}
	banner := apperr.BannerFor(err, h.now())
	if banner == nil {
		b := apperr.Success(message, h.now())
		banner = &b
	}
	respond(w, http.StatusOK, map[string]interface{}{"banner": banner})
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
