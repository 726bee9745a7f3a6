package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/printa-dashboard/internal/apperr"
)

// Handler exposes dashboard HTTP endpoints.
type Handler struct {
	service Service
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewHandler(service Service, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{service: service, log: log.WithField("component", "dashboard"), now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/dashboard", func(r chi.Router) {
		r.Get("/", h.getView)                            // GET    /api/v1/dashboard
		r.Get("/stats", h.getStats)                      // GET    /api/v1/dashboard/stats
		r.Get("/activity", h.getActivity)                // GET    /api/v1/dashboard/activity
		r.Get("/report", h.getReport)                    // GET    /api/v1/dashboard/report
		r.Get("/search", h.search)                       // GET    /api/v1/dashboard/search?q=wid
		r.Post("/refresh", h.refresh)                    // POST   /api/v1/dashboard/refresh
		r.Get("/notifications", h.getNotifications)      // GET    /api/v1/dashboard/notifications
		r.Post("/notifications/{id}/read", h.markRead)   // POST   /api/v1/dashboard/notifications/{id}/read
		r.Delete("/notifications", h.clearNotifications) // DELETE /api/v1/dashboard/notifications
		r.Get("/live", h.live)                           // GET    /api/v1/dashboard/live (websocket)
	})
}

func (h *Handler) getView(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.View())
}

func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.Stats())
}

func (h *Handler) getActivity(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.Activity())
}

func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.Report())
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.Search(r.URL.Query().Get("q")))
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Refresh(r.Context()); err != nil {
		h.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, h.service.View())
}

func (h *Handler) getNotifications(w http.ResponseWriter, r *http.Request) {
	v := h.service.View()
	respond(w, http.StatusOK, map[string]interface{}{
		"notifications": v.Notifications,
		"unread":        v.Unread,
	})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	if err := h.service.MarkRead(chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearNotifications(w http.ResponseWriter, r *http.Request) {
	h.service.ClearNotifications()
	w.WriteHeader(http.StatusNoContent)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.log.WithError(err).Error("dashboard request failed")
	}
	respond(w, status, map[string]interface{}{
		"error":  err.Error(),
		"banner": apperr.BannerFor(err, h.now()),
	})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
