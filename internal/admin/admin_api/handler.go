package admin_api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"spirit-hunts/internal/admin"
	"spirit-hunts/internal/logger"
	"spirit-hunts/internal/realtime"
	"spirit-hunts/internal/store"
	"spirit-hunts/internal/utils"
)

// Handler serves the admin dashboard. Every request works on its own
// Dashboard, so no view state is shared between requests.
type Handler struct {
	Tables *store.Tables
	Feed   realtime.Subscriber
	Logger *logger.Logger
}

func NewHandler(tables *store.Tables, feed realtime.Subscriber, log *logger.Logger) *Handler {
	return &Handler{Tables: tables, Feed: feed, Logger: log}
}

// RegisterRoutes mounts the dashboard routes. Callers wrap them in the
// auth middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.GetDashboard)
	r.Get("/dashboard/stream", h.StreamDashboard)
	r.Post("/reviews/{reviewId}/approve", h.ApproveReview)
	r.Post("/reviews/{reviewId}/reject", h.RejectReview)
	r.Delete("/reviews/{reviewId}", h.DeleteReview)
	r.Delete("/events/{eventId}", h.DeleteEvent)
	r.Post("/messages/{messageId}/read", h.MarkMessageRead)
}

func (h *Handler) dashboard() *admin.Dashboard {
	return admin.NewDashboard(h.Tables, h.Feed, h.Logger)
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dashboard().Load(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetDashboard: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to load dashboard data", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Dashboard loaded", snap))
}

func (h *Handler) ApproveReview(w http.ResponseWriter, r *http.Request) {
	d := h.dashboard()
	err := d.ApproveReview(r.Context(), chi.URLParam(r, "reviewId"))
	h.writeActionResult(w, d, "Review approved", "Failed to update review", err)
}

func (h *Handler) RejectReview(w http.ResponseWriter, r *http.Request) {
	d := h.dashboard()
	err := d.RejectReview(r.Context(), chi.URLParam(r, "reviewId"))
	h.writeActionResult(w, d, "Review rejected", "Failed to update review", err)
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	d := h.dashboard()
	err := d.DeleteReview(r.Context(), chi.URLParam(r, "reviewId"), confirmFromQuery(r))
	h.writeActionResult(w, d, "Review deleted", "Failed to delete review", err)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	d := h.dashboard()
	err := d.DeleteEvent(r.Context(), chi.URLParam(r, "eventId"), confirmFromQuery(r))
	h.writeActionResult(w, d, "Event deleted", "Failed to delete event", err)
}

func (h *Handler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	d := h.dashboard()
	err := d.MarkMessageRead(r.Context(), chi.URLParam(r, "messageId"))
	h.writeActionResult(w, d, "Message marked as read", "Failed to update message", err)
}

// confirmFromQuery answers the confirmation prompt with ?confirm=true.
func confirmFromQuery(r *http.Request) admin.Confirm {
	return func(string) bool {
		return r.URL.Query().Get("confirm") == "true"
	}
}

// StaleTable is returned when an action was saved but the named table
// could not be re-fetched; the client should reload it.
type StaleTable struct {
	Table string `json:"stale_table"`
}

func (h *Handler) writeActionResult(w http.ResponseWriter, d *admin.Dashboard, success, failure string, err error) {
	var confirmErr *admin.ConfirmationRequiredError
	var refreshErr *admin.RefreshError
	switch {
	case err == nil:
		snap, _ := d.Snapshot()
		utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse(success, snap))
	case errors.As(err, &confirmErr):
		utils.WriteJSON(w, http.StatusPreconditionRequired, utils.ErrorResponse(confirmErr.Prompt, "add ?confirm=true to proceed"))
	case errors.As(err, &refreshErr):
		resp := utils.SuccessResponse(success+", but the dashboard could not be refreshed", StaleTable{Table: refreshErr.Table})
		resp.Error = err.Error()
		utils.WriteJSON(w, http.StatusOK, resp)
	default:
		h.Logger.Error("API", fmt.Sprintf("%s: %v", failure, err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse(failure, err.Error()))
	}
}
