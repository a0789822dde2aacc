package catalogue_api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"spirit-hunts/internal/catalogue"
	"spirit-hunts/internal/logger"
	"spirit-hunts/internal/models"
	"spirit-hunts/internal/store"
	"spirit-hunts/internal/utils"
)

type Handler struct {
	Service *catalogue.Service
	Logger  *logger.Logger
}

func NewHandler(service *catalogue.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/events", h.ListEvents)
	r.Get("/events/{eventId}", h.GetEvent)
}

// ListEvents serves GET /api/events?search=&location=&type=&difficulty=&sort=
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := catalogue.Filters{
		Search:     q.Get("search"),
		Location:   q.Get("location"),
		EventType:  models.EventType(q.Get("type")),
		Difficulty: models.Difficulty(q.Get("difficulty")),
		SortBy:     q.Get("sort"),
	}

	listing, err := h.Service.Browse(r.Context(), filters)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListEvents: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to load events", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Events retrieved", listing))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	details, err := h.Service.EventDetails(r.Context(), eventID)
	if err != nil {
		if store.IsNotFound(err) {
			h.Logger.Warn("API", fmt.Sprintf("GetEvent: event %s not found", eventID))
			utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Event not found", err.Error()).WithRedirect("/events"))
			return
		}
		h.Logger.Error("API", fmt.Sprintf("GetEvent: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to load event", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event retrieved", details))
}
