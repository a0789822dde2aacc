package review_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"spirit-hunts/internal/logger"
	"spirit-hunts/internal/models"
	"spirit-hunts/internal/reviews"
	"spirit-hunts/internal/store"
	"spirit-hunts/internal/utils"
)

type Handler struct {
	Service *reviews.Service
	Logger  *logger.Logger
}

func NewHandler(service *reviews.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/events/{eventId}/review", h.GetReviewPage)
	r.Post("/events/{eventId}/reviews", h.CreateReview)
}

func (h *Handler) GetReviewPage(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	event, err := h.Service.LoadEvent(r.Context(), eventID)
	if err != nil {
		if store.IsNotFound(err) {
			utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Event not found", err.Error()).WithRedirect("/events"))
			return
		}
		h.Logger.Error("API", fmt.Sprintf("GetReviewPage: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to load event details", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event retrieved", event))
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	var form models.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateReview: failed to decode request body: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	review, err := h.Service.Submit(r.Context(), eventID, form)
	if err != nil {
		var ve *utils.ValidationError
		if errors.As(err, &ve) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse(ve.Message, err.Error()))
			return
		}
		if store.IsNotFound(err) {
			h.Logger.Warn("API", fmt.Sprintf("CreateReview: event %s not found", eventID))
			utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Event not found", err.Error()).WithRedirect("/events"))
			return
		}
		h.Logger.Error("API", fmt.Sprintf("CreateReview: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse(reviews.FailureMessage, err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse(reviews.SuccessMessage, review).WithRedirect("/events"))
}
