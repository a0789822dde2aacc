package booking_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"spirit-hunts/internal/booking"
	"spirit-hunts/internal/logger"
	"spirit-hunts/internal/models"
	"spirit-hunts/internal/store"
	"spirit-hunts/internal/utils"
)

type Handler struct {
	Service *booking.Service
	Logger  *logger.Logger
}

func NewHandler(service *booking.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

// BookingPage is the event shown on the booking form with the current quote.
type BookingPage struct {
	Event      *models.Event `json:"event"`
	Guests     int           `json:"guests"`
	TotalPrice float64       `json:"total_price"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/events/{eventId}/booking", h.GetBookingPage)
	r.Post("/events/{eventId}/bookings", h.CreateBooking)
}

// GetBookingPage serves GET /api/events/{eventId}/booking?guests=N
func (h *Handler) GetBookingPage(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	guests := 1
	if raw := r.URL.Query().Get("guests"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid guest count", err.Error()))
			return
		}
		guests = n
	}

	event, err := h.Service.LoadEvent(r.Context(), eventID)
	if err != nil {
		h.writeLoadError(w, eventID, err)
		return
	}
	if err := booking.ValidateGuests(event, guests); err != nil {
		var ve *utils.ValidationError
		errors.As(err, &ve)
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse(ve.Message, err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event retrieved", BookingPage{
		Event:      event,
		Guests:     guests,
		TotalPrice: booking.Quote(event.Price, guests),
	}))
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	var form models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateBooking: failed to decode request body: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	created, err := h.Service.Submit(r.Context(), eventID, form)
	if err != nil {
		var ve *utils.ValidationError
		switch {
		case errors.As(err, &ve):
			resp := utils.ErrorResponse(ve.Message, err.Error())
			resp.Data = form
			utils.WriteJSON(w, http.StatusBadRequest, resp)
		case store.IsNotFound(err):
			h.writeLoadError(w, eventID, err)
		default:
			h.Logger.Error("API", fmt.Sprintf("CreateBooking: %v", err))
			resp := utils.ErrorResponse(booking.FailureMessage, err.Error())
			resp.Data = form
			utils.WriteJSON(w, http.StatusInternalServerError, resp)
		}
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse(booking.SuccessMessage, created).WithRedirect("/events"))
}

func (h *Handler) writeLoadError(w http.ResponseWriter, eventID string, err error) {
	if store.IsNotFound(err) {
		h.Logger.Warn("API", fmt.Sprintf("Event %s not found or not active", eventID))
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Event not found", err.Error()).WithRedirect("/events"))
		return
	}
	h.Logger.Error("API", fmt.Sprintf("Error fetching event %s: %v", eventID, err))
	utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to load event details", err.Error()).WithRedirect("/events"))
}
