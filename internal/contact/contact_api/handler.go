package contact_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"spirit-hunts/internal/config"
	"spirit-hunts/internal/contact"
	"spirit-hunts/internal/logger"
	"spirit-hunts/internal/models"
	"spirit-hunts/internal/utils"
)

type Handler struct {
	Service *contact.Service
	Config  config.ContactConfig
	Logger  *logger.Logger
}

func NewHandler(service *contact.Service, cfg config.ContactConfig, log *logger.Logger) *Handler {
	return &Handler{Service: service, Config: cfg, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/contact", h.SendMessage)
	r.Get("/contact/whatsapp", h.WhatsAppLink)
	r.Get("/contact/whatsapp/qr", h.WhatsAppQR)
}

// SendMessage echoes an empty form on success so the client clears its
// inputs, and the submitted form on failure so nothing is lost.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var form models.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.Logger.Error("API", fmt.Sprintf("SendMessage: failed to decode request body: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	if _, err := h.Service.Submit(r.Context(), form); err != nil {
		var ve *utils.ValidationError
		if errors.As(err, &ve) {
			resp := utils.ErrorResponse(ve.Message, err.Error())
			resp.Data = form
			utils.WriteJSON(w, http.StatusBadRequest, resp)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("SendMessage: %v", err))
		resp := utils.ErrorResponse(contact.FailureMessage, err.Error())
		resp.Data = form
		utils.WriteJSON(w, http.StatusInternalServerError, resp)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse(contact.SuccessMessage, models.ContactRequest{}))
}

func (h *Handler) WhatsAppLink(w http.ResponseWriter, r *http.Request) {
	link, err := contact.WhatsAppLink(h.Config.WhatsAppNumber, h.Config.WhatsAppGreeting)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("WhatsAppLink: %v", err))
		utils.WriteJSON(w, http.StatusServiceUnavailable, utils.ErrorResponse("WhatsApp is not configured", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("WhatsApp link", map[string]string{"url": link}))
}

func (h *Handler) WhatsAppQR(w http.ResponseWriter, r *http.Request) {
	png, err := contact.WhatsAppQR(h.Config.WhatsAppNumber, h.Config.WhatsAppGreeting)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("WhatsAppQR: %v", err))
		utils.WriteJSON(w, http.StatusServiceUnavailable, utils.ErrorResponse("WhatsApp is not configured", err.Error()))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.Logger.Error("API", fmt.Sprintf("WhatsAppQR: failed to write response: %v", err))
	}
}
