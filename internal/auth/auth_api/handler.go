package auth_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"spirit-hunts/internal/auth"
	"spirit-hunts/internal/logger"
	"spirit-hunts/internal/utils"
)

type Handler struct {
	Auth   *auth.Authenticator
	Logger *logger.Logger
}

func NewHandler(a *auth.Authenticator, log *logger.Logger) *Handler {
	return &Handler{Auth: a, Logger: log}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterPublicRoutes mounts the routes reachable without a session.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	session, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("Invalid credentials", err.Error()))
			return
		}
		h.Logger.Error("API", fmt.Sprintf("Login: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Login failed", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Logged in", session).WithRedirect("/admin"))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	raw, err := auth.ExtractTokenFromRequest(r)
	if err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("Authentication required", err.Error()))
		return
	}

	if err := h.Auth.Logout(r.Context(), raw); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("Invalid session", err.Error()))
			return
		}
		h.Logger.Error("API", fmt.Sprintf("Logout: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Logout failed", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Logged out", nil).WithRedirect("/admin/login"))
}

// Me reports the signed-in admin. It must run behind auth.Middleware.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Authenticated", map[string]string{
		"user": auth.UserID(r.Context()),
	}))
}
