package api

import (
	"net/http"

	"github.com/parkhub/parkhub-backend/internal/service"
)

type AuthHandler struct {
	Service service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{Service: svc}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	// Self-registration always creates a plain user; staff accounts
	// are provisioned by an admin.
	user, err := h.Service.Register(req.Name, req.Email, req.Phone, req.Password, "")
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      user.ID,
		"email":   user.Email,
		"message": "Registration successful.",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token, user, err := h.Service.Login(req.Email, req.Password)
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token, Name: user.Name, Role: user.Role})
}
