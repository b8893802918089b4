package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/deckvault/match-tracker/services"
)

// AdminTokenCookie carries the signed admin token between requests.
const AdminTokenCookie = "admin_token"

type AuthHandler struct {
	authService services.AdminAuthService
}

func NewAuthHandler(authService services.AdminAuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Password == "" {
		badRequestResponse(w, r, errors.New("password is required"))
		return
	}

	token, expiresAt, err := h.authService.Login(input.Password)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AdminTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if err := writeJSON(w, http.StatusOK, jsonResponse{"ok": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Logout only discards the client-held cookie; tokens expire on their
// own and the server keeps no session state to invalidate.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminTokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if err := writeJSON(w, http.StatusOK, jsonResponse{"ok": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
