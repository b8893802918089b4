package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/deckvault/match-tracker/handlers"
	"github.com/deckvault/match-tracker/services"
)

// AdminSecretHeader lets scripts present the raw configured secret
// instead of a login cookie.
const AdminSecretHeader = "X-Admin-Secret"

// RequireAdmin guards administrative endpoints. It accepts either the
// raw secret header or a valid admin token cookie; a missing secret
// configuration answers 500 on every call while the rest of the
// service keeps working.
func RequireAdmin(authService services.AdminAuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret := r.Header.Get(AdminSecretHeader); secret != "" {
				err := authService.VerifySecret(secret)
				if err == nil {
					next.ServeHTTP(w, r)
					return
				}
				rejectAdmin(w, err)
				return
			}

			cookie, err := r.Cookie(handlers.AdminTokenCookie)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "admin credential required")
				return
			}
			if err := authService.VerifyToken(cookie.Value); err != nil {
				rejectAdmin(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func rejectAdmin(w http.ResponseWriter, err error) {
	if errors.Is(err, services.ErrAuthNotConfigured) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeError(w, http.StatusUnauthorized, err.Error())
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
