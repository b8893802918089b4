package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckvault/match-tracker/services"
)

func newAuthService(t *testing.T) services.AdminAuthService {
	t.Helper()
	return services.NewAdminAuthService(services.AdminAuthConfig{Secret: "door-secret"})
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestLoginSetsTokenCookie(t *testing.T) {
	authService := newAuthService(t)
	h := NewAuthHandler(authService)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"door-secret"}`))
	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	cookie := findCookie(t, rec, AdminTokenCookie)
	require.NotNil(t, cookie, "expected %s cookie", AdminTokenCookie)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)
	assert.NoError(t, authService.VerifyToken(cookie.Value))
}

func TestLoginWrongPassword(t *testing.T) {
	h := NewAuthHandler(newAuthService(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"guess"}`))
	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, findCookie(t, rec, AdminTokenCookie))
}

func TestLoginMissingPassword(t *testing.T) {
	h := NewAuthHandler(newAuthService(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{}`))
	h.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginUnconfiguredAuthenticator(t *testing.T) {
	h := NewAuthHandler(services.NewAdminAuthService(services.AdminAuthConfig{}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"anything"}`))
	h.Login(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	h := NewAuthHandler(newAuthService(t))

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/admin/logout", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cookie := findCookie(t, rec, AdminTokenCookie)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}
