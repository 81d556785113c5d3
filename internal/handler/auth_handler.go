package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"clinic-admin/internal/middleware"
	"clinic-admin/internal/model"
	"clinic-admin/internal/service"
	"clinic-admin/internal/validation"
	"clinic-admin/pkg/apierror"
)

// cookiePath limits the refresh cookie to the auth endpoints.
const cookiePath = "/auth"

// CookieOptions describe the HTTP-only refresh cookie.
type CookieOptions struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	service *service.AuthService
	cookie  CookieOptions
}

func NewAuthHandler(service *service.AuthService, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{service: service, cookie: cookie}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if apiErr := validation.Struct(payload); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	issued, err := h.service.Login(r.Context(), payload.Email, payload.Password, middleware.ClientIP(r))
	if err != nil {
		writeError(w, err)
		return
	}

	h.setRefreshCookie(w, issued.RefreshToken, issued.RefreshExpiresAt)
	writeSuccess(w, http.StatusOK, issued.AuthResponse, nil)
}

// Refresh rotates the refresh cookie. The request body is ignored.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cookie.Name)
	if errors.Is(err, http.ErrNoCookie) || (err == nil && cookie.Value == "") {
		writeError(w, apierror.Wrap(model.ErrUnauthorized, "UNAUTHORIZED", "refresh token missing", http.StatusUnauthorized))
		return
	}
	if err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid cookie", err.Error(), http.StatusBadRequest))
		return
	}

	issued, err := h.service.Refresh(r.Context(), cookie.Value, middleware.ClientIP(r))
	if err != nil {
		h.clearRefreshCookie(w)
		writeError(w, err)
		return
	}

	h.setRefreshCookie(w, issued.RefreshToken, issued.RefreshExpiresAt)
	writeSuccess(w, http.StatusOK, issued.AuthResponse, nil)
}

// Logout always succeeds, with or without a cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookie.Name); err == nil {
		h.service.Logout(r.Context(), cookie.Value, middleware.ClientIP(r))
	}

	h.clearRefreshCookie(w)
	writeSuccess(w, http.StatusOK, map[string]any{"logged_out": true}, nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	user, err := h.service.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     cookiePath,
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     cookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
