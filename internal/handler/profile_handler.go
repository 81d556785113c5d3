package handler

import (
	"net/http"

	"clinic-admin/internal/middleware"
	"clinic-admin/internal/service"
	"clinic-admin/pkg/apierror"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

// ProfileHandler serves the signed-in user's own records.
type ProfileHandler struct {
	service *service.AuthService
}

func NewProfileHandler(service *service.AuthService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Activity(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	limit := parseIntOrDefault(r.URL.Query().Get("limit"), defaultActivityLimit)
	if limit <= 0 || limit > maxActivityLimit {
		limit = defaultActivityLimit
	}

	entries, err := h.service.Activity(r.Context(), claims.UserID, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, entries, nil)
}
