package handler

import (
	"net/http"

	"clinic-admin/internal/model"
	"clinic-admin/internal/service"
	"clinic-admin/internal/validation"
)

type listParams struct {
	Page   int    `json:"page"   validate:"gte=0"`
	Limit  int    `json:"limit"  validate:"gte=0,lte=100"`
	Search string `json:"search" validate:"max=100"`
	Status string `json:"status" validate:"max=32"`
}

type CatalogHandler struct {
	service *service.CatalogService
}

func NewCatalogHandler(service *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) Clinics(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.service.Clinics)
}

func (h *CatalogHandler) Patients(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.service.Patients)
}

func (h *CatalogHandler) Doctors(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.service.Doctors)
}

func (h *CatalogHandler) Staff(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.service.Staff)
}

func (h *CatalogHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.service.Appointments)
}

func (h *CatalogHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.service.Stats(), nil)
}

func serveList[T any](w http.ResponseWriter, r *http.Request, list func(model.ListQuery) ([]T, model.Meta)) {
	q, err := parseListQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	items, meta := list(q)
	writeSuccess(w, http.StatusOK, items, &meta)
}

// parseListQuery reads page, limit, search and status. Unparseable
// numbers fall back to the defaults; out-of-range ones are rejected.
func parseListQuery(r *http.Request) (model.ListQuery, error) {
	values := r.URL.Query()
	params := listParams{
		Page:   parseIntOrDefault(values.Get("page"), 0),
		Limit:  parseIntOrDefault(values.Get("limit"), 0),
		Search: values.Get("search"),
		Status: values.Get("status"),
	}

	if apiErr := validation.Struct(params); apiErr != nil {
		return model.ListQuery{}, apiErr
	}

	return service.NormalizeQuery(model.ListQuery{
		Search: params.Search,
		Status: params.Status,
		Page:   params.Page,
		Limit:  params.Limit,
	}), nil
}
