package apiclient

import (
	"context"
	"net/url"
	"strconv"

	"clinic-admin/internal/model"
)

const (
	ClinicsPath      = "/clinics"
	PatientsPath     = "/patients"
	DoctorsPath      = "/doctors"
	StaffPath        = "/staff"
	AppointmentsPath = "/appointments"
	StatsPath        = "/dashboard/stats"
	ActivityPath     = "/profile/activity"
	MePath           = "/auth/me"
)

// Page is one page of a list endpoint.
type Page[T any] struct {
	Items []T
	Meta  model.Meta
}

// List fetches one page of a protected list endpoint.
func List[T any](ctx context.Context, c *Client, path string, q model.ListQuery) (Page[T], error) {
	var items []T
	meta, err := c.Get(ctx, path, listValues(q), &items)
	if err != nil {
		return Page[T]{}, err
	}

	page := Page[T]{Items: items}
	if meta != nil {
		page.Meta = *meta
	} else {
		page.Meta = model.NewMeta(1, len(items), len(items))
	}
	return page, nil
}

func listValues(q model.ListQuery) url.Values {
	values := url.Values{}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	return values
}

func (c *Client) Stats(ctx context.Context) (model.DashboardStats, error) {
	var stats model.DashboardStats
	_, err := c.Get(ctx, StatsPath, nil, &stats)
	return stats, err
}

func (c *Client) Me(ctx context.Context) (model.User, error) {
	var user model.User
	_, err := c.Get(ctx, MePath, nil, &user)
	return user, err
}

func (c *Client) Activity(ctx context.Context, limit int) ([]model.Activity, error) {
	var entries []model.Activity
	_, err := c.Get(ctx, ActivityPath, listValues(model.ListQuery{Limit: limit}), &entries)
	return entries, err
}
