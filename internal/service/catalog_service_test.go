package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"clinic-admin/internal/model"
)

func TestPaginate(t *testing.T) {
	t.Parallel()

	items := []model.StaffMember{
		{ID: "1", Name: "Nina Patel", Status: "active"},
		{ID: "2", Name: "Carlos Mendes", Status: "inactive"},
		{ID: "3", Name: "Grace Kim", Status: "active"},
		{ID: "4", Name: "Nina Costa", Status: "active"},
	}
	describe := func(m model.StaffMember) (string, []string) { return m.Status, []string{m.Name} }

	t.Run("cuts pages and reports totals", func(t *testing.T) {
		page, meta := paginate(items, model.ListQuery{Page: 2, Limit: 3}, describe)

		require.Len(t, page, 1)
		require.Equal(t, "4", page[0].ID)
		require.Equal(t, model.Meta{Page: 2, Limit: 3, Total: 4, TotalPages: 2}, meta)
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		page, meta := paginate(items, model.ListQuery{Search: "nina"}, describe)

		require.Len(t, page, 2)
		require.Equal(t, 2, meta.Total)
	})

	t.Run("filters by status", func(t *testing.T) {
		page, _ := paginate(items, model.ListQuery{Status: "INACTIVE"}, describe)

		require.Len(t, page, 1)
		require.Equal(t, "2", page[0].ID)
	})

	t.Run("page past the end is empty, not nil", func(t *testing.T) {
		page, meta := paginate(items, model.ListQuery{Page: 9}, describe)

		require.NotNil(t, page)
		require.Empty(t, page)
		require.Equal(t, 4, meta.Total)
	})
}

func TestNormalizeQuery(t *testing.T) {
	t.Parallel()

	q := NormalizeQuery(model.ListQuery{Page: -1, Limit: 5000, Search: "  ann ", Status: " Active"})
	require.Equal(t, model.ListQuery{Page: 1, Limit: maxPageLimit, Search: "ann", Status: "active"}, q)

	require.Equal(t, defaultPageLimit, NormalizeQuery(model.ListQuery{}).Limit)
}

func TestCatalogService_Stats(t *testing.T) {
	t.Parallel()

	s := NewCatalogService()
	stats := s.Stats()

	require.Equal(t, len(s.clinics), stats.Clinics)
	require.Equal(t, len(s.patients), stats.Patients)
	require.Equal(t, 6, stats.AppointmentsToday)

	s.now = func() time.Time { return time.Now().AddDate(1, 0, 0) }
	require.Zero(t, s.Stats().AppointmentsToday)
}

func TestCatalogService_PatientSearch(t *testing.T) {
	t.Parallel()

	patients, meta := NewCatalogService().Patients(model.ListQuery{Search: "ann lee"})

	require.NotEmpty(t, patients)
	require.Equal(t, len(patients), meta.Total)
	for _, p := range patients {
		require.Equal(t, "Ann", p.FirstName)
	}
}
