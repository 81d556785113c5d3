//go:build integration

package integration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-admin/internal/apiclient"
	"clinic-admin/internal/model"
	"clinic-admin/internal/navigation"
	"clinic-admin/pkg/apierror"
)

func TestLoginThenProtectedRequest(t *testing.T) {
	e := newEnv(t)
	c := e.newClient(t, nil)
	ctx := context.Background()

	user, err := c.manager.Login(ctx, "admin@clinic.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Role)
	assert.True(t, c.store.IsAuthenticated())

	page, err := apiclient.List[model.Patient](ctx, c.api, apiclient.PatientsPath, model.ListQuery{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	require.NotNil(t, page.Meta)
	assert.Equal(t, 24, page.Meta.Total)

	me, err := c.api.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)
}

func TestInvalidCredentialsLeaveSessionEmpty(t *testing.T) {
	e := newEnv(t)
	c := e.newClient(t, nil)

	_, err := c.manager.Login(context.Background(), "admin@clinic.com", "wrong-password")
	require.ErrorIs(t, err, model.ErrInvalidCredentials)
	assert.False(t, c.store.IsAuthenticated())
	assert.Empty(t, c.store.Token())
}

func TestExpiredAccessTokenRefreshesTransparently(t *testing.T) {
	e := newEnv(t)
	c := e.newClient(t, nil)
	ctx := context.Background()

	_, err := c.manager.Login(ctx, "admin@clinic.com", "password")
	require.NoError(t, err)
	before := c.store.Token()

	e.clock.advance(accessTTL + 1)

	stats, err := c.api.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 24, stats.Patients)
	assert.NotEqual(t, before, c.store.Token())
	assert.True(t, c.store.IsAuthenticated())
}

// Rotation revokes the presented refresh token, so a second refresh with
// the same cookie would trip reuse detection and end the session.
func TestConcurrentExpiredRequestsShareOneRefresh(t *testing.T) {
	e := newEnv(t)
	c := e.newClient(t, nil)
	ctx := context.Background()

	_, err := c.manager.Login(ctx, "admin@clinic.com", "password")
	require.NoError(t, err)
	e.clock.advance(accessTTL + 1)

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.api.Stats(ctx)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "request %d", i)
	}
	assert.True(t, c.store.IsAuthenticated())

	activity, err := c.api.Activity(ctx, 50)
	require.NoError(t, err)
	refreshes := 0
	for _, a := range activity {
		if a.Action == "refresh" {
			refreshes++
		}
		assert.NotEqual(t, "refresh_token_reuse", a.Action)
	}
	assert.Equal(t, 1, refreshes)
}

func TestExpiredRefreshTokenEndsSession(t *testing.T) {
	e := newEnv(t)
	c := e.newClient(t, nil)
	ctx := context.Background()

	_, err := c.manager.Login(ctx, "admin@clinic.com", "password")
	require.NoError(t, err)
	c.history.Navigate(navigation.Location{Path: "/patients"})

	e.clock.advance(refreshTTL + 1)

	_, err = c.api.Stats(ctx)
	require.ErrorIs(t, err, model.ErrSessionExpired)

	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 401, apiErr.HTTPStatus)

	assert.False(t, c.store.IsAuthenticated())
	assert.Empty(t, c.store.Token())
	assert.Equal(t, navigation.LoginPath, c.history.Current().Path)
}

func TestReloadRestoresSessionFromCookie(t *testing.T) {
	e := newEnv(t)
	first := e.newClient(t, nil)
	ctx := context.Background()

	user, err := first.manager.Login(ctx, "test@gmail.com", "123456")
	require.NoError(t, err)

	reloaded := e.newClient(t, first.jar)
	assert.False(t, reloaded.store.IsAuthenticated())
	require.True(t, reloaded.probe.Run(ctx))
	require.NotNil(t, reloaded.store.User())
	assert.Equal(t, user.ID, reloaded.store.User().ID)

	_, err = reloaded.api.Stats(ctx)
	assert.NoError(t, err)
}

func TestLogoutIsIdempotentAndRevokesCookie(t *testing.T) {
	e := newEnv(t)
	c := e.newClient(t, nil)
	ctx := context.Background()

	_, err := c.manager.Login(ctx, "admin@clinic.com", "password")
	require.NoError(t, err)

	c.manager.Logout(ctx)
	c.manager.Logout(ctx)
	assert.False(t, c.store.IsAuthenticated())

	reloaded := e.newClient(t, c.jar)
	assert.False(t, reloaded.probe.Run(ctx))
	assert.False(t, reloaded.store.IsAuthenticated())
}

func TestRoleRestrictedList(t *testing.T) {
	e := newEnv(t)
	c := e.newClient(t, nil)
	ctx := context.Background()

	_, err := c.manager.Login(ctx, "test@gmail.com", "123456")
	require.NoError(t, err)

	_, err = apiclient.List[model.Clinic](ctx, c.api, apiclient.ClinicsPath, model.ListQuery{})
	require.ErrorIs(t, err, model.ErrForbidden)
	assert.True(t, c.store.IsAuthenticated(), "a 403 never ends the session")
}
