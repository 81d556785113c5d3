package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"clinic-admin/internal/model"
	"clinic-admin/internal/repository"
	"clinic-admin/pkg/apierror"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newAuthService(t *testing.T) (*AuthService, *clock, *repository.MemoryActivityRepository) {
	t.Helper()
	users, err := repository.NewUserRepository(repository.DemoCredentials, bcrypt.MinCost)
	require.NoError(t, err)

	activity := repository.NewMemoryActivityRepository()
	svc, err := NewAuthService("test-secret", time.Minute, time.Hour, users, repository.NewMemoryTokenRepository(), activity)
	require.NoError(t, err)

	c := &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc.SetClock(c.now)
	return svc, c, activity
}

func TestAuthService_LoginIssuesPair(t *testing.T) {
	svc, _, activity := newAuthService(t)
	ctx := context.Background()

	issued, err := svc.Login(ctx, "admin@clinic.com", "password", "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.AccessToken)
	assert.NotEmpty(t, issued.RefreshToken)
	assert.Equal(t, "Bearer", issued.TokenType)
	assert.Equal(t, int64(60), issued.ExpiresIn)
	require.NotNil(t, issued.User)
	assert.Equal(t, "admin", issued.User.Role)

	claims, err := svc.ValidateToken(issued.AccessToken, "access")
	require.NoError(t, err)
	assert.Equal(t, issued.User.ID, claims.UserID)

	_, err = svc.ValidateToken(issued.RefreshToken, "access")
	assert.Error(t, err, "refresh token must not pass as access token")

	entries, err := activity.List(ctx, issued.User.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionLogin, entries[0].Action)
	assert.Equal(t, "10.0.0.1", entries[0].ClientIP)
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthService(t)

	for _, tc := range []struct{ email, password string }{
		{"admin@clinic.com", "wrong"},
		{"nobody@clinic.com", "password"},
	} {
		_, err := svc.Login(context.Background(), tc.email, tc.password, "")
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 401, apiErr.HTTPStatus)
	}
}

func TestAuthService_AccessTokenExpires(t *testing.T) {
	svc, c, _ := newAuthService(t)

	issued, err := svc.Login(context.Background(), "admin@clinic.com", "password", "")
	require.NoError(t, err)

	c.advance(2 * time.Minute)
	_, err = svc.ValidateToken(issued.AccessToken, "access")
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestAuthService_RefreshRotates(t *testing.T) {
	svc, c, _ := newAuthService(t)
	ctx := context.Background()

	first, err := svc.Login(ctx, "admin@clinic.com", "password", "")
	require.NoError(t, err)

	c.advance(2 * time.Minute)
	second, err := svc.Refresh(ctx, first.RefreshToken, "")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	_, err = svc.ValidateToken(second.AccessToken, "access")
	assert.NoError(t, err)

	// The rotated-out token is dead, and replaying it ends every session.
	_, err = svc.Refresh(ctx, first.RefreshToken, "")
	assert.ErrorIs(t, err, model.ErrTokenNotFound)

	_, err = svc.Refresh(ctx, second.RefreshToken, "")
	assert.ErrorIs(t, err, model.ErrTokenNotFound)
}

func TestAuthService_RefreshTokenExpires(t *testing.T) {
	svc, c, _ := newAuthService(t)

	issued, err := svc.Login(context.Background(), "admin@clinic.com", "password", "")
	require.NoError(t, err)

	c.advance(2 * time.Hour)
	_, err = svc.Refresh(context.Background(), issued.RefreshToken, "")
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestAuthService_LogoutRevokes(t *testing.T) {
	svc, _, activity := newAuthService(t)
	ctx := context.Background()

	issued, err := svc.Login(ctx, "test@gmail.com", "123456", "")
	require.NoError(t, err)

	svc.Logout(ctx, issued.RefreshToken, "")
	svc.Logout(ctx, issued.RefreshToken, "")
	svc.Logout(ctx, "", "")
	svc.Logout(ctx, "garbage", "")

	_, err = svc.Refresh(ctx, issued.RefreshToken, "")
	assert.Error(t, err)

	entries, err := activity.List(ctx, issued.User.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, ActionLogout, entries[len(entries)-2].Action)
}

func TestAuthService_CleanupExpired(t *testing.T) {
	svc, c, _ := newAuthService(t)
	ctx := context.Background()

	issued, err := svc.Login(ctx, "admin@clinic.com", "password", "")
	require.NoError(t, err)

	c.advance(2 * time.Hour)
	svc.CleanupExpired(ctx)

	c.t = c.t.Add(-2 * time.Hour)
	_, err = svc.Refresh(ctx, issued.RefreshToken, "")
	assert.ErrorIs(t, err, model.ErrTokenNotFound)
}
