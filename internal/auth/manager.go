// Package auth owns the operations that change the session: login, the
// shared refresh, and logout.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"clinic-admin/internal/metrics"
	"clinic-admin/internal/model"
	"clinic-admin/internal/session"
	"clinic-admin/internal/validation"
	"clinic-admin/pkg/apierror"
)

const (
	refreshKey            = "refresh"
	defaultRefreshTimeout = 10 * time.Second
	logoutTimeout         = 5 * time.Second
)

// Endpoints is the raw /auth surface. authclient.Client implements it.
type Endpoints interface {
	Login(ctx context.Context, email string, password string) (model.AuthResponse, error)
	Refresh(ctx context.Context) (model.AuthResponse, error)
	Logout(ctx context.Context) error
}

type Manager struct {
	store          *session.Store
	endpoints      Endpoints
	refreshTimeout time.Duration
	group          singleflight.Group
}

func NewManager(store *session.Store, endpoints Endpoints, refreshTimeout time.Duration) *Manager {
	if refreshTimeout <= 0 {
		refreshTimeout = defaultRefreshTimeout
	}
	return &Manager{store: store, endpoints: endpoints, refreshTimeout: refreshTimeout}
}

// Login validates the form, authenticates and stores the session. Any
// failure leaves the store cleared. Bad credentials wrap
// model.ErrInvalidCredentials; invalid input wraps model.ErrInvalidInput
// and carries one FieldError per field.
func (m *Manager) Login(ctx context.Context, email string, password string) (*model.User, error) {
	if apiErr := validation.Struct(model.LoginRequest{Email: email, Password: password}); apiErr != nil {
		m.store.Clear()
		apiErr.Err = model.ErrInvalidInput
		return nil, apiErr
	}

	resp, err := m.endpoints.Login(ctx, email, password)
	if err == nil {
		err = complete(resp)
	}
	if err != nil {
		m.store.Clear()
		if errors.Is(err, model.ErrUnauthorized) {
			return nil, apierror.Wrap(model.ErrInvalidCredentials, "INVALID_CREDENTIALS", "invalid email or password", http.StatusUnauthorized)
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	m.store.Set(resp.AccessToken, resp.User)
	slog.Info("signed in", "user_id", resp.User.ID)
	return m.store.User(), nil
}

// Refresh obtains a new access token. Concurrent callers share a single
// refresh request and all observe its outcome. The request runs detached
// from the caller's cancellation and is bounded by the refresh timeout; a
// caller whose ctx ends early stops waiting but the refresh still lands in
// the store.
//
// On success the store holds the new token and user. On failure it is
// cleared and the returned error wraps model.ErrRefreshFailed.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	detached := context.WithoutCancel(ctx)
	ch := m.group.DoChan(refreshKey, func() (any, error) {
		return m.refresh(detached)
	})

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", model.ErrRefreshFailed, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (m *Manager) refresh(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.refreshTimeout)
	defer cancel()

	m.store.BeginRefresh()

	resp, err := m.endpoints.Refresh(ctx)
	if err == nil {
		err = complete(resp)
	}
	if err != nil {
		m.store.Clear()
		metrics.RefreshTotal.WithLabelValues("failure").Inc()
		slog.Debug("session refresh failed", "error", err)
		return "", fmt.Errorf("%w: %w", model.ErrRefreshFailed, err)
	}

	m.store.Set(resp.AccessToken, resp.User)
	metrics.RefreshTotal.WithLabelValues("success").Inc()
	slog.Debug("session refreshed", "user_id", resp.User.ID)
	return resp.AccessToken, nil
}

// Logout ends the session. The server call is best effort: the store is
// cleared whatever it returns. Logging out while signed out does nothing.
func (m *Manager) Logout(ctx context.Context) {
	if !m.store.IsAuthenticated() {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), logoutTimeout)
	defer cancel()

	if err := m.endpoints.Logout(ctx); err != nil {
		slog.Warn("logout request failed; clearing local session anyway", "error", err)
	}
	m.store.Clear()
	slog.Info("signed out")
}

var errIncompleteSession = errors.New("auth response carries no token or no user")

func complete(resp model.AuthResponse) error {
	if resp.AccessToken == "" || resp.User == nil {
		return errIncompleteSession
	}
	return nil
}

// Store exposes the session this manager mutates.
func (m *Manager) Store() *session.Store {
	return m.store
}
