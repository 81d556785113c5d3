//go:build integration

package integration

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"clinic-admin/internal/apiclient"
	"clinic-admin/internal/app"
	"clinic-admin/internal/auth"
	"clinic-admin/internal/authclient"
	"clinic-admin/internal/config"
	"clinic-admin/internal/navigation"
	"clinic-admin/internal/session"
	"clinic-admin/internal/startup"
)

const (
	accessTTL  = time.Minute
	refreshTTL = time.Hour
)

// clock is a forward-only test clock shared by concurrent requests.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func testConfig() *config.Config {
	return &config.Config{
		ServerPort:              "0",
		ServerReadHeaderTimeout: 5 * time.Second,
		ServerWriteTimeout:      10 * time.Second,
		ServerIdleTimeout:       30 * time.Second,
		RequestTimeout:          10 * time.Second,
		JWTSecret:               "integration-secret",
		JWTAccessTTL:            accessTTL,
		JWTRefreshTTL:           refreshTTL,
		RefreshCookieName:       "refresh_token",
		CORSOrigins:             []string{"http://localhost:5173"},
		RateLimitRPM:            0,
		AuthRateLimitRPM:        1000,
	}
}

type env struct {
	server *httptest.Server
	clock  *clock
}

func newEnv(t *testing.T) *env {
	t.Helper()

	a, err := app.New(context.Background(), testConfig(), app.WithPasswordCost(bcrypt.MinCost))
	require.NoError(t, err)
	t.Cleanup(a.Close)

	c := &clock{t: time.Now().UTC()}
	a.AuthService().SetClock(c.now)

	server := httptest.NewServer(a.Handler())
	t.Cleanup(server.Close)

	return &env{server: server, clock: c}
}

func (e *env) clientConfig() *config.ClientConfig {
	return &config.ClientConfig{
		APIBaseURL:     e.server.URL,
		RefreshTimeout: 5 * time.Second,
		RequestTimeout: 10 * time.Second,
		LogLevel:       "warn",
	}
}

// client is one browser tab: a session on a cookie jar that may be shared
// with other tabs to model a reload.
type client struct {
	store   *session.Store
	history *navigation.History
	manager *auth.Manager
	api     *apiclient.Client
	probe   *startup.Probe
	jar     http.CookieJar
}

func (e *env) newClient(t *testing.T, jar http.CookieJar) *client {
	t.Helper()
	if jar == nil {
		var err error
		jar, err = cookiejar.New(nil)
		require.NoError(t, err)
	}

	store := session.NewStore(nil)
	history := navigation.NewHistory(navigation.Location{Path: navigation.HomePath})
	manager := auth.NewManager(store, authclient.New(e.server.URL, &http.Client{Jar: jar}), 5*time.Second)
	api := apiclient.New(e.server.URL, &http.Client{
		Jar:       jar,
		Transport: apiclient.NewTransport(nil, store, manager, history),
	})

	return &client{
		store:   store,
		history: history,
		manager: manager,
		api:     api,
		probe:   startup.NewProbe(manager, store),
		jar:     jar,
	}
}
