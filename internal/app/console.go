package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"

	"golang.org/x/net/publicsuffix"

	"clinic-admin/internal/apiclient"
	"clinic-admin/internal/auth"
	"clinic-admin/internal/authclient"
	"clinic-admin/internal/config"
	"clinic-admin/internal/event"
	"clinic-admin/internal/navigation"
	"clinic-admin/internal/session"
	"clinic-admin/internal/shell"
	"clinic-admin/internal/startup"
)

// Console is one clinicctl process: a cookie jar, one session and the
// shell rendering it.
type Console struct {
	cfg     *config.ClientConfig
	jar     http.CookieJar
	bus     *event.InMemoryBus
	store   *session.Store
	history *navigation.History
	manager *auth.Manager
	api     *apiclient.Client
	probe   *startup.Probe
}

func NewConsole(cfg *config.ClientConfig) (*Console, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Console{cfg: cfg, jar: jar, bus: event.NewBus()}
	c.wire(navigation.NewHistory(navigation.Location{Path: navigation.HomePath}))
	return c, nil
}

// wire builds a fresh session on the console's cookie jar.
func (c *Console) wire(history *navigation.History) {
	c.store = session.NewStore(c.bus)
	c.history = history

	endpoints := authclient.New(c.cfg.APIBaseURL, &http.Client{Jar: c.jar, Timeout: c.cfg.RequestTimeout})
	c.manager = auth.NewManager(c.store, endpoints, c.cfg.RefreshTimeout)

	base := http.DefaultTransport.(*http.Transport).Clone()
	c.api = apiclient.New(c.cfg.APIBaseURL, &http.Client{
		Jar:       c.jar,
		Timeout:   c.cfg.RequestTimeout,
		Transport: apiclient.NewTransport(base, c.store, c.manager, c.history),
	})
	c.probe = startup.NewProbe(c.manager, c.store)
}

// Shell runs the interactive dashboard until the user quits or ctx ends.
func (c *Console) Shell(ctx context.Context, in io.Reader, out io.Writer) error {
	events, unsubscribe := c.bus.Subscribe()
	defer unsubscribe()
	go logEvents(events)

	return shell.New(in, out, shell.Deps{
		Store:   c.store,
		Manager: c.manager,
		API:     c.api,
		History: c.history,
		Probe:   c.probe,
	}).Run(ctx)
}

// CheckResult is what Check observed at each step.
type CheckResult struct {
	UserID       string
	Patients     int
	Restored     bool
	RestoredUser string
	LoggedOut    bool
}

// Check signs in, reads a protected endpoint, then discards the in-memory
// session and verifies the startup probe restores it from the refresh
// cookie alone. It finishes by logging out and confirming the probe then
// fails.
func (c *Console) Check(ctx context.Context, email string, password string) (CheckResult, error) {
	var res CheckResult

	user, err := c.manager.Login(ctx, email, password)
	if err != nil {
		return res, fmt.Errorf("login: %w", err)
	}
	res.UserID = user.ID

	stats, err := c.api.Stats(ctx)
	if err != nil {
		return res, fmt.Errorf("dashboard stats: %w", err)
	}
	res.Patients = stats.Patients

	// Same jar, new in-memory session: a reload.
	c.wire(navigation.NewHistory(navigation.Location{Path: navigation.HomePath}))
	res.Restored = c.probe.Run(ctx)
	if !res.Restored {
		return res, fmt.Errorf("session was not restored: %w", c.probe.Err())
	}
	if u := c.store.User(); u != nil {
		res.RestoredUser = u.ID
	}

	c.manager.Logout(ctx)
	c.wire(navigation.NewHistory(navigation.Location{Path: navigation.HomePath}))
	res.LoggedOut = !c.probe.Run(ctx)
	return res, nil
}

func logEvents(events <-chan event.Event) {
	for e := range events {
		slog.Debug("session event", "type", e.Type, "payload", e.Payload)
	}
}
