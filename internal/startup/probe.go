// Package startup restores a session at process start from the refresh
// cookie, if the server still honours one.
package startup

import (
	"context"
	"log/slog"
	"sync"

	"clinic-admin/internal/session"
)

type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// Probe runs the shared refresh exactly once per process. Nothing
// protected should render before Ready is closed.
type Probe struct {
	refresher Refresher
	store     *session.Store

	once          sync.Once
	ready         chan struct{}
	authenticated bool
	err           error
}

func NewProbe(refresher Refresher, store *session.Store) *Probe {
	return &Probe{refresher: refresher, store: store, ready: make(chan struct{})}
}

// Run performs the probe on first call and reports whether the session is
// authenticated afterwards. Later and concurrent calls wait for and return
// the first result. A failed probe leaves the store unauthenticated and
// is not an error for the caller; Err reports the cause.
func (p *Probe) Run(ctx context.Context) bool {
	p.once.Do(func() {
		defer close(p.ready)

		_, err := p.refresher.Refresh(context.WithoutCancel(ctx))
		if err != nil {
			p.err = err
			slog.Debug("no session to restore", "error", err)
			return
		}
		if user := p.store.User(); user != nil {
			p.authenticated = true
			slog.Info("session restored", "user_id", user.ID)
		}
	})
	return p.authenticated
}

// Ready is closed once the probe has completed, successfully or not.
func (p *Probe) Ready() <-chan struct{} {
	return p.ready
}

func (p *Probe) Err() error {
	<-p.ready
	return p.err
}
