// Package apiclient is the outbound pipeline for protected API calls. The
// Transport attaches the session's bearer token and recovers from an
// expired access token by refreshing once and resubmitting once.
package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"clinic-admin/internal/metrics"
	"clinic-admin/internal/model"
	"clinic-admin/internal/navigation"
	"clinic-admin/internal/session"
)

// Refresher produces a new access token, sharing one refresh among
// concurrent callers. auth.Manager implements it.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// Transport is an http.RoundTripper for bearer-protected endpoints.
//
// A response other than 401 and every transport error are returned
// unchanged. A 401 triggers at most one refresh and one resubmission per
// call; the resubmitted result is returned whatever its status. When the
// refresh fails the session is already cleared, the navigator moves to
// the login route and the original 401 is returned.
type Transport struct {
	Base      http.RoundTripper
	Store     *session.Store
	Refresher Refresher
	Navigator navigation.Navigator
}

func NewTransport(base http.RoundTripper, store *session.Store, refresher Refresher, navigator navigation.Navigator) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base, Store: store, Refresher: refresher, Navigator: navigator}
}

// call is one logical request. retried flips once, before the single
// resubmission.
type call struct {
	req     *http.Request
	body    func() (io.ReadCloser, error)
	retried bool
}

func newCall(req *http.Request) (*call, error) {
	c := &call{req: req}
	if req.Body == nil || req.Body == http.NoBody {
		return c, nil
	}

	if req.GetBody != nil {
		c.body = req.GetBody
		_ = req.Body.Close()
		return c, nil
	}

	raw, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("buffer request body: %w", err)
	}
	c.body = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(raw)), nil
	}
	return c, nil
}

// attempt sends a copy of the original request; the caller's request is
// never modified.
func (c *call) attempt(base http.RoundTripper, token string) (*http.Response, error) {
	out := c.req.Clone(c.req.Context())
	if c.body != nil {
		body, err := c.body()
		if err != nil {
			return nil, fmt.Errorf("replay request body: %w", err)
		}
		out.Body = body
	}

	if token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	} else {
		out.Header.Del("Authorization")
	}
	return base.RoundTrip(out)
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	c, err := newCall(req)
	if err != nil {
		return nil, err
	}

	token := t.Store.Token()
	for {
		resp, err := c.attempt(t.Base, token)
		if err != nil || resp.StatusCode != http.StatusUnauthorized || c.retried {
			return resp, err
		}
		c.retried = true

		fresh, err := t.freshToken(req.Context(), token)
		if err != nil {
			metrics.RetriesTotal.WithLabelValues("abandoned").Inc()
			slog.Info("session ended; returning to login", "path", req.URL.Path, "error", err)
			t.Navigator.Navigate(navigation.Location{Path: navigation.LoginPath})
			return resp, nil
		}

		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		_ = resp.Body.Close()
		token = fresh
	}
}

// freshToken returns a token newer than sent. When another call already
// replaced it, the current token is reused without a new refresh. When
// another call's refresh already ended the session, there is nothing to
// retry with.
func (t *Transport) freshToken(ctx context.Context, sent string) (string, error) {
	current := t.Store.Token()
	switch {
	case current != "" && current != sent:
		metrics.RetriesTotal.WithLabelValues("reused_token").Inc()
		return current, nil
	case current == "" && sent != "":
		return "", model.ErrNotAuthenticated
	}

	token, err := t.Refresher.Refresh(ctx)
	if err != nil {
		return "", err
	}
	metrics.RetriesTotal.WithLabelValues("retried").Inc()
	return token, nil
}
