// Package session holds the one in-memory credential of a running client.
//
// A Store is owned by whoever builds the client and is passed explicitly to
// the HTTP transport, the startup probe and the route guard. Nothing here is
// persisted: a new process starts unauthenticated.
package session

import (
	"sync"

	"clinic-admin/internal/event"
	"clinic-admin/internal/model"
)

type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
	StateRefreshing      State = "refreshing"
)

// Session is an immutable snapshot. AccessToken is non-empty iff User is
// non-nil.
type Session struct {
	AccessToken string
	User        *model.User
}

type Store struct {
	mu         sync.RWMutex
	current    Session
	refreshing bool
	bus        event.Bus
}

// NewStore returns an empty store. A nil bus disables transition events.
func NewStore(bus event.Bus) *Store {
	if bus == nil {
		bus = event.Discard{}
	}
	return &Store{bus: bus}
}

// Set replaces token and user together. An empty token or a nil user
// clears the session instead, so a half-populated session never exists.
func (s *Store) Set(token string, user *model.User) {
	if token == "" || user == nil {
		s.Clear()
		return
	}

	u := *user

	s.mu.Lock()
	s.current = Session{AccessToken: token, User: &u}
	s.refreshing = false
	s.mu.Unlock()

	s.bus.Publish(event.Event{Type: event.TypeSessionAuthenticated, Payload: u.ID})
}

// Clear drops token and user together. Clearing an empty store is a no-op
// apart from ending any refresh in progress.
func (s *Store) Clear() {
	s.mu.Lock()
	wasSet := s.current.AccessToken != "" || s.refreshing
	s.current = Session{}
	s.refreshing = false
	s.mu.Unlock()

	if wasSet {
		s.bus.Publish(event.Event{Type: event.TypeSessionCleared})
	}
}

// BeginRefresh marks a refresh in flight. The current token, if any, stays
// readable until Set or Clear ends the refresh.
func (s *Store) BeginRefresh() {
	s.mu.Lock()
	already := s.refreshing
	s.refreshing = true
	s.mu.Unlock()

	if !already {
		s.bus.Publish(event.Event{Type: event.TypeSessionRefreshing})
	}
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.AccessToken
}

// User returns a copy of the current user, or nil.
func (s *Store) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.User == nil {
		return nil
	}
	u := *s.current.User
	return &u
}

func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.current
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}

func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.refreshing:
		return StateRefreshing
	case s.current.AccessToken != "":
		return StateAuthenticated
	default:
		return StateUnauthenticated
	}
}
