package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-admin/internal/event"
	"clinic-admin/internal/model"
)

func assertConsistent(t *testing.T, s *Store) {
	t.Helper()
	snap := s.Snapshot()
	assert.Equal(t, snap.AccessToken != "", snap.User != nil, "token and user must be present together")
	assert.Equal(t, snap.AccessToken != "", s.IsAuthenticated())
}

func TestStore_StartsEmpty(t *testing.T) {
	s := NewStore(nil)

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.User())
	assert.Equal(t, StateUnauthenticated, s.State())
	assertConsistent(t, s)
}

func TestStore_SetAndClear(t *testing.T) {
	s := NewStore(nil)

	s.Set("T1", &model.User{ID: "u1", Email: "a@clinic.com"})
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "T1", s.Token())
	assert.Equal(t, "u1", s.User().ID)
	assert.Equal(t, StateAuthenticated, s.State())
	assertConsistent(t, s)

	s.Clear()
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	assert.Equal(t, StateUnauthenticated, s.State())
	assertConsistent(t, s)
}

func TestStore_PartialSetClears(t *testing.T) {
	s := NewStore(nil)
	s.Set("T1", &model.User{ID: "u1"})

	s.Set("T2", nil)
	assertConsistent(t, s)
	assert.False(t, s.IsAuthenticated())

	s.Set("T1", &model.User{ID: "u1"})
	s.Set("", &model.User{ID: "u1"})
	assertConsistent(t, s)
	assert.False(t, s.IsAuthenticated())
}

func TestStore_UserIsCopied(t *testing.T) {
	s := NewStore(nil)
	user := &model.User{ID: "u1", Name: "Dr. Admin"}
	s.Set("T1", user)

	user.Name = "mutated"
	got := s.User()
	got.Role = "mutated"

	assert.Equal(t, "Dr. Admin", s.User().Name)
	assert.Empty(t, s.User().Role)
}

func TestStore_RefreshingState(t *testing.T) {
	s := NewStore(nil)
	s.Set("T1", &model.User{ID: "u1"})

	s.BeginRefresh()
	assert.Equal(t, StateRefreshing, s.State())
	assert.Equal(t, "T1", s.Token(), "old token stays readable while refreshing")

	s.Set("T2", &model.User{ID: "u1"})
	assert.Equal(t, StateAuthenticated, s.State())

	s.BeginRefresh()
	s.Clear()
	assert.Equal(t, StateUnauthenticated, s.State())
}

func TestStore_ClearWhenEmptyIsIdempotent(t *testing.T) {
	bus := event.NewBus()
	ch, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	s := NewStore(bus)
	require.NotPanics(t, s.Clear)
	require.NotPanics(t, s.Clear)

	select {
	case e := <-ch:
		t.Fatalf("unexpected event %s", e.Type)
	default:
	}
}

func TestStore_PublishesTransitions(t *testing.T) {
	bus := event.NewBus()
	ch, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	s := NewStore(bus)
	s.Set("T1", &model.User{ID: "u1"})
	s.BeginRefresh()
	s.Clear()

	assert.Equal(t, event.TypeSessionAuthenticated, (<-ch).Type)
	assert.Equal(t, event.TypeSessionRefreshing, (<-ch).Type)
	assert.Equal(t, event.TypeSessionCleared, (<-ch).Type)
}

func TestStore_ConcurrentWritersKeepInvariant(t *testing.T) {
	s := NewStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.Set(fmt.Sprintf("T%d", i), &model.User{ID: fmt.Sprintf("u%d", i)})
		}(i)
		go func() {
			defer wg.Done()
			s.Clear()
			snap := s.Snapshot()
			if (snap.AccessToken != "") != (snap.User != nil) {
				t.Error("observed partial session")
			}
		}()
	}
	wg.Wait()

	assertConsistent(t, s)
}
