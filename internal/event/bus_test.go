package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversToSubscribers(t *testing.T) {
	bus := NewBus()
	ch, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	bus.Publish(Event{Type: TypeSessionCleared})

	got := <-ch
	assert.Equal(t, TypeSessionCleared, got.Type)
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.OccurredAt.IsZero())
}

func TestBus_UnsubscribeClosesChannelOnce(t *testing.T) {
	bus := NewBus()
	ch, unsubscribe := bus.Subscribe()

	unsubscribe()
	unsubscribe()

	_, open := <-ch
	assert.False(t, open)

	// Publishing after unsubscribe must not panic on the closed channel.
	require.NotPanics(t, func() { bus.Publish(Event{Type: TypeSessionRefreshing}) })
}

func TestBus_SlowSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus()
	_, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for i := 0; i < subscriberBuffer*2; i++ {
		bus.Publish(Event{Type: TypeSessionAuthenticated})
	}
}
