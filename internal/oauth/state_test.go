package oauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumeIsOneTime(t *testing.T) {
	store := NewStateStore(time.Minute)

	state := store.Issue()
	assert.True(t, store.Consume(state))
	assert.False(t, store.Consume(state), "second consume must fail")
}

func TestConsumeUnknownState(t *testing.T) {
	store := NewStateStore(time.Minute)
	assert.False(t, store.Consume("never-issued"))
}

func TestConsumeExpiredState(t *testing.T) {
	store := NewStateStore(time.Millisecond)

	state := store.Issue()
	time.Sleep(5 * time.Millisecond)
	assert.False(t, store.Consume(state))
}

func TestIssuedStatesAreDistinct(t *testing.T) {
	store := NewStateStore(time.Minute)
	assert.NotEqual(t, store.Issue(), store.Issue())
}

func TestSweepDropsExpiredEntries(t *testing.T) {
	store := NewStateStore(time.Millisecond)
	store.StartSweep(5 * time.Millisecond)
	defer store.Stop()

	store.Issue()
	store.Issue()
	require.Equal(t, 2, store.Len())

	deadline := time.Now().Add(time.Second)
	for store.Len() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("sweep never removed expired states")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
