package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingDrops struct {
	n int
}

func (c *countingDrops) NotificationDropped() {
	c.n++
}

func TestQueuePushAndDrain(t *testing.T) {
	t.Parallel()

	q := NewQueue(4, nil)
	q.Success("users", "User created successfully!")
	q.Error("users", "Failed to delete user.")

	got := q.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, LevelSuccess, got[0].Level)
	assert.Equal(t, "User created successfully!", got[0].Message)
	assert.NotEmpty(t, got[0].ID)
	assert.NotEmpty(t, got[0].Timestamp)
	assert.Equal(t, LevelError, got[1].Level)

	assert.Empty(t, q.Drain())
}

func TestQueueNeverBlocksWhenFull(t *testing.T) {
	t.Parallel()

	drops := &countingDrops{}
	q := NewQueue(2, drops)

	q.Info("a", "1")
	q.Info("a", "2")
	q.Info("a", "3")

	got := q.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].Message)
	assert.Equal(t, "3", got[1].Message)
	assert.Equal(t, 1, q.Dropped())
	assert.Equal(t, 1, drops.n)
}

func TestQueueSubscribe(t *testing.T) {
	t.Parallel()

	q := NewQueue(1, nil)
	events, unsubscribe := q.Subscribe()

	q.Warning("guard", "Access denied")
	q.Warning("guard", "Access denied again")

	first := <-events
	assert.Equal(t, "Access denied", first.Message)
	// one drop from the full pending buffer, one from the full subscriber channel
	assert.Equal(t, 2, q.Dropped())

	unsubscribe()
	_, open := <-events
	assert.False(t, open)
}
