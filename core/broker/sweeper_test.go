package broker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cindy-puzzles/backend/core/broker"
)

// fakeClock lets sweep tests advance time without sleeping.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

const day = 24 * time.Hour

func TestBroker_Cleanup_RetentionWindow(t *testing.T) {
	t.Parallel()

	t.Run("retains slots within the window", func(t *testing.T) {
		t.Parallel()

		clk := newFakeClock()
		b := broker.New[puzzleUpdated](
			broker.WithRetention(3*day),
			broker.WithClock(clk.Now),
		)

		b.SubscribeTo("puzzle:1").Close() // touched on day 0

		clk.Advance(2 * day)
		assert.Equal(t, 0, b.Cleanup())
		assert.Equal(t, 1, b.Len())
	})

	t.Run("removes slots beyond the window", func(t *testing.T) {
		t.Parallel()

		clk := newFakeClock()
		b := broker.New[puzzleUpdated](
			broker.WithRetention(3*day),
			broker.WithClock(clk.Now),
		)

		b.SubscribeTo("puzzle:1").Close()

		clk.Advance(4 * day)
		assert.Equal(t, 1, b.Cleanup())
		assert.Equal(t, 0, b.Len())
	})

	t.Run("exactly at the threshold is retained", func(t *testing.T) {
		t.Parallel()

		clk := newFakeClock()
		b := broker.New[puzzleUpdated](
			broker.WithRetention(3*day),
			broker.WithClock(clk.Now),
		)

		b.SubscribeTo("puzzle:1").Close()

		clk.Advance(3 * day)
		assert.Equal(t, 0, b.Cleanup(), "removal requires strictly older than the window")

		clk.Advance(time.Nanosecond)
		assert.Equal(t, 1, b.Cleanup())
	})
}

func TestBroker_Cleanup_AccessResetsStaleness(t *testing.T) {
	t.Parallel()

	t.Run("publish refreshes the stamp", func(t *testing.T) {
		t.Parallel()

		clk := newFakeClock()
		b := broker.New[puzzleUpdated](
			broker.WithRetention(3*day),
			broker.WithClock(clk.Now),
		)

		sub := b.SubscribeTo("puzzle:1")
		defer sub.Close()

		clk.Advance(2 * day)
		b.PublishTo("puzzle:1", puzzleUpdated{ID: 1})

		clk.Advance(2 * day) // 4 days since creation, 2 since last publish
		assert.Equal(t, 0, b.Cleanup())
		assert.Equal(t, 1, b.Len())
	})

	t.Run("subscribe refreshes the stamp", func(t *testing.T) {
		t.Parallel()

		clk := newFakeClock()
		b := broker.New[puzzleUpdated](
			broker.WithRetention(3*day),
			broker.WithClock(clk.Now),
		)

		b.SubscribeTo("puzzle:1").Close()

		clk.Advance(2 * day)
		b.SubscribeTo("puzzle:1").Close()

		clk.Advance(2 * day)
		assert.Equal(t, 0, b.Cleanup())
	})

	t.Run("publish to an absent key does not stamp anything", func(t *testing.T) {
		t.Parallel()

		clk := newFakeClock()
		b := broker.New[puzzleUpdated](
			broker.WithRetention(3*day),
			broker.WithClock(clk.Now),
		)

		b.PublishTo("puzzle:404", puzzleUpdated{ID: 404})
		assert.Equal(t, 0, b.Len())
	})
}

func TestBroker_Cleanup_GracefulEndOfStream(t *testing.T) {
	t.Parallel()

	t.Run("blocked reader is woken with closed error", func(t *testing.T) {
		t.Parallel()

		clk := newFakeClock()
		b := broker.New[puzzleUpdated](
			broker.WithRetention(3*day),
			broker.WithClock(clk.Now),
		)

		sub := b.SubscribeTo("puzzle:1")
		defer sub.Close()

		errc := make(chan error, 1)
		go func() {
			_, err := sub.Next(context.Background())
			errc <- err
		}()

		time.Sleep(20 * time.Millisecond)
		clk.Advance(4 * day)
		require.Equal(t, 1, b.Cleanup())

		select {
		case err := <-errc:
			require.ErrorIs(t, err, broker.ErrSubscriptionClosed)
		case <-time.After(time.Second):
			t.Fatal("Next did not return after the slot was swept")
		}
	})

	t.Run("unseen value is drained before end-of-stream", func(t *testing.T) {
		t.Parallel()

		clk := newFakeClock()
		b := broker.New[puzzleUpdated](
			broker.WithRetention(3*day),
			broker.WithClock(clk.Now),
		)

		sub := b.SubscribeTo("puzzle:1")
		defer sub.Close()

		b.PublishTo("puzzle:1", puzzleUpdated{ID: 1, Title: "final"})

		clk.Advance(4 * day)
		require.Equal(t, 1, b.Cleanup())

		got, err := sub.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "final", got.Title)

		_, err = sub.Next(context.Background())
		require.ErrorIs(t, err, broker.ErrSubscriptionClosed)
	})

	t.Run("publishing after the sweep reaches nobody", func(t *testing.T) {
		t.Parallel()

		clk := newFakeClock()
		b := broker.New[puzzleUpdated](
			broker.WithRetention(3*day),
			broker.WithClock(clk.Now),
		)

		b.SubscribeTo("puzzle:1").Close()
		clk.Advance(4 * day)
		require.Equal(t, 1, b.Cleanup())

		// The slot is gone; this is the usual no-listener no-op again.
		b.PublishTo("puzzle:1", puzzleUpdated{ID: 1})
		assert.Equal(t, 0, b.Len())
	})
}

func TestBroker_Cleanup_Empty(t *testing.T) {
	t.Parallel()

	b := broker.New[puzzleUpdated]()
	assert.Equal(t, 0, b.Cleanup())
}
