package broker

import (
	"context"
	"sync"
)

// Subscription is an independent, non-rewindable reader over one topic slot.
// Multiple subscriptions may share a slot; each tracks its own position.
//
// A subscription never observes a value older than the newest one present
// when it polls: values superseded between two polls are coalesced away.
type Subscription[T any] struct {
	slot *slot[T]
	done chan struct{}
	once sync.Once

	seen uint64 // last observed slot version, guarded by slot.mu
}

func newSubscription[T any](s *slot[T]) *Subscription[T] {
	return &Subscription[T]{
		slot: s,
		done: make(chan struct{}),
	}
}

// Next blocks until a value newer than the last observed one is available and
// returns it. When the topic has never been published to, Next waits for the
// first publish.
//
// Next returns ErrSubscriptionClosed after Close, or after the retention
// sweeper removed the underlying slot; a value published before removal is
// still delivered first. It returns the context error if ctx ends while
// waiting.
func (sub *Subscription[T]) Next(ctx context.Context) (T, error) {
	var zero T

	select {
	case <-sub.done:
		return zero, ErrSubscriptionClosed
	default:
	}

	s := sub.slot
	for {
		s.mu.Lock()
		if s.version > sub.seen {
			sub.seen = s.version
			v := s.value
			s.mu.Unlock()
			return v, nil
		}
		closed := s.closed
		wake := s.notify
		s.mu.Unlock()

		if closed {
			return zero, ErrSubscriptionClosed
		}

		select {
		case <-wake:
		case <-sub.done:
			return zero, ErrSubscriptionClosed
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// Events adapts the subscription into a channel for consumers that select
// over several sources, e.g. streaming transports. The channel closes when
// the subscription ends or ctx is done. At most one value is in flight at a
// time; newer values published while the consumer is busy coalesce as usual.
func (sub *Subscription[T]) Events(ctx context.Context) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for {
			v, err := sub.Next(ctx)
			if err != nil {
				return
			}
			select {
			case out <- v:
			case <-sub.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Close drops the subscriber's interest in the topic. It never removes the
// slot; that is the sweeper's job. Safe to call multiple times and
// concurrently with Next.
func (sub *Subscription[T]) Close() {
	sub.once.Do(func() {
		close(sub.done)
	})
}
