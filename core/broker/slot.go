package broker

import (
	"sync"
	"sync/atomic"
	"time"
)

// slot is the broadcast primitive for one topic key. It keeps only the most
// recently published value together with a version counter; readers compare
// the version against the last one they observed and wait on the notify
// channel when nothing new has arrived. Values superseded before a reader
// wakes up are coalesced away, never queued.
//
// The mutex guards value, version, closed and notify. The last-touched stamp
// is an atomic so the sweeper can inspect it without taking the slot lock.
type slot[T any] struct {
	touched atomic.Int64 // unix nanoseconds of the last publish or subscribe access

	mu      sync.Mutex
	value   T
	version uint64
	closed  bool
	notify  chan struct{}
}

func newSlot[T any](now time.Time) *slot[T] {
	s := &slot[T]{notify: make(chan struct{})}
	s.touched.Store(now.UnixNano())
	return s
}

// send stores v as the slot's current value and wakes every waiting reader
// by closing the notify channel and replacing it. Sending to a closed slot
// is a no-op: the slot has already been swept and its remaining readers are
// draining toward end-of-stream.
func (s *slot[T]) send(v T, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.value = v
	s.version++
	s.touched.Store(now.UnixNano())
	close(s.notify)
	s.notify = make(chan struct{})
}

// touch refreshes the last-access stamp without publishing anything.
func (s *slot[T]) touch(now time.Time) {
	s.touched.Store(now.UnixNano())
}

func (s *slot[T]) lastTouched() time.Time {
	return time.Unix(0, s.touched.Load())
}

// close marks the slot as finished and wakes waiting readers so they can
// observe end-of-stream. Idempotent. A value published before close is still
// delivered to readers that have not yet observed it.
func (s *slot[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.closed = true
	close(s.notify)
}
