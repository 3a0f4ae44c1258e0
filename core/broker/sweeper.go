package broker

import "log/slog"

// Cleanup removes every slot whose last publish or subscribe access is
// strictly older than the retention window, and reports how many were
// removed. It does not schedule itself; callers invoke it periodically (see
// the subscriptions package).
//
// Removed slots are closed: subscriptions still holding them observe graceful
// end-of-stream from Next rather than an indefinite stall. Any access to a
// slot between sweeps resets its staleness, so an active topic is never
// removed.
func (b *Broker[T]) Cleanup() int {
	cutoff := b.now().Add(-b.retention)

	b.mu.Lock()
	var removed []*slot[T]
	for key, s := range b.slots {
		if s.lastTouched().Before(cutoff) {
			delete(b.slots, key)
			removed = append(removed, s)
		}
	}
	remaining := len(b.slots)
	b.mu.Unlock()

	// Close outside the structural lock; close wakes waiting readers.
	for _, s := range removed {
		s.close()
	}

	if len(removed) > 0 {
		b.logger.Debug("stale topic slots removed",
			slog.Int("removed", len(removed)),
			slog.Int("remaining", remaining))
	}
	return len(removed)
}
