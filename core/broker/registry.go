package broker

import "log/slog"

// Registry access. The structural lock guards only the slot map; it is never
// held while broadcasting a value or waiting, so delivery on one topic never
// contends with lookups or delivery on another.

// getOrCreate resolves the slot for key, constructing and inserting it on
// first access. The slot's last-access stamp is refreshed either way.
func (b *Broker[T]) getOrCreate(key string) *slot[T] {
	now := b.now()

	b.mu.Lock()
	s, ok := b.slots[key]
	if !ok {
		s = newSlot[T](now)
		b.slots[key] = s
	}
	b.mu.Unlock()

	if ok {
		s.touch(now)
	} else {
		b.logger.Debug("topic slot created", slog.String("topic", key))
	}
	return s
}

// lookup resolves the slot for key without creating one. A miss does not
// touch anything.
func (b *Broker[T]) lookup(key string) (*slot[T], bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.slots[key]
	return s, ok
}

// matching snapshots the slots whose keys satisfy pred. The caller delivers
// to them after the structural lock is released.
func (b *Broker[T]) matching(pred func(string) bool) []*slot[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	var matched []*slot[T]
	for key, s := range b.slots {
		if pred(key) {
			matched = append(matched, s)
		}
	}
	return matched
}
