package broker

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultKey is the topic key of a message type's global broadcast
	// channel. Any other key partitions the broadcast space, e.g. one topic
	// per entity.
	DefaultKey = ""

	// DefaultRetention is how long an untouched slot survives before the
	// sweeper may remove it. Matches the original deployment default of
	// three days.
	DefaultRetention = 72 * time.Hour
)

// Broker fans published values of one message type out to any number of
// concurrent subscribers, keyed by topic. Each value type gets its own Broker
// instance, so a slot can never hold a payload of the wrong type.
//
// Delivery is last-value-wins: a slot stores only the newest published value,
// a subscriber that falls behind observes just the latest one, and a
// subscriber created after several publishes starts from the most recent.
//
// Publishing to a topic nobody has ever subscribed to is a silent no-op.
// Slots are created lazily by Subscribe/SubscribeTo and removed only by
// Cleanup.
//
// Example:
//
//	puzzles := broker.New[PuzzleEvent](broker.WithRetention(24 * time.Hour))
//
//	sub := puzzles.Subscribe()
//	defer sub.Close()
//
//	puzzles.Publish(PuzzleEvent{...})
//
//	ev, err := sub.Next(ctx)
type Broker[T any] struct {
	retention time.Duration
	now       func() time.Time
	logger    *slog.Logger

	mu    sync.Mutex
	slots map[string]*slot[T]
}

type options struct {
	retention time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a Broker.
type Option func(*options)

// WithRetention sets the retention window after which an untouched slot
// becomes eligible for removal by Cleanup. Non-positive values are ignored.
func WithRetention(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.retention = d
		}
	}
}

// WithLogger configures structured logging for the broker.
// If not set, logging is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the broker's time source. Intended for tests that
// exercise retention without sleeping.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New creates a broker for values of type T.
func New[T any](opts ...Option) *Broker[T] {
	o := options{
		retention: DefaultRetention,
		now:       time.Now,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(&o)
	}

	return &Broker[T]{
		retention: o.retention,
		now:       o.now,
		logger:    o.logger,
		slots:     make(map[string]*slot[T]),
	}
}

// Publish delivers v on the global broadcast channel of T. If nobody has
// ever subscribed to it, the call is a no-op.
func (b *Broker[T]) Publish(v T) {
	b.PublishTo(DefaultKey, v)
}

// PublishTo delivers v on the topic identified by key. If no slot exists for
// the key, nobody is listening and the call is a no-op; it never creates a
// slot.
func (b *Broker[T]) PublishTo(key string, v T) {
	s, ok := b.lookup(key)
	if !ok {
		b.logger.Debug("publish to absent topic dropped", slog.String("topic", key))
		return
	}
	s.send(v, b.now())
}

// PublishToAll delivers v on every existing topic whose key satisfies pred.
// It creates no slots; a predicate matching nothing is not an error.
func (b *Broker[T]) PublishToAll(pred func(key string) bool, v T) {
	matched := b.matching(pred)
	now := b.now()
	for _, s := range matched {
		s.send(v, now)
	}
	b.logger.Debug("published to matching topics", slog.Int("matched", len(matched)))
}

// Subscribe returns a subscription on the global broadcast channel of T,
// creating its slot if needed.
func (b *Broker[T]) Subscribe() *Subscription[T] {
	return b.SubscribeTo(DefaultKey)
}

// SubscribeTo returns a subscription on the topic identified by key, creating
// its slot if needed. Every call returns an independent subscription; calls
// against the same key share the underlying slot.
//
// The subscription observes the newest value already published to the topic,
// if any, and then every subsequent newest value. Intermediate values a slow
// subscriber never polled for are coalesced away.
func (b *Broker[T]) SubscribeTo(key string) *Subscription[T] {
	return newSubscription(b.getOrCreate(key))
}

// Len reports the number of live slots.
func (b *Broker[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.slots)
}
