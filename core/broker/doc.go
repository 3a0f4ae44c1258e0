// Package broker provides an in-process publish/subscribe broker for fanning
// live update notifications out to many concurrent subscription streams. It
// backs the GraphQL subscription surface of the backend: mutation handlers
// publish after a successful write, subscription resolvers subscribe and
// adapt the resulting stream into protocol messages.
//
// # Model
//
// Each message type gets its own Broker[T], so payload types are checked at
// compile time. Within a broker, topics are partitioned by a string key; the
// empty DefaultKey is the type's global broadcast channel. Each topic is
// backed by a single slot holding only the most recently published value.
//
// Delivery is last-value-wins:
//
//   - A subscription created after N publishes observes the newest value
//     first, then each subsequent one.
//   - A subscription that falls behind observes only the latest value the
//     next time it polls; superseded values coalesce, they are never queued.
//
// Slots are created lazily on first subscribe. Publishing to a topic that has
// no slot is a normal "nobody is listening" condition and a silent no-op.
//
// # Lifecycle
//
// Slots are removed only by Cleanup, which evicts slots untouched for longer
// than the retention window (default three days). Subscriptions on a removed
// slot end gracefully: Next returns ErrSubscriptionClosed once any remaining
// unseen value has been delivered. Cleanup never schedules itself; a periodic
// driver such as subscriptions.Hub invokes it.
//
// # Usage
//
//	type PuzzleUpdated struct {
//		ID    int
//		Title string
//	}
//
//	b := broker.New[PuzzleUpdated](
//		broker.WithRetention(24*time.Hour),
//		broker.WithLogger(logger),
//	)
//
//	// Subscriber side, typically one per client connection:
//	sub := b.SubscribeTo("puzzle:42")
//	defer sub.Close()
//	go func() {
//		for {
//			ev, err := sub.Next(ctx)
//			if err != nil {
//				return // closed or ctx done
//			}
//			deliver(ev)
//		}
//	}()
//
//	// Publisher side, after a successful write:
//	b.PublishTo("puzzle:42", PuzzleUpdated{ID: 42, Title: "renamed"})
//
// PublishToAll delivers to every existing topic whose key satisfies a
// predicate, which suits hierarchical keys:
//
//	b.PublishToAll(func(key string) bool {
//		return strings.HasPrefix(key, "puzzle:42:")
//	}, ev)
//
// # Concurrency
//
// All methods are safe for concurrent use. The broker's structural lock
// guards only the topic map and is never held while delivering a value, so
// unrelated topics never contend on delivery. Publishes issued sequentially
// by one publisher are observed in that order by every subscriber of the
// slot; concurrent publishers are serialized by the slot in an unspecified
// relative order.
package broker
