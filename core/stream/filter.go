package stream

// Filter forwards only the values from in that satisfy keep. The returned
// channel closes when in closes. Subscription resolvers use it to apply
// client-supplied filters before a transport adapter sends anything.
//
// Example:
//
//	events := stream.Filter(sub.Events(ctx), filter.Match)
func Filter[T any](in <-chan T, keep func(T) bool) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for v := range in {
			if keep(v) {
				out <- v
			}
		}
	}()
	return out
}
