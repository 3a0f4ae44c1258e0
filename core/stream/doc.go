// Package stream adapts broker subscriptions into outbound transports. The
// broker hands a subscription resolver a lazy sequence of latest-value
// observations; this package frames that sequence as Server-Sent Events or
// websocket messages and applies optional subscriber-side filtering.
//
// Every handler takes a subscribe callback invoked once per request, so each
// connected client owns an independent subscription and its disconnect
// releases only its own reader:
//
//	http.Handle("GET /sub/puzzles", stream.SSE(
//		func(r *http.Request) *broker.Subscription[messages.PuzzleEvent] {
//			return hub.Puzzles.Subscribe()
//		},
//		stream.WithEventName("puzzle"),
//	))
package stream
