// Package subscriptions wires the domain brokers together. A single Hub is
// constructed at process startup, handed to mutation handlers (which publish
// after successful writes) and to subscription resolvers (which subscribe),
// and swept periodically by Run.
//
//	var cfg subscriptions.Config
//	config.MustLoad(&cfg)
//
//	hub := subscriptions.NewHub(cfg, subscriptions.WithHubLogger(log))
//
//	g, ctx := errgroup.WithContext(context.Background())
//	g.Go(func() error { return hub.Run(ctx) })
//
//	// mutation side
//	hub.PuzzleUpdated(prev, curr)
//
//	// subscription side
//	sub := hub.Puzzles.Subscribe()
//	defer sub.Close()
package subscriptions
