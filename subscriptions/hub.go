package subscriptions

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/cindy-puzzles/backend/core/broker"
	"github.com/cindy-puzzles/backend/core/logger"
	"github.com/cindy-puzzles/backend/messages"
)

// Hub owns one broker per domain message type. It is constructed once at
// process startup and passed by shared ownership into everything that
// publishes or subscribes, so there is exactly one registry per message type
// per process and no implicit global state.
//
// Mutation handlers call the publish methods strictly after a successful
// write; subscription resolvers reach the brokers directly to subscribe.
type Hub struct {
	Puzzles    *broker.Broker[messages.PuzzleEvent]
	Dialogues  *broker.Broker[messages.DialogueEvent]
	UserAwards *broker.Broker[messages.UserAwardEvent]

	interval time.Duration
	log      *slog.Logger
	cleaners []cleaner
}

// cleaner is the sweep surface every broker exposes.
type cleaner interface {
	Cleanup() int
}

type hubOptions struct {
	log *slog.Logger
	now func() time.Time
}

// HubOption configures a Hub.
type HubOption func(*hubOptions)

// WithHubLogger configures structured logging for the hub and its brokers.
func WithHubLogger(log *slog.Logger) HubOption {
	return func(o *hubOptions) {
		if log != nil {
			o.log = log
		}
	}
}

// WithHubClock overrides the time source of every broker. Intended for
// retention tests.
func WithHubClock(now func() time.Time) HubOption {
	return func(o *hubOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// NewHub creates the hub with one broker per message type, all sharing the
// configured retention window.
func NewHub(cfg Config, opts ...HubOption) *Hub {
	o := hubOptions{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	brokerOpts := []broker.Option{
		broker.WithRetention(cfg.Retention()),
		broker.WithClock(o.now),
		broker.WithLogger(o.log),
	}

	h := &Hub{
		Puzzles:    broker.New[messages.PuzzleEvent](brokerOpts...),
		Dialogues:  broker.New[messages.DialogueEvent](brokerOpts...),
		UserAwards: broker.New[messages.UserAwardEvent](brokerOpts...),
		interval:   cfg.SweepInterval,
		log:        o.log,
	}
	h.cleaners = []cleaner{h.Puzzles, h.Dialogues, h.UserAwards}
	return h
}

// PuzzleCreated fans a freshly inserted puzzle out on the global puzzle
// channel.
func (h *Hub) PuzzleCreated(p messages.Puzzle) {
	h.Puzzles.Publish(messages.NewPuzzleCreated(p))
}

// PuzzleUpdated fans out an update. prev is the row before the write;
// subscription filters match against it.
func (h *Hub) PuzzleUpdated(prev, curr messages.Puzzle) {
	h.Puzzles.Publish(messages.NewPuzzleUpdated(prev, curr))
}

// DialogueCreated fans a new question out on the global dialogue channel and
// on every topic scoped to its puzzle, including per-participant ones.
func (h *Hub) DialogueCreated(d messages.Dialogue) {
	h.publishDialogue(messages.NewDialogueCreated(d))
}

// DialogueUpdated fans out an answered or edited question the same way as
// DialogueCreated.
func (h *Hub) DialogueUpdated(d messages.Dialogue) {
	h.publishDialogue(messages.NewDialogueUpdated(d))
}

func (h *Hub) publishDialogue(ev messages.DialogueEvent) {
	h.Dialogues.Publish(ev)
	h.Dialogues.PublishToAll(messages.DialogueTopicMatcher(ev.Dialogue.PuzzleID), ev)
}

// UserAwardGranted fans a granted award out on the global channel and on the
// recipient's topic.
func (h *Hub) UserAwardGranted(ua messages.UserAward) {
	ev := messages.NewUserAwardGranted(ua)
	h.UserAwards.Publish(ev)
	h.UserAwards.PublishTo(messages.UserAwardTopic(ua.UserID), ev)
}

// Cleanup sweeps every broker once and logs the result. Safe to call at any
// time; Run calls it periodically.
func (h *Hub) Cleanup() int {
	start := time.Now()
	removed := 0
	for _, c := range h.cleaners {
		removed += c.Cleanup()
	}

	if removed > 0 {
		h.log.Info("subscription sweep finished",
			logger.Component("subscriptions"),
			logger.Count("removed", removed),
			logger.Elapsed(start),
		)
	}
	return removed
}

// Run drives Cleanup on the configured interval until ctx ends. It returns
// nil on cancellation so it composes with errgroup shutdown:
//
//	g, ctx := errgroup.WithContext(context.Background())
//	g.Go(func() error { return hub.Run(ctx) })
func (h *Hub) Run(ctx context.Context) error {
	interval := h.interval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.log.Info("subscription sweeper started",
		logger.Component("subscriptions"),
		logger.Duration(interval),
	)

	for {
		select {
		case <-ctx.Done():
			h.log.Info("subscription sweeper stopped", logger.Component("subscriptions"))
			return nil
		case <-ticker.C:
			h.Cleanup()
		}
	}
}
