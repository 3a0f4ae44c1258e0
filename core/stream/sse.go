package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/cindy-puzzles/backend/core/broker"
)

// DefaultSSEKeepAlive is the default keep-alive interval for SSE connections.
const DefaultSSEKeepAlive = 30 * time.Second

type sseConfig struct {
	eventName   string
	keepAlive   time.Duration
	noKeepAlive bool
	onError     func(context.Context, error)
}

// SSEOption configures Server-Sent Events behavior.
type SSEOption func(*sseConfig)

// WithEventName sets the event name written on every SSE frame.
func WithEventName(name string) SSEOption {
	return func(c *sseConfig) {
		c.eventName = name
	}
}

// WithKeepAlive sets the keep-alive comment interval for SSE connections.
func WithKeepAlive(interval time.Duration) SSEOption {
	return func(c *sseConfig) {
		if interval > 0 {
			c.keepAlive = interval
		}
	}
}

// WithoutKeepAlive disables keep-alive comments.
func WithoutKeepAlive() SSEOption {
	return func(c *sseConfig) {
		c.noKeepAlive = true
	}
}

// WithSSEErrorHandler sets an error handler for streaming errors, e.g. for
// logging or monitoring. Write errors end the stream either way.
func WithSSEErrorHandler(fn func(context.Context, error)) SSEOption {
	return func(c *sseConfig) {
		c.onError = fn
	}
}

// SSE returns a handler that streams one broker subscription per request as
// Server-Sent Events. subscribe is invoked once per request so every client
// owns an independent subscription; it typically derives the topic key from
// the request. Each observed value is JSON-encoded into a data frame with a
// UUID event id. The stream ends when the client disconnects or the
// subscription completes (e.g. its slot was swept).
//
// Example:
//
//	mux.Handle("GET /sub/dialogues/{id}", stream.SSE(
//		func(r *http.Request) *broker.Subscription[messages.DialogueEvent] {
//			return hub.Dialogues.SubscribeTo("puzzle:" + r.PathValue("id"))
//		},
//		stream.WithEventName("dialogue"),
//	))
func SSE[T any](subscribe func(r *http.Request) *broker.Subscription[T], opts ...SSEOption) http.HandlerFunc {
	cfg := &sseConfig{
		keepAlive: DefaultSSEKeepAlive,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
			cfg.fail(r.Context(), err)
			return
		}
		flusher.Flush()

		sub := subscribe(r)
		defer sub.Close()

		events := sub.Events(r.Context())

		var keepAliveChan <-chan time.Time
		if !cfg.noKeepAlive {
			ticker := time.NewTicker(cfg.keepAlive)
			defer ticker.Stop()
			keepAliveChan = ticker.C
		}

		for {
			select {
			case <-r.Context().Done():
				return

			case <-keepAliveChan:
				if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
					cfg.fail(r.Context(), err)
					return
				}
				flusher.Flush()

			case v, open := <-events:
				if !open {
					// Subscription completed; tell the client not to retry
					// into a swept topic immediately.
					fmt.Fprint(w, "event: end\ndata: {}\n\n")
					flusher.Flush()
					return
				}

				data, err := json.Marshal(v)
				if err != nil {
					cfg.fail(r.Context(), err)
					continue
				}

				if err := writeFrame(w, cfg.eventName, data); err != nil {
					cfg.fail(r.Context(), err)
					return
				}
				flusher.Flush()
			}
		}
	}
}

func (c *sseConfig) fail(ctx context.Context, err error) {
	if c.onError != nil {
		c.onError(ctx, err)
	}
}

func writeFrame(w http.ResponseWriter, name string, data []byte) error {
	if name != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", name); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "id: %s\n", uuid.NewString()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
