package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cindy-puzzles/backend/core/broker"
)

const (
	// DefaultWSPingInterval is how often the server pings an idle client.
	DefaultWSPingInterval = 30 * time.Second

	defaultWSWriteTimeout = 10 * time.Second
)

type wsConfig struct {
	upgrader     *websocket.Upgrader
	pingInterval time.Duration
	writeTimeout time.Duration
	onError      func(context.Context, error)
}

// WSOption configures the websocket stream handler.
type WSOption func(*wsConfig)

// WithWSOriginCheck sets the origin check used during the upgrade handshake.
func WithWSOriginCheck(fn func(r *http.Request) bool) WSOption {
	return func(c *wsConfig) {
		c.upgrader.CheckOrigin = fn
	}
}

// WithWSAllowAnyOrigin disables origin checking. Intended for local
// development and tests.
func WithWSAllowAnyOrigin() WSOption {
	return func(c *wsConfig) {
		c.upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}
}

// WithWSPingInterval sets the server ping interval.
func WithWSPingInterval(interval time.Duration) WSOption {
	return func(c *wsConfig) {
		if interval > 0 {
			c.pingInterval = interval
		}
	}
}

// WithWSErrorHandler sets an error handler for upgrade and write errors.
func WithWSErrorHandler(fn func(context.Context, error)) WSOption {
	return func(c *wsConfig) {
		c.onError = fn
	}
}

// WebSocket returns a handler that upgrades the request and forwards one
// broker subscription per connection, each observed value as a JSON text
// message. Incoming client messages are read and discarded; a read error or
// client close ends the stream. When the subscription completes (the topic
// slot was swept), the server sends a normal close frame.
func WebSocket[T any](subscribe func(r *http.Request) *broker.Subscription[T], opts ...WSOption) http.HandlerFunc {
	cfg := &wsConfig{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		pingInterval: DefaultWSPingInterval,
		writeTimeout: defaultWSWriteTimeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := cfg.upgrader.Upgrade(w, r, nil)
		if err != nil {
			cfg.fail(r.Context(), err)
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Drain the read side so control frames are processed and a client
		// disconnect cancels the stream.
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		sub := subscribe(r)
		defer sub.Close()

		events := sub.Events(ctx)

		pinger := time.NewTicker(cfg.pingInterval)
		defer pinger.Stop()

		for {
			select {
			case <-ctx.Done():
				return

			case <-pinger.C:
				deadline := time.Now().Add(cfg.writeTimeout)
				if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					cfg.fail(ctx, err)
					return
				}

			case v, open := <-events:
				if !open {
					deadline := time.Now().Add(cfg.writeTimeout)
					msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "subscription ended")
					_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
					return
				}

				data, err := json.Marshal(v)
				if err != nil {
					cfg.fail(ctx, err)
					continue
				}

				_ = conn.SetWriteDeadline(time.Now().Add(cfg.writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					cfg.fail(ctx, err)
					return
				}
			}
		}
	}
}

func (c *wsConfig) fail(ctx context.Context, err error) {
	if c.onError != nil {
		c.onError(ctx, err)
	}
}
