package stream_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cindy-puzzles/backend/core/broker"
	"github.com/cindy-puzzles/backend/core/stream"
)

type note struct {
	Text string `json:"text"`
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// sseLines starts the single reader goroutine for a stream and returns its
// lines; the channel closes when the stream ends. One reader per stream keeps
// successive readUntilPrefix calls from racing each other for lines.
func sseLines(r *bufio.Reader) <-chan string {
	lines := make(chan string, 16)
	go func() {
		defer close(lines)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			lines <- strings.TrimRight(line, "\n")
		}
	}()
	return lines
}

// readUntilPrefix scans SSE lines until one starts with prefix.
func readUntilPrefix(t *testing.T, lines <-chan string, prefix string) string {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatalf("stream ended before a %q line", prefix)
			}
			if strings.HasPrefix(line, prefix) {
				return line
			}
		case <-deadline:
			t.Fatalf("timeout waiting for a %q line", prefix)
		}
	}
}

func TestSSE_StreamsLatestValue(t *testing.T) {
	t.Parallel()

	b := broker.New[note]()

	// Keep the slot alive and give it a value before any client connects.
	warm := b.SubscribeTo("n:1")
	defer warm.Close()
	b.PublishTo("n:1", note{Text: "hello"})

	srv := httptest.NewServer(stream.SSE(
		func(r *http.Request) *broker.Subscription[note] {
			return b.SubscribeTo("n:1")
		},
		stream.WithEventName("note"),
		stream.WithoutKeepAlive(),
	))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := sseLines(bufio.NewReader(resp.Body))
	assert.Equal(t, "event: note", readUntilPrefix(t, lines, "event: "))
	assert.True(t, strings.HasPrefix(readUntilPrefix(t, lines, "id: "), "id: "))
	assert.Equal(t, `data: {"text":"hello"}`, readUntilPrefix(t, lines, "data: "))
}

func TestSSE_EndsWhenSlotSwept(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	b := broker.New[note](
		broker.WithRetention(72*time.Hour),
		broker.WithClock(clk.Now),
	)

	warm := b.SubscribeTo("n:1")
	defer warm.Close()
	b.PublishTo("n:1", note{Text: "first"})

	srv := httptest.NewServer(stream.SSE(
		func(r *http.Request) *broker.Subscription[note] {
			return b.SubscribeTo("n:1")
		},
		stream.WithoutKeepAlive(),
	))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	lines := sseLines(bufio.NewReader(resp.Body))
	readUntilPrefix(t, lines, "data: ")

	// Sweep the slot out from under the live stream.
	clk.Advance(96 * time.Hour)
	require.Equal(t, 1, b.Cleanup())

	assert.Equal(t, "event: end", readUntilPrefix(t, lines, "event: end"))
}

func TestFilter(t *testing.T) {
	t.Parallel()

	in := make(chan int)
	out := stream.Filter(in, func(v int) bool { return v%2 == 0 })

	go func() {
		defer close(in)
		for i := 1; i <= 6; i++ {
			in <- i
		}
	}()

	var got []int
	for v := range out {
		got = append(got, v)
	}
	assert.Equal(t, []int{2, 4, 6}, got)
}
