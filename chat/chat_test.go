package chat

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/chat-relay-api/databases/embedded"
	"github.com/linesmerrill/chat-relay-api/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testChat struct {
	store    *embedded.Store
	clock    *fakeClock
	registry *Registry
	router   *Router
	feed     *Feed
	reaper   *Reaper
}

func newTestChat(t *testing.T) *testChat {
	t.Helper()
	store, err := embedded.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	clock := newFakeClock()
	registry := NewRegistry(store.Participants(), store.Messages())
	registry.Clock = clock.Now
	router := NewRouter(registry, store.Messages())
	router.Clock = clock.Now
	reaper := NewReaper(registry, store.Messages(), 10*time.Second)
	reaper.Clock = clock.Now

	return &testChat{
		store:    store,
		clock:    clock,
		registry: registry,
		router:   router,
		feed:     NewFeed(registry, store.Messages()),
		reaper:   reaper,
	}
}

// log returns the whole message log as seen by a reader who can see everything it wrote
func (c *testChat) log(t *testing.T, reader string) []models.Message {
	t.Helper()
	messages, err := c.store.Messages().FindVisible(t.Context(), reader, 1000)
	require.NoError(t, err)
	return messages
}

func statusCount(messages []models.Message, name, text string) int {
	n := 0
	for _, m := range messages {
		if m.Type == models.MessageTypeStatus && m.From == name && m.Text == text {
			n++
		}
	}
	return n
}
