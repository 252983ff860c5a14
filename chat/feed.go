package chat

import (
	"context"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/linesmerrill/chat-relay-api/databases"
	"github.com/linesmerrill/chat-relay-api/models"
)

// DefaultLimit caps Fetch when the caller gives no usable limit
const DefaultLimit = 100

// Feed serves the messages a participant is allowed to read
type Feed struct {
	Registry     *Registry
	DB           databases.MessageDatabase
	DefaultLimit int
	QueryTimeout time.Duration
}

// NewFeed creates a feed reading from db for participants of registry
func NewFeed(registry *Registry, db databases.MessageDatabase) *Feed {
	return &Feed{
		Registry:     registry,
		DB:           db,
		DefaultLimit: DefaultLimit,
		QueryTimeout: DefaultQueryTimeout,
	}
}

// ParseLimit turns the limit query value into a cap. Anything that is not a
// positive integer falls back to def.
func ParseLimit(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// Fetch returns up to limit messages visible to requester, newest first.
// A limit <= 0 means the default cap.
func (f *Feed) Fetch(ctx context.Context, requester string, limit int) ([]models.Message, error) {
	active, err := f.Registry.IsActive(ctx, requester)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrNotRegistered
	}
	if limit <= 0 {
		limit = f.DefaultLimit
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	qctx, cancel := storeContext(ctx, f.QueryTimeout)
	defer cancel()

	messages, err := f.DB.FindVisible(qctx, requester, limit)
	if err != nil {
		return nil, storeError("find messages", err)
	}
	return page(messages, requester, limit), nil
}

// page keeps the visible messages and truncates to limit. The store already
// filters and caps, this keeps the guarantee whatever the backend does.
func page(messages []models.Message, requester string, limit int) []models.Message {
	visible := lo.Filter(messages, func(m models.Message, _ int) bool {
		return m.VisibleTo(requester)
	})
	return lo.Slice(visible, 0, limit)
}
