package chat

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/chat-relay-api/databases"
	"github.com/linesmerrill/chat-relay-api/models"
)

// Router is the only entry point for user written messages
type Router struct {
	Registry     *Registry
	DB           databases.MessageDatabase
	Clock        Clock
	QueryTimeout time.Duration
}

// NewRouter creates a router checking senders against registry and appending to db
func NewRouter(registry *Registry, db databases.MessageDatabase) *Router {
	return &Router{
		Registry:     registry,
		DB:           db,
		Clock:        time.Now,
		QueryTimeout: DefaultQueryTimeout,
	}
}

// Send appends a message from an active participant. The sender is checked
// first, so an unknown sender is rejected whatever the message looks like.
func (rt *Router) Send(ctx context.Context, from string, req models.MessageRequest) error {
	active, err := rt.Registry.IsActive(ctx, from)
	if err != nil {
		return err
	}
	if !active {
		return ErrInvalidSender
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	message := models.Message{
		From: from,
		To:   req.To,
		Text: req.Text,
		Type: req.Type,
	}
	if err := appendMessage(ctx, rt.DB, rt.QueryTimeout, rt.Clock(), message); err != nil {
		return err
	}
	zap.S().Debugw("message accepted", "from", from, "to", req.To, "type", req.Type)
	return nil
}

// appendMessage stamps the message with at and appends it to the log. Join
// and leave notices go through here too.
func appendMessage(ctx context.Context, db databases.MessageDatabase, timeout time.Duration, at time.Time, message models.Message) error {
	message.Time = at.Format(models.TimeLayout)

	qctx, cancel := storeContext(ctx, timeout)
	defer cancel()

	if err := db.InsertOne(qctx, message); err != nil {
		return storeError("append message", err)
	}
	return nil
}
