package databases

// go generate: mockery --name MessageDatabase

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/chat-relay-api/models"
)

const messageName = "messages"

// MessageDatabase contains the methods to use with the message database
type MessageDatabase interface {
	InsertOne(ctx context.Context, message models.Message) error
	// FindVisible returns at most limit messages readable by name, newest first
	FindVisible(ctx context.Context, name string, limit int) ([]models.Message, error)
}

type messageDatabase struct {
	db DatabaseHelper
	// appendMu keeps _id generation and commit in the same order within this process
	appendMu sync.Mutex
}

// NewMessageDatabase initializes a new instance of message database with the provided db connection
func NewMessageDatabase(db DatabaseHelper) MessageDatabase {
	return &messageDatabase{
		db: db,
	}
}

// visibilityFilter mirrors models.Message.VisibleTo
func visibilityFilter(name string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"to": models.Broadcast},
		bson.M{"to": name},
		bson.M{"from": name},
	}}
}

func (c *messageDatabase) InsertOne(ctx context.Context, message models.Message) error {
	c.appendMu.Lock()
	defer c.appendMu.Unlock()

	_, err := c.db.Collection(messageName).InsertOne(ctx, message)
	return err
}

func (c *messageDatabase) FindVisible(ctx context.Context, name string, limit int) ([]models.Message, error) {
	// ObjectIDs grow with insertion, so _id is the log order. time is HH:mm:ss and can't be sorted on.
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	var messages []models.Message
	cr, err := c.db.Collection(messageName).Find(ctx, visibilityFilter(name), opts)
	if err != nil {
		return nil, err
	}
	err = cr.All(ctx, &messages)
	if err != nil {
		return nil, err
	}
	return messages, nil
}
