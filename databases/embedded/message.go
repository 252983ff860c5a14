package embedded

import (
	"context"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/linesmerrill/chat-relay-api/databases"
	"github.com/linesmerrill/chat-relay-api/models"
)

// MessageDatabase appends messages under "msg:{seq}" keys. The sequence is
// zero padded to 20 digits so lexicographic key order is insertion order.
type MessageDatabase struct {
	db       *badger.DB
	seq      *badger.Sequence
	appendMu *sync.Mutex
}

var _ databases.MessageDatabase = (*MessageDatabase)(nil)

func messageKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", messagePrefix, seq))
}

// InsertOne appends the message at the end of the log. Ids are allocated and
// committed under one lock, so a reader never sees a message appear behind
// one it has already read.
func (m *MessageDatabase) InsertOne(ctx context.Context, message models.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := bson.Marshal(message)
	if err != nil {
		return err
	}

	m.appendMu.Lock()
	defer m.appendMu.Unlock()

	seq, err := m.seq.Next()
	if err != nil {
		return fmt.Errorf("failed to allocate message id: %w", err)
	}
	// keys are never reused so this write cannot conflict
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(seq), b)
	})
}

// FindVisible walks the log backwards and keeps the first limit messages name can read
func (m *MessageDatabase) FindVisible(ctx context.Context, name string, limit int) ([]models.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var messages []models.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(messagePrefix)
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		// seek past the highest possible key, reverse iteration then lands on the newest message
		for it.Seek(append(prefix, 0xff)); it.ValidForPrefix(prefix) && len(messages) < limit; it.Next() {
			var message models.Message
			err := it.Item().Value(func(val []byte) error {
				return bson.Unmarshal(val, &message)
			})
			if err != nil {
				return err
			}
			if message.VisibleTo(name) {
				messages = append(messages, message)
			}
		}
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}
