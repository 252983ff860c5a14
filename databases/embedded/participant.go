package embedded

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/linesmerrill/chat-relay-api/databases"
	"github.com/linesmerrill/chat-relay-api/models"
)

// ParticipantDatabase keeps one key per participant name
type ParticipantDatabase struct {
	db *badger.DB
}

var _ databases.ParticipantDatabase = (*ParticipantDatabase)(nil)

func participantKey(name string) []byte {
	return []byte(participantPrefix + name)
}

func getParticipant(txn *badger.Txn, name string) (*models.Participant, error) {
	item, err := txn.Get(participantKey(name))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, databases.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	participant := &models.Participant{}
	err = item.Value(func(val []byte) error {
		return bson.Unmarshal(val, participant)
	})
	if err != nil {
		return nil, err
	}
	return participant, nil
}

func putParticipant(txn *badger.Txn, participant models.Participant) error {
	b, err := bson.Marshal(participant)
	if err != nil {
		return err
	}
	return txn.Set(participantKey(participant.Name), b)
}

// InsertOne stores the participant unless the name is already taken
func (p *ParticipantDatabase) InsertOne(ctx context.Context, participant models.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return update(p.db, func(txn *badger.Txn) error {
		_, err := getParticipant(txn, participant.Name)
		switch {
		case err == nil:
			return databases.ErrDuplicate
		case !errors.Is(err, databases.ErrNotFound):
			return err
		}
		return putParticipant(txn, participant)
	})
}

// FindOne returns the participant holding name
func (p *ParticipantDatabase) FindOne(ctx context.Context, name string) (*models.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var participant *models.Participant
	err := p.db.View(func(txn *badger.Txn) error {
		var err error
		participant, err = getParticipant(txn, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return participant, nil
}

// Find returns every participant
func (p *ParticipantDatabase) Find(ctx context.Context) ([]models.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var participants []models.Participant
	err := p.db.View(func(txn *badger.Txn) error {
		prefix := []byte(participantPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var participant models.Participant
			err := it.Item().Value(func(val []byte) error {
				return bson.Unmarshal(val, &participant)
			})
			if err != nil {
				return err
			}
			participants = append(participants, participant)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// UpdateLastStatus refreshes the heartbeat of an existing participant
func (p *ParticipantDatabase) UpdateLastStatus(ctx context.Context, name string, lastStatus int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return update(p.db, func(txn *badger.Txn) error {
		participant, err := getParticipant(txn, name)
		if err != nil {
			return err
		}
		participant.LastStatus = lastStatus
		return putParticipant(txn, *participant)
	})
}

// DeleteStale removes the participant while its heartbeat still equals lastStatus
func (p *ParticipantDatabase) DeleteStale(ctx context.Context, name string, lastStatus int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	removed := false
	err := update(p.db, func(txn *badger.Txn) error {
		removed = false
		participant, err := getParticipant(txn, name)
		if errors.Is(err, databases.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if participant.LastStatus != lastStatus {
			return nil
		}
		if err := txn.Delete(participantKey(name)); err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}
