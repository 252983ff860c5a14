// Package embedded implements the participant and message databases on top of
// BadgerDB so the api can run without a mongo deployment.
package embedded

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

const (
	participantPrefix = "participant:"
	messagePrefix     = "msg:"
	messageSeqKey     = "seq:msg"

	// seqBandwidth is how many message ids are leased from badger at once
	seqBandwidth = 128
	// maxTxnRetries bounds the retries of a transaction hitting badger.ErrConflict
	maxTxnRetries = 5
)

// Store owns the badger handle shared by the participant and message databases
type Store struct {
	db  *badger.DB
	seq *badger.Sequence
	// appendMu orders message appends, see MessageDatabase.InsertOne
	appendMu sync.Mutex
}

// Open opens the store at path. An empty path keeps everything in memory.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	seq, err := db.GetSequence([]byte(messageSeqKey), seqBandwidth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to lease message sequence: %w", err)
	}
	return &Store{db: db, seq: seq}, nil
}

// Close releases the unused sequence lease and closes badger
func (s *Store) Close() error {
	if err := s.seq.Release(); err != nil {
		zap.S().Warnw("failed to release message sequence", "error", err)
	}
	return s.db.Close()
}

// Participants returns the participant database backed by this store
func (s *Store) Participants() *ParticipantDatabase {
	return &ParticipantDatabase{db: s.db}
}

// Messages returns the message database backed by this store
func (s *Store) Messages() *MessageDatabase {
	return &MessageDatabase{db: s.db, seq: s.seq, appendMu: &s.appendMu}
}

// update runs fn in a read-write transaction, retrying when a concurrent
// transaction touched the same keys first
func update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for i := 0; i < maxTxnRetries; i++ {
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}
