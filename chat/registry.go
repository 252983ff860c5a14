package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/chat-relay-api/databases"
	"github.com/linesmerrill/chat-relay-api/models"
)

// Registry tracks who is in the chat and when they were last seen.
// Join, Heartbeat and eviction of the same name never run at the same time.
type Registry struct {
	DB           databases.ParticipantDatabase
	MDB          databases.MessageDatabase
	Clock        Clock
	QueryTimeout time.Duration

	locks *nameLocks
}

// NewRegistry creates a registry writing participants to db and join notices to mdb
func NewRegistry(db databases.ParticipantDatabase, mdb databases.MessageDatabase) *Registry {
	return &Registry{
		DB:           db,
		MDB:          mdb,
		Clock:        time.Now,
		QueryTimeout: DefaultQueryTimeout,
		locks:        newNameLocks(),
	}
}

// Join admits name as a new participant and announces it to everyone.
// Surrounding whitespace is dropped the same way it is from the user header.
// The join stands even when the announcement cannot be stored.
func (r *Registry) Join(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if err := validateStruct(models.ParticipantRequest{Name: name}); err != nil {
		return err
	}

	unlock := r.locks.lock(name)
	defer unlock()

	now := r.Clock()
	qctx, cancel := storeContext(ctx, r.QueryTimeout)
	defer cancel()

	err := r.DB.InsertOne(qctx, models.Participant{Name: name, LastStatus: now.UnixMilli()})
	if errors.Is(err, databases.ErrDuplicate) {
		return ErrNameTaken
	}
	if err != nil {
		return storeError("insert participant", err)
	}

	if err := appendMessage(ctx, r.MDB, r.QueryTimeout, now, models.NewStatusMessage(name, models.StatusJoined)); err != nil {
		zap.S().Errorw("failed to announce participant", "participant", name, "error", err)
	}
	zap.S().Infow("participant joined", "participant", name)
	return nil
}

// Heartbeat marks name as seen now
func (r *Registry) Heartbeat(ctx context.Context, name string) error {
	if name == "" {
		return ErrNotRegistered
	}

	unlock := r.locks.lock(name)
	defer unlock()

	qctx, cancel := storeContext(ctx, r.QueryTimeout)
	defer cancel()

	err := r.DB.UpdateLastStatus(qctx, name, r.Clock().UnixMilli())
	if errors.Is(err, databases.ErrNotFound) {
		return ErrNotRegistered
	}
	if err != nil {
		return storeError("refresh participant", err)
	}
	return nil
}

// ListActive returns the current participants in no particular order
func (r *Registry) ListActive(ctx context.Context) ([]models.Participant, error) {
	qctx, cancel := storeContext(ctx, r.QueryTimeout)
	defer cancel()

	participants, err := r.DB.Find(qctx)
	if err != nil {
		return nil, storeError("list participants", err)
	}
	if participants == nil {
		participants = []models.Participant{}
	}
	return participants, nil
}

// IsActive reports whether name is currently a participant
func (r *Registry) IsActive(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, nil
	}
	qctx, cancel := storeContext(ctx, r.QueryTimeout)
	defer cancel()

	_, err := r.DB.FindOne(qctx, name)
	if errors.Is(err, databases.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storeError("find participant", err)
	}
	return true, nil
}

// evict removes the participant if its heartbeat has not moved since it was
// observed. It reports false when a heartbeat won the race. removed runs
// after a successful removal, still under the name lock, so a join of the
// same name cannot land between the removal and its follow up.
func (r *Registry) evict(ctx context.Context, observed models.Participant, removed func()) (bool, error) {
	unlock := r.locks.lock(observed.Name)
	defer unlock()

	qctx, cancel := storeContext(ctx, r.QueryTimeout)
	defer cancel()

	ok, err := r.DB.DeleteStale(qctx, observed.Name, observed.LastStatus)
	if err != nil {
		return false, storeError("remove participant", err)
	}
	if ok && removed != nil {
		removed()
	}
	return ok, nil
}
