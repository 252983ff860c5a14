package chat

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/chat-relay-api/databases"
	"github.com/linesmerrill/chat-relay-api/models"
)

// DefaultInactivityThreshold is how long a participant may stay silent before eviction
const DefaultInactivityThreshold = 10 * time.Second

// Reaper evicts participants that stopped sending heartbeats
type Reaper struct {
	Registry  *Registry
	DB        databases.MessageDatabase
	Clock     Clock
	Threshold time.Duration
}

// NewReaper creates a reaper evicting from registry and announcing departures in db
func NewReaper(registry *Registry, db databases.MessageDatabase, threshold time.Duration) *Reaper {
	if threshold <= 0 {
		threshold = DefaultInactivityThreshold
	}
	return &Reaper{
		Registry:  registry,
		DB:        db,
		Clock:     time.Now,
		Threshold: threshold,
	}
}

// Stale reports whether p has been silent for at least the threshold at now
func (rp *Reaper) Stale(p models.Participant, now time.Time) bool {
	return p.IdleSince(now) >= rp.Threshold
}

// Sweep runs one eviction pass and returns how many participants left.
// Failures on one participant are logged and the pass moves on; only a
// failure to list participants aborts it.
func (rp *Reaper) Sweep(ctx context.Context) (int, error) {
	snapshot, err := rp.Registry.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	now := rp.Clock()
	evicted := 0
	for _, p := range snapshot {
		if !rp.Stale(p, now) {
			continue
		}
		removed, err := rp.Registry.evict(ctx, p, func() {
			err := appendMessage(ctx, rp.DB, rp.Registry.QueryTimeout, rp.Clock(), models.NewStatusMessage(p.Name, models.StatusLeft))
			if err != nil {
				zap.S().Errorw("failed to announce eviction", "participant", p.Name, "error", err)
			}
		})
		if err != nil {
			zap.S().Errorw("failed to evict participant", "participant", p.Name, "error", err)
			continue
		}
		if !removed {
			zap.S().Debugw("participant came back before eviction", "participant", p.Name)
			continue
		}
		evicted++
		zap.S().Infow("participant evicted", "participant", p.Name, "idle", p.IdleSince(now))
	}
	return evicted, nil
}
