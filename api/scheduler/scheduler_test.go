package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/chat-relay-api/chat"
	"github.com/linesmerrill/chat-relay-api/databases/embedded"
	"github.com/linesmerrill/chat-relay-api/databases/mocks"
)

type sweepResult struct {
	evicted int
	err     error
}

type fakeRecorder struct {
	results []sweepResult
}

func (f *fakeRecorder) RecordSweep(evicted int, err error) {
	f.results = append(f.results, sweepResult{evicted: evicted, err: err})
}

func TestScheduler_SweepRecordsEvictions(t *testing.T) {
	req := require.New(t)
	store, err := embedded.Open("")
	req.NoError(err)
	defer store.Close()

	registry := chat.NewRegistry(store.Participants(), store.Messages())
	req.NoError(registry.Join(context.Background(), "Ana"))

	reaper := chat.NewReaper(registry, store.Messages(), 10*time.Second)
	reaper.Clock = func() time.Time { return time.Now().Add(time.Minute) }

	recorder := &fakeRecorder{}
	s := NewScheduler(reaper, time.Second, recorder)
	s.Sweep()
	s.Sweep()

	req.Len(recorder.results, 2)
	assert.Equal(t, 1, recorder.results[0].evicted)
	assert.NoError(t, recorder.results[0].err)
	assert.Equal(t, 0, recorder.results[1].evicted)
}

func TestScheduler_SweepRecordsFailure(t *testing.T) {
	pdb := &mocks.ParticipantDatabase{}
	pdb.On("Find", mock.Anything).Return(nil, errors.New("connection reset"))
	mdb := &mocks.MessageDatabase{}

	recorder := &fakeRecorder{}
	s := NewScheduler(chat.NewReaper(chat.NewRegistry(pdb, mdb), mdb, 0), time.Second, recorder)
	s.Sweep()

	require.Len(t, recorder.results, 1)
	assert.ErrorIs(t, recorder.results[0].err, chat.ErrStore)
	assert.Equal(t, 0, recorder.results[0].evicted)
}

func TestScheduler_SweepWithoutRecorder(t *testing.T) {
	store, err := embedded.Open("")
	require.NoError(t, err)
	defer store.Close()

	registry := chat.NewRegistry(store.Participants(), store.Messages())
	s := NewScheduler(chat.NewReaper(registry, store.Messages(), 0), time.Second, nil)
	assert.NotPanics(t, s.Sweep)
}

func TestScheduler_StartStop(t *testing.T) {
	store, err := embedded.Open("")
	require.NoError(t, err)
	defer store.Close()

	registry := chat.NewRegistry(store.Participants(), store.Messages())
	s := NewScheduler(chat.NewReaper(registry, store.Messages(), 0), time.Second, nil)
	s.Start()
	assert.Len(t, s.cron.Entries(), 1)
	s.Stop()
}
