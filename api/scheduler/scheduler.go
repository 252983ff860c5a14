package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/linesmerrill/chat-relay-api/chat"
)

// SweepRecorder receives the outcome of every sweep
type SweepRecorder interface {
	RecordSweep(evicted int, err error)
}

// Scheduler runs the inactivity reaper on a fixed period
type Scheduler struct {
	cron     *cron.Cron
	Reaper   *chat.Reaper
	Recorder SweepRecorder
	Period   time.Duration
	Timeout  time.Duration
}

// NewScheduler creates a scheduler sweeping with reaper every period.
// recorder may be nil.
func NewScheduler(reaper *chat.Reaper, period time.Duration, recorder SweepRecorder) *Scheduler {
	logger := cronLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		Reaper:   reaper,
		Recorder: recorder,
		Period:   period,
		Timeout:  time.Minute,
	}
}

// Start registers the sweep job and begins the schedule
func (s *Scheduler) Start() {
	s.cron.Schedule(cron.Every(s.Period), cron.FuncJob(s.Sweep))
	s.cron.Start()
	zap.S().Infow("Reaper scheduler started", "period", s.Period, "threshold", s.Reaper.Threshold)
}

// Stop waits for a running sweep to finish and stops the schedule
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Reaper scheduler stopped")
}

// Sweep runs a single reaper pass
func (s *Scheduler) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()

	evicted, err := s.Reaper.Sweep(ctx)
	if err != nil {
		zap.S().Errorw("reaper sweep failed", "error", err)
	} else if evicted > 0 {
		zap.S().Infow("reaper sweep finished", "evicted", evicted)
	}
	if s.Recorder != nil {
		s.Recorder.RecordSweep(evicted, err)
	}
}

// cronLogger routes cron's own logging through zap
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	zap.S().Debugw(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	zap.S().Errorw(msg, append(keysAndValues, "error", err)...)
}
