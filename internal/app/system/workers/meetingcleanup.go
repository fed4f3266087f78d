// internal/app/system/workers/meetingcleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	meetingstore "github.com/gmgapp/gmg/internal/app/store/meetings"
	participantstore "github.com/gmgapp/gmg/internal/app/store/participants"
	planstore "github.com/gmgapp/gmg/internal/app/store/plans"
	"github.com/gmgapp/gmg/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// MeetingCleanup is a background worker that deletes meetings whose window
// ended long ago, together with their participants and plans.
type MeetingCleanup struct {
	meetings     *meetingstore.Store
	participants *participantstore.Store
	plans        *planstore.Store
	log          *zap.Logger
	interval     time.Duration
	retention    time.Duration
	now          func() time.Time
	stopCh       chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// NewMeetingCleanup creates a new meeting cleanup worker.
//
// Parameters:
//   - interval: how often to run cleanup (e.g., 1 hour)
//   - retention: how long a meeting is kept after its window ends (e.g., 30 days)
func NewMeetingCleanup(
	meetings *meetingstore.Store,
	participants *participantstore.Store,
	plans *planstore.Store,
	logger *zap.Logger,
	interval, retention time.Duration,
) *MeetingCleanup {
	return &MeetingCleanup{
		meetings:     meetings,
		participants: participants,
		plans:        plans,
		log:          logger,
		interval:     interval,
		retention:    retention,
		now:          time.Now,
		stopCh:       make(chan struct{}),
	}
}

// Start begins the background cleanup loop.
func (w *MeetingCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("meeting cleanup worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("retention", w.retention))
}

// Stop signals the worker to stop and waits for it to finish. It is safe to
// call more than once.
func (w *MeetingCleanup) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("meeting cleanup worker stopped")
	})
}

func (w *MeetingCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
			_, _ = w.RunOnce(ctx)
			cancel()
		}
	}
}

// RunOnce deletes every expired meeting and returns how many were removed.
// Participants and plans go first so a failure never leaves orphans behind a
// missing meeting.
func (w *MeetingCleanup) RunOnce(ctx context.Context) (int64, error) {
	cutoff := w.now().UTC().Add(-w.retention)

	ids, err := w.meetings.ExpiredIDs(ctx, cutoff)
	if err != nil {
		w.log.Error("failed to list expired meetings", zap.Error(err))
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	parts, err := w.participants.DeleteByMeetings(ctx, ids)
	if err != nil {
		w.log.Error("failed to delete participants of expired meetings", zap.Error(err))
		return 0, err
	}
	plans, err := w.plans.DeleteByMeetings(ctx, ids)
	if err != nil {
		w.log.Error("failed to delete plans of expired meetings", zap.Error(err))
		return 0, err
	}
	count, err := w.meetings.DeleteByIDs(ctx, ids)
	if err != nil {
		w.log.Error("failed to delete expired meetings", zap.Error(err))
		return 0, err
	}

	w.log.Info("deleted expired meetings",
		zap.Int64("meetings", count),
		zap.Int64("participants", parts),
		zap.Int64("plans", plans),
		zap.Time("cutoff", cutoff))
	return count, nil
}
