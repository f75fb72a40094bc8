package queue

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/model"
)

// SourceLister is the slice of the content store the scheduler needs.
type SourceLister interface {
	ListActiveSources(ctx context.Context) ([]model.Source, error)
}

// Scheduler polls active sources and enqueues collect tasks for those
// whose schedule is due. Collection itself runs on queue workers; the
// scheduler only triggers.
type Scheduler struct {
	store    SourceLister
	queue    Queue
	interval time.Duration
	logger   *zap.Logger

	// enqueued guards against re-triggering a due source on every poll
	// while its collect task is still waiting for a worker.
	enqueued map[string]time.Time
}

// NewScheduler creates a schedule poller.
func NewScheduler(store SourceLister, queue Queue, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		store:    store,
		queue:    queue,
		interval: interval,
		logger:   logger,
		enqueued: make(map[string]time.Time),
	}
}

// Run polls until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Tick(ctx, time.Now().UTC())
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Tick(ctx, now.UTC())
		}
	}
}

// Tick runs one scheduling pass and returns how many collect tasks
// were enqueued.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) int {
	sources, err := s.store.ListActiveSources(ctx)
	if err != nil {
		s.logger.Error("schedule poll failed", zap.Error(err))
		return 0
	}

	triggered := 0
	for _, src := range sources {
		schedule, err := ParseSchedule(src.Config)
		if err != nil {
			s.logger.Warn("source has an invalid schedule",
				zap.String("source_id", src.ID),
				zap.Error(err))
			continue
		}
		if schedule == nil {
			continue
		}

		last := src.LastCollectedAt
		if pending, ok := s.enqueued[src.ID]; ok {
			if last == nil || pending.After(*last) {
				last = &pending
			}
		}
		if !Due(schedule, last, now) {
			continue
		}

		handle, err := s.queue.Enqueue(ctx, OpCollect, CollectArgs{SourceID: src.ID})
		if err != nil {
			s.logger.Error("collect task not enqueued",
				zap.String("source_id", src.ID),
				zap.Error(err))
			continue
		}

		s.enqueued[src.ID] = now
		triggered++
		s.logger.Info("collect scheduled",
			zap.String("source_id", src.ID),
			zap.String("task_id", handle.ID))
	}
	return triggered
}
