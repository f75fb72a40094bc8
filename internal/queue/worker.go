package queue

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const dequeueTimeout = 5 * time.Second

// Worker consumes tasks from the Redis queue on a fixed number of
// concurrent consumers until its context is canceled.
type Worker struct {
	queue       *RedisQueue
	handler     *Handler
	concurrency int
	logger      *zap.Logger
}

// NewWorker creates a queue worker.
func NewWorker(queue *RedisQueue, handler *Handler, concurrency int, logger *zap.Logger) *Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		queue:       queue,
		handler:     handler,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run blocks until ctx is canceled. Broker errors back off and retry;
// task failures are recorded as completions and never stop the loop.
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w.consume(ctx, id)
		}(i)
	}
	wg.Wait()
}

func (w *Worker) consume(ctx context.Context, id int) {
	logger := w.logger.With(zap.Int("consumer", id))
	for {
		if ctx.Err() != nil {
			return
		}

		task, err := w.queue.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("dequeue failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(dequeueTimeout):
			}
			continue
		}
		if task == nil {
			continue
		}

		completion := w.handler.Handle(ctx, task)
		if err := w.queue.PublishCompletion(ctx, completion); err != nil {
			logger.Warn("completion not published",
				zap.String("task_id", task.ID),
				zap.Error(err))
		}
		logger.Info("task done",
			zap.String("task_id", task.ID),
			zap.String("op", task.Op),
			zap.Bool("ok", completion.OK))
	}
}
