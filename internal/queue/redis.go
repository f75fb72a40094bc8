package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"github.com/veridex/veridex/internal/config"
)

// RedisQueue brokers tasks through a Redis list: producers LPUSH,
// workers BRPOP. Completions are published to a parallel results list
// for external observers.
type RedisQueue struct {
	client     *redis.Client
	queueKey   string
	resultsKey string
}

// NewRedisQueue connects to the broker.
func NewRedisQueue(cfg config.RedisConfig) *RedisQueue {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisQueue{
		client:     client,
		queueKey:   cfg.QueueKey,
		resultsKey: cfg.QueueKey + ":results",
	}
}

// Ping verifies the broker connection.
func (q *RedisQueue) Ping(ctx context.Context) error {
	return eris.Wrap(q.client.Ping(ctx).Err(), "redis ping")
}

// Close releases the client.
func (q *RedisQueue) Close() error {
	return q.client.Close()
}

// Enqueue implements Queue.
func (q *RedisQueue) Enqueue(ctx context.Context, op string, args any) (Handle, error) {
	task, err := NewTask(op, args)
	if err != nil {
		return Handle{}, err
	}

	encoded, err := json.Marshal(task)
	if err != nil {
		return Handle{}, eris.Wrap(err, "queue: marshal task")
	}
	if err := q.client.LPush(ctx, q.queueKey, encoded).Err(); err != nil {
		return Handle{}, eris.Wrap(err, "queue: push task")
	}
	return Handle{ID: task.ID}, nil
}

// Dequeue blocks up to timeout for the next task. Returns (nil, nil)
// when the wait times out.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*Task, error) {
	entry, err := q.client.BRPop(ctx, timeout, q.queueKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "queue: pop task")
	}
	if len(entry) != 2 {
		return nil, eris.New("queue: malformed brpop reply")
	}

	var task Task
	if err := json.Unmarshal([]byte(entry[1]), &task); err != nil {
		return nil, eris.Wrap(err, "queue: decode task")
	}
	return &task, nil
}

// PublishCompletion records a task outcome on the results list.
func (q *RedisQueue) PublishCompletion(ctx context.Context, completion Completion) error {
	encoded, err := json.Marshal(completion)
	if err != nil {
		return eris.Wrap(err, "queue: marshal completion")
	}
	return eris.Wrap(q.client.LPush(ctx, q.resultsKey, encoded).Err(), "queue: push completion")
}
