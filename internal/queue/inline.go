package queue

import (
	"context"
)

// InlineQueue executes tasks synchronously in-process. It backs the
// one-shot CLI commands, which need queue semantics without a broker.
type InlineQueue struct {
	handler     *Handler
	completions []Completion
}

// NewInlineQueue creates a synchronous queue.
func NewInlineQueue(handler *Handler) *InlineQueue {
	return &InlineQueue{handler: handler}
}

// Enqueue implements Queue by running the task immediately.
func (q *InlineQueue) Enqueue(ctx context.Context, op string, args any) (Handle, error) {
	task, err := NewTask(op, args)
	if err != nil {
		return Handle{}, err
	}
	q.completions = append(q.completions, q.handler.Handle(ctx, task))
	return Handle{ID: task.ID}, nil
}

// Completions returns every outcome recorded so far, in execution
// order.
func (q *InlineQueue) Completions() []Completion {
	return q.completions
}
