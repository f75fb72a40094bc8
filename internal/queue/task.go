// Package queue provides the task queue connecting triggers (CLI,
// scheduler) to the collection and fact-check pipeline: a Redis-backed
// broker for worker processes and an inline queue for synchronous runs.
package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// Operations exposed for enqueue. Nothing else is accepted.
const (
	OpCollect   = "collect"
	OpFactCheck = "run"
)

// Task is the wire envelope pushed onto the broker.
type Task struct {
	ID         string          `json:"id"`
	Op         string          `json:"op"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// CollectArgs is the payload of a collect task.
type CollectArgs struct {
	SourceID string `json:"source_id"`
}

// FactCheckArgs is the payload of a factcheck task.
type FactCheckArgs struct {
	PostID        string   `json:"post_id"`
	ManualSources []string `json:"manual_sources,omitempty"`
}

// Handle identifies an enqueued task.
type Handle struct {
	ID string `json:"id"`
}

// Queue accepts tasks for asynchronous execution.
type Queue interface {
	Enqueue(ctx context.Context, op string, args any) (Handle, error)
}

// NewTask validates the operation name and wraps the args in an
// envelope.
func NewTask(op string, args any) (*Task, error) {
	if op != OpCollect && op != OpFactCheck {
		return nil, eris.Errorf("queue: unknown operation %q", op)
	}
	payload, err := json.Marshal(args)
	if err != nil {
		return nil, eris.Wrap(err, "queue: marshal task args")
	}
	return &Task{
		ID:         uuid.NewString(),
		Op:         op,
		Payload:    payload,
		EnqueuedAt: time.Now().UTC(),
	}, nil
}
