package queue

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/factcheck"
	"github.com/veridex/veridex/internal/ingest"
	"github.com/veridex/veridex/internal/store"
)

// Completion is the terminal payload of one executed task. Collect
// tasks report counts; factcheck tasks report the scored result.
type Completion struct {
	TaskID string         `json:"task_id"`
	Op     string         `json:"op"`
	OK     bool           `json:"ok"`
	Error  string         `json:"error,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

// Handler executes dequeued tasks. It never panics and never returns
// an error: every outcome, including bad payloads and missing records,
// becomes a Completion so a poison task cannot wedge the worker loop.
type Handler struct {
	coordinator  *ingest.Coordinator
	orchestrator *factcheck.Orchestrator
	logger       *zap.Logger
}

// NewHandler creates a task handler.
func NewHandler(coordinator *ingest.Coordinator, orchestrator *factcheck.Orchestrator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		coordinator:  coordinator,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// Handle executes one task.
func (h *Handler) Handle(ctx context.Context, task *Task) Completion {
	switch task.Op {
	case OpCollect:
		return h.collect(ctx, task)
	case OpFactCheck:
		return h.factCheck(ctx, task)
	default:
		return h.failed(task, "unknown operation "+task.Op)
	}
}

func (h *Handler) collect(ctx context.Context, task *Task) Completion {
	var args CollectArgs
	if err := json.Unmarshal(task.Payload, &args); err != nil {
		return h.failed(task, "bad collect payload: "+err.Error())
	}
	if args.SourceID == "" {
		return h.failed(task, "collect: source_id is required")
	}

	stats, err := h.coordinator.CollectSource(ctx, args.SourceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return h.failed(task, "collect: source not found: "+args.SourceID)
		}
		return h.failed(task, err.Error())
	}

	return Completion{
		TaskID: task.ID,
		Op:     task.Op,
		OK:     true,
		Data: map[string]any{
			"source_id": stats.SourceID,
			"found":     stats.Found,
			"saved":     stats.Saved,
			"errors":    stats.Errors,
		},
	}
}

func (h *Handler) factCheck(ctx context.Context, task *Task) Completion {
	var args FactCheckArgs
	if err := json.Unmarshal(task.Payload, &args); err != nil {
		return h.failed(task, "bad factcheck payload: "+err.Error())
	}
	if args.PostID == "" {
		return h.failed(task, "factcheck: post_id is required")
	}

	result, err := h.orchestrator.RunPost(ctx, args.PostID, args.ManualSources)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return h.failed(task, "factcheck: post not found: "+args.PostID)
		}
		return h.failed(task, err.Error())
	}

	return Completion{
		TaskID: task.ID,
		Op:     task.Op,
		OK:     true,
		Data: map[string]any{
			"post_id":         result.PostID,
			"verdict":         string(result.Verdict),
			"confidence":      result.Confidence,
			"claim_count":     len(result.Claims),
			"reference_count": len(result.References),
		},
	}
}

func (h *Handler) failed(task *Task, reason string) Completion {
	h.logger.Warn("task failed",
		zap.String("task_id", task.ID),
		zap.String("op", task.Op),
		zap.String("reason", reason))
	return Completion{TaskID: task.ID, Op: task.Op, OK: false, Error: reason}
}
