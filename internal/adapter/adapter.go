// Package adapter converts configured sources into raw candidate items.
// Each source type maps to exactly one adapter; the registry resolves
// the mapping from the type enum.
package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/veridex/veridex/internal/model"
)

// RawItem is one candidate item fetched from an external source before
// deduplication.
type RawItem struct {
	ExternalID string
	Content    string
	OccurredAt time.Time
	Extra      map[string]any
}

// FetchError wraps an ordinary fetch failure: timeouts, empty feeds,
// unreachable hosts. It is non-fatal to the collection run; the
// coordinator records it and moves on.
type FetchError struct {
	SourceID string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch source %s: %v", e.SourceID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Adapter fetches raw candidate items for one source type. Fetch never
// fails fatally for ordinary network problems: it returns an empty list
// and a *FetchError instead.
type Adapter interface {
	Type() model.SourceType
	Fetch(ctx context.Context, src *model.Source, limit int) ([]RawItem, error)
}

// Registry maps the source type enum to adapter implementations.
type Registry struct {
	adapters map[model.SourceType]Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[model.SourceType]Adapter)}
}

// Register adds an adapter, replacing any previous one for its type.
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Type()] = a
}

// For resolves the adapter for a source type. An unknown type is a
// configuration error and fatal to the caller.
func (r *Registry) For(t model.SourceType) (Adapter, error) {
	a, ok := r.adapters[t]
	if !ok {
		return nil, &model.ValidationError{Field: "source type", Reason: string(t)}
	}
	return a, nil
}
