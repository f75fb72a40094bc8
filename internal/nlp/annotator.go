// Package nlp provides sentence annotation for claim extraction: named
// entities and verb presence.
package nlp

import (
	"context"
	"strings"

	"github.com/veridex/veridex/internal/config"
	"github.com/veridex/veridex/internal/model"
)

// Annotation carries what the claim extractor needs to know about a
// sentence.
type Annotation struct {
	Entities []string
	HasVerb  bool
}

// Annotator analyzes a single sentence.
type Annotator interface {
	// Name returns the annotator name.
	Name() string

	// Annotate analyzes one sentence. Errors degrade extraction for
	// that sentence, they never abort the fact check.
	Annotate(ctx context.Context, sentence string) (Annotation, error)
}

// New creates an annotator based on configuration. An empty provider
// returns (nil, nil): the pipeline then runs in degraded mode.
func New(cfg config.NLPConfig) (Annotator, error) {
	switch strings.ToLower(cfg.Provider) {
	case "heuristic":
		return NewHeuristicAnnotator(), nil
	case "openai":
		return NewOpenAIAnnotator(cfg)
	case "":
		return nil, nil
	default:
		return nil, &model.ValidationError{
			Field:  "nlp provider",
			Reason: cfg.Provider + " (supported: heuristic, openai)",
		}
	}
}
