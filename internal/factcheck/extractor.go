package factcheck

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/nlp"
)

// minSegmentLen filters out fragments too short to carry a checkable
// statement.
const minSegmentLen = 20

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)
	numberRe        = regexp.MustCompile(`\d+[.,]?\d*`)
)

// Extractor turns post content into candidate claims. The annotator is
// optional: without one the extractor runs in degraded mode and tags
// every qualifying segment as a plain statement.
type Extractor struct {
	annotator nlp.Annotator
	logger    *zap.Logger
}

// NewExtractor creates a claim extractor. annotator may be nil.
func NewExtractor(annotator nlp.Annotator, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{annotator: annotator, logger: logger}
}

// Extract splits text into sentence-like segments and classifies each.
// A segment with a numeric token, or with both a named entity and a
// verb, becomes a factual_claim; anything else is a statement.
// Confidence is 0.7 when a number and an entity are both present,
// otherwise 0.5. Without an annotator every qualifying segment becomes
// a statement at 0.5; an annotation error degrades that segment the
// same way. Output order follows input order.
func (e *Extractor) Extract(ctx context.Context, text string) []model.Claim {
	var claims []model.Claim

	for _, segment := range sentenceSplitRe.Split(text, -1) {
		segment = strings.TrimSpace(segment)
		if utf8.RuneCountInString(segment) < minSegmentLen {
			continue
		}

		if e.annotator == nil {
			claims = append(claims, statementClaim(segment))
			continue
		}

		ann, err := e.annotator.Annotate(ctx, segment)
		if err != nil {
			// Annotation failure degrades this segment only.
			e.logger.Warn("sentence annotation failed", zap.Error(err))
			claims = append(claims, statementClaim(segment))
			continue
		}

		numbers := numberRe.FindAllString(segment, -1)

		claimType := model.ClaimTypeStatement
		if len(numbers) > 0 || (len(ann.Entities) > 0 && ann.HasVerb) {
			claimType = model.ClaimTypeFactualClaim
		}

		confidence := 0.5
		if len(numbers) > 0 && len(ann.Entities) > 0 {
			confidence = 0.7
		}

		var entities []model.Entity
		for _, name := range ann.Entities {
			entities = append(entities, model.Entity{Text: name})
		}

		claims = append(claims, model.Claim{
			Text:       segment,
			Type:       claimType,
			Confidence: confidence,
			Entities:   entities,
			Numbers:    numbers,
		})
	}

	return claims
}

// statementClaim is the no-annotation path: with no entity or verb
// signal available, a qualifying segment is recorded as a plain
// statement.
func statementClaim(text string) model.Claim {
	return model.Claim{Text: text, Type: model.ClaimTypeStatement, Confidence: 0.5}
}
