package factcheck

import (
	"context"

	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/model"
)

// ReasonNoClaims is the metadata reason recorded when extraction finds
// nothing checkable.
const ReasonNoClaims = "no_claims_found"

// Store is the slice of the content store the orchestrator needs.
type Store interface {
	PostSearcher
	GetPost(ctx context.Context, id string) (*model.Post, error)
	ListUncheckedPosts(ctx context.Context, sourceID string) ([]model.Post, error)
	SaveResult(ctx context.Context, result *model.FactCheckResult) error
}

// Orchestrator composes extraction, reference gathering, and scoring,
// and persists one result per invocation. Results are append-only:
// re-running a post adds a new, independently scored row.
type Orchestrator struct {
	store      Store
	extractor  *Extractor
	aggregator *Aggregator
	logger     *zap.Logger
}

// NewOrchestrator creates a fact-check orchestrator.
func NewOrchestrator(store Store, extractor *Extractor, aggregator *Aggregator, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		store:      store,
		extractor:  extractor,
		aggregator: aggregator,
		logger:     logger,
	}
}

// RunPost fact-checks a post by id.
func (o *Orchestrator) RunPost(ctx context.Context, postID string, manualSources []string) (*model.FactCheckResult, error) {
	post, err := o.store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return o.Run(ctx, post, manualSources)
}

// Run extracts claims, gathers references, scores the verdict, and
// persists the result. Extraction and gathering failures degrade to
// partial data; only result persistence is fatal.
func (o *Orchestrator) Run(ctx context.Context, post *model.Post, manualSources []string) (*model.FactCheckResult, error) {
	claims := o.extractor.Extract(ctx, post.Content)

	if len(claims) == 0 {
		result, err := model.NewFactCheckResult(
			post.ID, nil, model.VerdictVerified, 0.3, nil, "",
			model.JSONMap{"reason": ReasonNoClaims},
		)
		if err != nil {
			return nil, err
		}
		if err := o.store.SaveResult(ctx, result); err != nil {
			return nil, err
		}
		o.logger.Info("fact check finished",
			zap.String("post_id", post.ID),
			zap.String("verdict", string(result.Verdict)),
			zap.String("reason", ReasonNoClaims))
		return result, nil
	}

	references := o.aggregator.Gather(ctx, claims, manualSources, post.ID)
	verdict, confidence := Score(claims, references)

	internalRefs, externalRefs := 0, 0
	for _, ref := range references {
		switch ref.Type {
		case model.ReferenceInternalPost:
			internalRefs++
		case model.ReferenceExternalWeb:
			externalRefs++
		}
	}

	result, err := model.NewFactCheckResult(
		post.ID, claims, verdict, confidence, references, "",
		model.JSONMap{
			"keywords":            keywordList(claims),
			"claim_count":         len(claims),
			"internal_refs_count": internalRefs,
			"external_refs_count": externalRefs,
		},
	)
	if err != nil {
		return nil, err
	}
	if err := o.store.SaveResult(ctx, result); err != nil {
		return nil, err
	}

	o.logger.Info("fact check finished",
		zap.String("post_id", post.ID),
		zap.String("verdict", string(verdict)),
		zap.Float64("confidence", confidence),
		zap.Int("claims", len(claims)),
		zap.Int("references", len(references)))
	return result, nil
}

// RunNew fact-checks every post that has no result yet, optionally
// restricted to one source. Individual post failures are logged and
// skipped.
func (o *Orchestrator) RunNew(ctx context.Context, sourceID string) ([]*model.FactCheckResult, error) {
	posts, err := o.store.ListUncheckedPosts(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	var results []*model.FactCheckResult
	for i := range posts {
		result, err := o.Run(ctx, &posts[i], nil)
		if err != nil {
			o.logger.Error("fact check failed",
				zap.String("post_id", posts[i].ID),
				zap.Error(err))
			continue
		}
		results = append(results, result)
	}
	return results, nil
}
