package factcheck

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/search"
)

const (
	maxKeywordsPerClaim = 3
	maxInternalPerClaim = 5
	maxCombinedKeywords = 10
	maxSnippetLen       = 200
	internalRelevance   = 0.7
	manualRelevance     = 1.0
	externalRelevance   = 0.8
	internalSourceLabel = "internal"
	manualSourceLabel   = "manual"
)

var keywordRe = regexp.MustCompile(`\b\w{4,}\b`)

// PostSearcher is the slice of the content store the aggregator uses.
type PostSearcher interface {
	SearchPosts(ctx context.Context, keywords []string, limit int) ([]model.Post, error)
}

// Aggregator gathers references for a claim set: keyword hits from the
// internal store, manually supplied URLs, and optionally external web
// search. The search provider may be nil.
type Aggregator struct {
	posts      PostSearcher
	provider   search.Provider
	maxResults int
	logger     *zap.Logger
}

// NewAggregator creates a reference aggregator. provider may be nil;
// maxResults caps external hits.
func NewAggregator(posts PostSearcher, provider search.Provider, maxResults int, logger *zap.Logger) *Aggregator {
	if maxResults <= 0 {
		maxResults = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		posts:      posts,
		provider:   provider,
		maxResults: maxResults,
		logger:     logger,
	}
}

// claimKeywords derives up to maxKeywordsPerClaim lowercased tokens of
// length >= 4 from the claim text.
func claimKeywords(text string) []string {
	matches := keywordRe.FindAllString(strings.ToLower(text), maxKeywordsPerClaim)
	return matches
}

// Gather collects references for the claims of the post identified by
// excludePostID. Order is fixed: internal hits grouped by claim in
// claim order, then manual sources, then external hits. Store and
// search failures degrade to fewer references, never abort.
func (a *Aggregator) Gather(ctx context.Context, claims []model.Claim, manualSources []string, excludePostID string) []model.Reference {
	var refs []model.Reference

	for _, claim := range claims {
		keywords := claimKeywords(claim.Text)
		if len(keywords) == 0 {
			continue
		}

		// Fetch one extra row so excluding the checked post itself
		// does not shrink the cap.
		posts, err := a.posts.SearchPosts(ctx, keywords, maxInternalPerClaim+1)
		if err != nil {
			a.logger.Warn("internal reference search failed", zap.Error(err))
			continue
		}

		count := 0
		for _, post := range posts {
			if post.ID == excludePostID {
				continue
			}
			if count >= maxInternalPerClaim {
				break
			}
			refs = append(refs, model.Reference{
				Type:           model.ReferenceInternalPost,
				Source:         internalSourceLabel,
				PostID:         post.ID,
				Content:        snippet(post.Content),
				RelevanceScore: internalRelevance,
			})
			count++
		}
	}

	for _, src := range manualSources {
		if src == "" {
			continue
		}
		refs = append(refs, model.Reference{
			Type:           model.ReferenceManual,
			Source:         manualSourceLabel,
			URL:            src,
			RelevanceScore: manualRelevance,
		})
	}

	refs = append(refs, a.external(ctx, claims)...)
	return refs
}

// external queries the web search provider with the combined top
// keywords across all claims.
func (a *Aggregator) external(ctx context.Context, claims []model.Claim) []model.Reference {
	if a.provider == nil {
		return nil
	}

	query := combinedKeywords(claims)
	if query == "" {
		return nil
	}

	results, err := a.provider.Search(ctx, query, a.maxResults)
	if err != nil {
		a.logger.Warn("external reference search failed",
			zap.String("provider", a.provider.Name()),
			zap.Error(err))
		return nil
	}

	refs := make([]model.Reference, 0, len(results))
	for _, res := range results {
		refs = append(refs, model.Reference{
			Type:           model.ReferenceExternalWeb,
			Source:         a.provider.Name(),
			URL:            res.URL,
			Content:        snippet(res.Title + " " + res.Snippet),
			RelevanceScore: externalRelevance,
		})
	}
	return refs
}

// keywordList merges each claim's keywords, deduplicated in first-seen
// order, capped at maxCombinedKeywords tokens.
func keywordList(claims []model.Claim) []string {
	seen := make(map[string]struct{})
	var combined []string
	for _, claim := range claims {
		for _, kw := range claimKeywords(claim.Text) {
			if _, ok := seen[kw]; ok {
				continue
			}
			seen[kw] = struct{}{}
			combined = append(combined, kw)
			if len(combined) >= maxCombinedKeywords {
				return combined
			}
		}
	}
	return combined
}

// combinedKeywords renders the merged keyword list as one search query.
func combinedKeywords(claims []model.Claim) string {
	return strings.Join(keywordList(claims), " ")
}

func snippet(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= maxSnippetLen {
		return text
	}
	return string([]rune(text)[:maxSnippetLen])
}
