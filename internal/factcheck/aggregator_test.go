package factcheck

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/search"
)

type stubPosts struct {
	posts []model.Post
	err   error
}

func (s *stubPosts) SearchPosts(ctx context.Context, keywords []string, limit int) ([]model.Post, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.posts) > limit {
		return s.posts[:limit], nil
	}
	return s.posts, nil
}

type stubSearch struct {
	results []search.Result
	err     error
	queries []string
}

func (s *stubSearch) Name() string { return "stub" }

func (s *stubSearch) Search(ctx context.Context, query string, limit int) ([]search.Result, error) {
	s.queries = append(s.queries, query)
	return s.results, s.err
}

func somePosts(n int) []model.Post {
	out := make([]model.Post, n)
	for i := range out {
		out[i] = model.Post{
			ID:      fmt.Sprintf("post-%d", i),
			Content: fmt.Sprintf("Stored announcement number %d about the budget.", i),
		}
	}
	return out
}

func TestClaimKeywords(t *testing.T) {
	assert.Equal(t, []string{"economy", "grew", "2023"},
		claimKeywords("The economy grew by 5% in 2023"))
	assert.Empty(t, claimKeywords("a b c"))
	assert.Len(t, claimKeywords("alpha bravo charlie delta echo"), 3, "capped at three per claim")
}

func TestAggregator_InternalCapPerClaim(t *testing.T) {
	a := NewAggregator(&stubPosts{posts: somePosts(8)}, nil, 10, nil)

	claims := []model.Claim{{Text: "The national budget grew substantially this year."}}
	refs := a.Gather(context.Background(), claims, nil, "")

	require.Len(t, refs, 5, "never more than five internal references per claim")
	for _, ref := range refs {
		assert.Equal(t, model.ReferenceInternalPost, ref.Type)
		assert.Equal(t, 0.7, ref.RelevanceScore)
		assert.NotEmpty(t, ref.PostID)
	}
}

func TestAggregator_ExcludesCheckedPost(t *testing.T) {
	posts := somePosts(3)
	a := NewAggregator(&stubPosts{posts: posts}, nil, 10, nil)

	claims := []model.Claim{{Text: "The national budget grew substantially this year."}}
	refs := a.Gather(context.Background(), claims, nil, "post-1")

	require.Len(t, refs, 2)
	for _, ref := range refs {
		assert.NotEqual(t, "post-1", ref.PostID)
	}
}

func TestAggregator_ManualSourcesAlwaysFullRelevance(t *testing.T) {
	a := NewAggregator(&stubPosts{}, nil, 10, nil)

	claims := []model.Claim{{Text: "The national budget grew substantially this year."}}
	refs := a.Gather(context.Background(), claims, []string{"https://example.com/report", ""}, "")

	require.Len(t, refs, 1, "empty manual entries are dropped")
	assert.Equal(t, model.ReferenceManual, refs[0].Type)
	assert.Equal(t, "https://example.com/report", refs[0].URL)
	assert.Equal(t, 1.0, refs[0].RelevanceScore)
}

func TestAggregator_OrderingInternalManualExternal(t *testing.T) {
	web := &stubSearch{results: []search.Result{
		{Title: "Coverage", URL: "https://news.example.com/1", Snippet: "External coverage."},
	}}
	a := NewAggregator(&stubPosts{posts: somePosts(1)}, web, 10, nil)

	claims := []model.Claim{{Text: "The national budget grew substantially this year."}}
	refs := a.Gather(context.Background(), claims, []string{"https://example.com/manual"}, "")

	require.Len(t, refs, 3)
	assert.Equal(t, model.ReferenceInternalPost, refs[0].Type)
	assert.Equal(t, model.ReferenceManual, refs[1].Type)
	assert.Equal(t, model.ReferenceExternalWeb, refs[2].Type)
	assert.Equal(t, 0.8, refs[2].RelevanceScore)
	assert.Equal(t, "stub", refs[2].Source)
}

func TestAggregator_CombinedQueryAcrossClaims(t *testing.T) {
	web := &stubSearch{}
	a := NewAggregator(&stubPosts{}, web, 10, nil)

	claims := []model.Claim{
		{Text: "The national budget grew substantially."},
		{Text: "Officials approved national spending."},
	}
	a.Gather(context.Background(), claims, nil, "")

	require.Len(t, web.queries, 1, "one combined query for the whole claim set")
	assert.Contains(t, web.queries[0], "national")
	assert.Contains(t, web.queries[0], "officials")
}

func TestAggregator_FailuresDegrade(t *testing.T) {
	web := &stubSearch{err: errors.New("search quota exhausted")}
	a := NewAggregator(&stubPosts{err: errors.New("store offline")}, web, 10, nil)

	claims := []model.Claim{{Text: "The national budget grew substantially this year."}}
	refs := a.Gather(context.Background(), claims, []string{"https://example.com/manual"}, "")

	require.Len(t, refs, 1, "manual references survive internal and external failures")
	assert.Equal(t, model.ReferenceManual, refs[0].Type)
}
