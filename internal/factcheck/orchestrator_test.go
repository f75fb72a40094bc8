package factcheck

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/nlp"
	"github.com/veridex/veridex/internal/store"
)

var testDBCounter int64

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:factchecktest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	s := store.New(db)
	require.NoError(t, s.AutoMigrate())
	return s
}

func newTestOrchestrator(s *store.Store) *Orchestrator {
	extractor := NewExtractor(nlp.NewHeuristicAnnotator(), nil)
	aggregator := NewAggregator(s, nil, 10, nil)
	return NewOrchestrator(s, extractor, aggregator, nil)
}

func insertPost(t *testing.T, s *store.Store, src *model.Source, externalID, content string) *model.Post {
	t.Helper()
	post, err := model.NewPost(src.ID, externalID, content, time.Now(), nil)
	require.NoError(t, err)
	created, err := s.InsertPost(context.Background(), post)
	require.NoError(t, err)
	require.True(t, created)
	return post
}

func seedSource(t *testing.T, s *store.Store) *model.Source {
	t.Helper()
	src, err := model.NewSource("feed", "https://example.com/feed", "group-1", nil)
	require.NoError(t, err)
	require.NoError(t, s.CreateSource(context.Background(), src))
	return src
}

func TestOrchestrator_NoClaimsFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	src := seedSource(t, s)
	post := insertPost(t, s, src, "p1", "Hi. Ok.")

	result, err := newTestOrchestrator(s).Run(ctx, post, nil)
	require.NoError(t, err)

	assert.Equal(t, model.VerdictVerified, result.Verdict)
	assert.Equal(t, 0.3, result.Confidence)
	assert.Empty(t, result.References)
	assert.Equal(t, ReasonNoClaims, result.Metadata["reason"])
	assert.Equal(t, "system", result.CheckedBy)

	stored, err := s.LatestResult(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, result.ID, stored.ID)
}

func TestOrchestrator_ClaimsWithoutReferences(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	src := seedSource(t, s)
	post := insertPost(t, s, src, "p1", "Something nobody else wrote about anywhere.")

	result, err := newTestOrchestrator(s).Run(ctx, post, nil)
	require.NoError(t, err)

	assert.Equal(t, model.VerdictDisputed, result.Verdict)
	assert.Equal(t, 0.3, result.Confidence)
	require.Len(t, result.Claims, 1)
}

func TestOrchestrator_InternalCorroborationRaisesVerdict(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	src := seedSource(t, s)

	// Three stored posts share the claim keywords of the checked post.
	for i := 0; i < 3; i++ {
		insertPost(t, s, src, fmt.Sprintf("bg-%d", i),
			fmt.Sprintf("Earlier budget report %d confirms the spending numbers.", i))
	}
	post := insertPost(t, s, src, "p1", "The budget spending grew by 12% last year.")

	result, err := newTestOrchestrator(s).Run(ctx, post, nil)
	require.NoError(t, err)

	assert.Equal(t, model.VerdictVerified, result.Verdict)
	assert.Equal(t, 0.8, result.Confidence)
	assert.GreaterOrEqual(t, len(result.References), 3)
	for _, ref := range result.References {
		assert.NotEqual(t, post.ID, ref.PostID, "the checked post never corroborates itself")
	}
}

func TestOrchestrator_ManualSourcesOnly(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	src := seedSource(t, s)
	post := insertPost(t, s, src, "p1", "Nothing matches keywords from this unique zzqx content.")

	result, err := newTestOrchestrator(s).Run(ctx, post, []string{"https://example.com/evidence"})
	require.NoError(t, err)

	assert.Equal(t, model.VerdictTrue, result.Verdict)
	assert.Equal(t, 0.6, result.Confidence)
	require.Len(t, result.References, 1)
	assert.Equal(t, model.ReferenceManual, result.References[0].Type)
	assert.Equal(t, 1.0, result.References[0].RelevanceScore)
}

func TestOrchestrator_ResultMetadataCarriesKeywordsAndCounts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	src := seedSource(t, s)

	insertPost(t, s, src, "bg", "Earlier budget report confirms the spending numbers.")
	post := insertPost(t, s, src, "p1", "The budget spending grew by 12% last year.")

	result, err := newTestOrchestrator(s).Run(ctx, post, nil)
	require.NoError(t, err)

	keywords, ok := result.Metadata["keywords"].([]string)
	require.True(t, ok, "keywords metadata is a list, not a joined string")
	assert.Contains(t, keywords, "budget")
	assert.Equal(t, 1, result.Metadata["claim_count"])
	assert.Equal(t, 1, result.Metadata["internal_refs_count"])
	assert.Equal(t, 0, result.Metadata["external_refs_count"])
}

func TestOrchestrator_RerunAppendsResult(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	src := seedSource(t, s)
	post := insertPost(t, s, src, "p1", "The spending grew by 12% according to officials.")

	o := newTestOrchestrator(s)
	first, err := o.Run(ctx, post, nil)
	require.NoError(t, err)
	second, err := o.Run(ctx, post, nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID, "results append, never overwrite")

	latest, err := s.LatestResult(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}

func TestOrchestrator_RunNewChecksOnlyUncheckedPosts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	src := seedSource(t, s)

	checked := insertPost(t, s, src, "p1", "The first report covered local housing programs.")
	insertPost(t, s, src, "p2", "The second report covered 3 new school openings.")

	o := newTestOrchestrator(s)
	_, err := o.Run(ctx, checked, nil)
	require.NoError(t, err)

	results, err := o.RunNew(ctx, "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NotEqual(t, checked.ID, results[0].PostID)

	// Everything is checked now.
	results, err = o.RunNew(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestOrchestrator_RunPostNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := newTestOrchestrator(s).RunPost(context.Background(), "missing", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
