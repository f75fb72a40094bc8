// Package ingest coordinates collection runs: it resolves the adapter
// for a source, fetches raw items, and stores them as deduplicated
// posts.
package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/adapter"
	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/worker"
)

// Store is the slice of the content store the coordinator needs.
type Store interface {
	GetSource(ctx context.Context, id string) (*model.Source, error)
	ListActiveSources(ctx context.Context) ([]model.Source, error)
	PostExists(ctx context.Context, sourceID, externalID string) (bool, error)
	InsertPost(ctx context.Context, post *model.Post) (created bool, err error)
	TouchLastCollected(ctx context.Context, sourceID string, at time.Time) error
	UpsertDataset(ctx context.Context, rec *model.DatasetRecord) error
}

// Stats summarizes a collection run over one source.
type Stats struct {
	SourceID string `json:"source_id"`
	Found    int    `json:"found"`
	Saved    int    `json:"saved"`
	Errors   int    `json:"errors"`
}

// Coordinator drives collection for configured sources.
type Coordinator struct {
	store    Store
	registry *adapter.Registry
	maxItems int
	logger   *zap.Logger
}

// NewCoordinator creates a collection coordinator. maxItems caps items
// per run per source (minimum 1).
func NewCoordinator(store Store, registry *adapter.Registry, maxItems int, logger *zap.Logger) *Coordinator {
	if maxItems <= 0 {
		maxItems = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		store:    store,
		registry: registry,
		maxItems: maxItems,
		logger:   logger,
	}
}

// CollectSource runs collection for a source by id.
func (c *Coordinator) CollectSource(ctx context.Context, sourceID string) (Stats, error) {
	src, err := c.store.GetSource(ctx, sourceID)
	if err != nil {
		return Stats{SourceID: sourceID}, err
	}
	return c.Collect(ctx, src)
}

// Collect fetches the source and stores new posts. Fetch failures are
// counted, not fatal: a source that cannot be reached yields zero items
// and a nil error. An unknown source type is a configuration error and
// is returned.
func (c *Coordinator) Collect(ctx context.Context, src *model.Source) (Stats, error) {
	stats := Stats{SourceID: src.ID}

	a, err := c.registry.For(src.Type)
	if err != nil {
		return stats, err
	}

	items, err := a.Fetch(ctx, src, c.maxItems)
	if err != nil {
		var fe *adapter.FetchError
		if !errors.As(err, &fe) {
			return stats, eris.Wrapf(err, "fetch source %s", src.ID)
		}
		stats.Errors++
		c.logger.Warn("source fetch failed",
			zap.String("source_id", src.ID),
			zap.String("type", string(src.Type)),
			zap.Error(err))
	}

	stats.Found = len(items)
	for _, item := range items {
		saved, err := c.storeItem(ctx, src, item)
		if err != nil {
			stats.Errors++
			c.logger.Warn("item not stored",
				zap.String("source_id", src.ID),
				zap.String("external_id", item.ExternalID),
				zap.Error(err))
			continue
		}
		if saved {
			stats.Saved++
		}
	}

	if err := c.store.TouchLastCollected(ctx, src.ID, time.Now().UTC()); err != nil {
		return stats, err
	}

	c.logger.Info("collection run finished",
		zap.String("source_id", src.ID),
		zap.String("type", string(src.Type)),
		zap.Int("found", stats.Found),
		zap.Int("saved", stats.Saved),
		zap.Int("errors", stats.Errors))
	return stats, nil
}

// storeItem checks the natural key, inserts the post when absent, and
// for dataset items also refreshes the dataset snapshot. The insert
// itself still tolerates a concurrent winner of the same key.
func (c *Coordinator) storeItem(ctx context.Context, src *model.Source, item adapter.RawItem) (bool, error) {
	exists, err := c.store.PostExists(ctx, src.ID, item.ExternalID)
	if err != nil {
		return false, err
	}
	if exists {
		if src.Type == model.SourceTypeStatisticalDataset {
			return false, c.upsertDataset(ctx, item)
		}
		return false, nil
	}

	metadata := model.JSONMap{}
	for k, v := range item.Extra {
		metadata[k] = v
	}

	post, err := model.NewPost(src.ID, item.ExternalID, item.Content, item.OccurredAt, metadata)
	if err != nil {
		return false, err
	}

	created, err := c.store.InsertPost(ctx, post)
	if err != nil {
		return false, err
	}

	if src.Type == model.SourceTypeStatisticalDataset {
		if err := c.upsertDataset(ctx, item); err != nil {
			return created, err
		}
	}
	return created, nil
}

func (c *Coordinator) upsertDataset(ctx context.Context, item adapter.RawItem) error {
	code := cast.ToString(item.Extra[adapter.ExtraDatasetCode])
	if code == "" {
		return nil
	}
	label := cast.ToString(item.Extra[adapter.ExtraDatasetLabel])
	sourceLabel := cast.ToString(item.Extra[adapter.ExtraDatasetSource])

	rec, err := model.NewDatasetRecord(code, sourceLabel, label, model.JSONMap{
		"period": item.Extra[adapter.ExtraPeriod],
		"value":  item.Extra[adapter.ExtraValue],
	})
	if err != nil {
		return err
	}
	return c.store.UpsertDataset(ctx, rec)
}

// collectJob adapts one source collection to the worker pool.
type collectJob struct {
	coordinator *Coordinator
	source      model.Source
}

type collectResult struct {
	stats Stats
	err   error
}

func (r *collectResult) Err() error { return r.err }

func (j *collectJob) Execute(ctx context.Context) worker.Result {
	stats, err := j.coordinator.Collect(ctx, &j.source)
	return &collectResult{stats: stats, err: err}
}

// CollectAll runs collection for every active source on a bounded
// worker pool and returns per-source stats. Individual source failures
// do not stop the run.
func (c *Coordinator) CollectAll(ctx context.Context, concurrency int) ([]Stats, error) {
	return c.collectActive(ctx, concurrency, "")
}

// UpdateDatasets re-collects every active statistical-dataset source,
// refreshing the stored snapshots for all tracked dataset codes.
func (c *Coordinator) UpdateDatasets(ctx context.Context, concurrency int) ([]Stats, error) {
	return c.collectActive(ctx, concurrency, model.SourceTypeStatisticalDataset)
}

func (c *Coordinator) collectActive(ctx context.Context, concurrency int, onlyType model.SourceType) ([]Stats, error) {
	sources, err := c.store.ListActiveSources(ctx)
	if err != nil {
		return nil, err
	}
	if onlyType != "" {
		filtered := sources[:0]
		for _, src := range sources {
			if src.Type == onlyType {
				filtered = append(filtered, src)
			}
		}
		sources = filtered
	}
	if len(sources) == 0 {
		return nil, nil
	}

	pool := worker.NewPool(concurrency)
	pool.Start(ctx)
	for _, src := range sources {
		pool.Submit(&collectJob{coordinator: c, source: src})
	}

	var all []Stats
	for _, res := range pool.Wait() {
		cr := res.(*collectResult)
		if cr.err != nil {
			c.logger.Error("source collection failed",
				zap.String("source_id", cr.stats.SourceID),
				zap.Error(cr.err))
		}
		all = append(all, cr.stats)
	}
	return all, nil
}
