package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/veridex/veridex/internal/model"
)

// ErrNotFound is returned for lookups of unknown source/post/result ids.
var ErrNotFound = eris.New("store: not found")

// Store is the shared content store. It is the only shared mutable
// resource in the pipeline: the uniqueness constraint on
// posts(source_id, external_id) is what makes concurrent ingestion of
// the same external item safe.
type Store struct {
	db *gorm.DB
}

// Open connects to the MySQL content store.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, eris.Wrap(err, "open database")
	}
	return New(db), nil
}

// New wraps an existing gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the schema, including the composite
// unique index backing post deduplication.
func (s *Store) AutoMigrate() error {
	err := s.db.AutoMigrate(
		&model.Source{},
		&model.Post{},
		&model.FactCheckResult{},
		&model.DatasetRecord{},
	)
	return eris.Wrap(err, "migrate schema")
}

// CreateSource persists a new source.
func (s *Store) CreateSource(ctx context.Context, src *model.Source) error {
	if err := s.db.WithContext(ctx).Create(src).Error; err != nil {
		return eris.Wrap(err, "create source")
	}
	return nil
}

// GetSource looks up a source by id.
func (s *Store) GetSource(ctx context.Context, id string) (*model.Source, error) {
	var src model.Source
	err := s.db.WithContext(ctx).First(&src, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, eris.Wrapf(ErrNotFound, "source %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "get source")
	}
	return &src, nil
}

// ListActiveSources returns every active source.
func (s *Store) ListActiveSources(ctx context.Context) ([]model.Source, error) {
	var sources []model.Source
	err := s.db.WithContext(ctx).Where("active = ?", true).Order("created_at").Find(&sources).Error
	if err != nil {
		return nil, eris.Wrap(err, "list active sources")
	}
	return sources, nil
}

// ListSources returns all sources.
func (s *Store) ListSources(ctx context.Context) ([]model.Source, error) {
	var sources []model.Source
	if err := s.db.WithContext(ctx).Order("created_at").Find(&sources).Error; err != nil {
		return nil, eris.Wrap(err, "list sources")
	}
	return sources, nil
}

// TouchLastCollected records a completed collection run for a source.
// Only the ingestion coordinator calls this.
func (s *Store) TouchLastCollected(ctx context.Context, sourceID string, at time.Time) error {
	err := s.db.WithContext(ctx).Model(&model.Source{}).
		Where("id = ?", sourceID).
		Update("last_collected_at", at).Error
	return eris.Wrap(err, "touch last_collected_at")
}

// PostExists checks for a stored post by its natural key.
func (s *Store) PostExists(ctx context.Context, sourceID, externalID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("source_id = ? AND external_id = ?", sourceID, externalID).
		Count(&count).Error
	if err != nil {
		return false, eris.Wrap(err, "post existence check")
	}
	return count > 0, nil
}

// InsertPost inserts a post if its (source_id, external_id) key is not
// already present. A concurrent loser of the insert race observes
// created=false rather than an error: the database constraint, not the
// preceding existence check, is what enforces uniqueness.
func (s *Store) InsertPost(ctx context.Context, post *model.Post) (created bool, err error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_id"}, {Name: "external_id"}},
			DoNothing: true,
		}).
		Create(post)
	if res.Error != nil {
		return false, eris.Wrap(res.Error, "insert post")
	}
	return res.RowsAffected > 0, nil
}

// GetPost looks up a post by id.
func (s *Store) GetPost(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, eris.Wrapf(ErrNotFound, "post %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "get post")
	}
	return &post, nil
}

// SearchPosts runs an OR-of-substring match over post content for the
// given keywords, newest first, capped at limit.
func (s *Store) SearchPosts(ctx context.Context, keywords []string, limit int) ([]model.Post, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	q := s.db.WithContext(ctx).Model(&model.Post{})
	conds := make([]string, 0, len(keywords))
	args := make([]any, 0, len(keywords))
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		conds = append(conds, "content LIKE ?")
		args = append(args, "%"+kw+"%")
	}
	if len(conds) == 0 {
		return nil, nil
	}

	var posts []model.Post
	err := q.Where(strings.Join(conds, " OR "), args...).
		Order("posted_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, eris.Wrap(err, "search posts")
	}
	return posts, nil
}

// ListUncheckedPosts returns posts that have no fact-check result yet,
// optionally filtered by source.
func (s *Store) ListUncheckedPosts(ctx context.Context, sourceID string) ([]model.Post, error) {
	q := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id NOT IN (?)", s.db.Model(&model.FactCheckResult{}).Select("post_id"))
	if sourceID != "" {
		q = q.Where("source_id = ?", sourceID)
	}

	var posts []model.Post
	if err := q.Order("collected_at").Find(&posts).Error; err != nil {
		return nil, eris.Wrap(err, "list unchecked posts")
	}
	return posts, nil
}

// SaveResult appends a fact-check result. Results are never updated or
// deleted by the pipeline.
func (s *Store) SaveResult(ctx context.Context, result *model.FactCheckResult) error {
	if err := s.db.WithContext(ctx).Create(result).Error; err != nil {
		return eris.Wrap(err, "save fact-check result")
	}
	return nil
}

// LatestResult returns the current (most recently checked) result for a
// post.
func (s *Store) LatestResult(ctx context.Context, postID string) (*model.FactCheckResult, error) {
	var result model.FactCheckResult
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("checked_at DESC").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, eris.Wrapf(ErrNotFound, "result for post %s", postID)
	}
	if err != nil {
		return nil, eris.Wrap(err, "latest result")
	}
	return &result, nil
}

// UpsertDataset inserts or refreshes a dataset snapshot keyed by
// (code, source_label).
func (s *Store) UpsertDataset(ctx context.Context, rec *model.DatasetRecord) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}, {Name: "source_label"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "data", "updated_at"}),
		}).
		Create(rec).Error
	return eris.Wrap(err, "upsert dataset")
}

// ListDatasetCodes returns the codes of all tracked datasets for a
// source label.
func (s *Store) ListDatasetCodes(ctx context.Context, sourceLabel string) ([]string, error) {
	var codes []string
	err := s.db.WithContext(ctx).Model(&model.DatasetRecord{}).
		Where("source_label = ?", sourceLabel).
		Pluck("code", &codes).Error
	if err != nil {
		return nil, eris.Wrap(err, "list dataset codes")
	}
	return codes, nil
}
