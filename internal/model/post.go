package model

import (
	"time"

	"github.com/google/uuid"
)

// MetaExternalID is the metadata key carrying the source-scoped item id.
const MetaExternalID = "external_id"

// Post is a canonical, deduplicated content record collected from a
// source. The (SourceID, ExternalID) pair is unique; a post is never
// mutated after insertion.
type Post struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	SourceID    string    `gorm:"size:36;not null;uniqueIndex:idx_posts_source_external" json:"source_id"`
	ExternalID  string    `gorm:"size:512;not null;uniqueIndex:idx_posts_source_external" json:"external_id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	PostedAt    time.Time `gorm:"index" json:"posted_at"`
	CollectedAt time.Time `json:"collected_at"`
	Metadata    JSONMap   `gorm:"type:text" json:"metadata"`
}

// NewPost builds a post from a collected raw item. The external id is
// promoted to its own column for the uniqueness constraint and kept in
// metadata as well.
func NewPost(sourceID, externalID, content string, postedAt time.Time, metadata JSONMap) (*Post, error) {
	if sourceID == "" {
		return nil, &ValidationError{Field: "source_id", Reason: "must not be empty"}
	}
	if externalID == "" {
		return nil, &ValidationError{Field: "external_id", Reason: "must not be empty"}
	}
	if content == "" {
		return nil, &ValidationError{Field: "content", Reason: "must not be empty"}
	}

	if metadata == nil {
		metadata = JSONMap{}
	}
	metadata[MetaExternalID] = externalID

	if postedAt.IsZero() {
		postedAt = time.Now().UTC()
	}

	return &Post{
		ID:          uuid.NewString(),
		SourceID:    sourceID,
		ExternalID:  externalID,
		Content:     content,
		PostedAt:    postedAt,
		CollectedAt: time.Now().UTC(),
		Metadata:    metadata,
	}, nil
}
