package model

import (
	"time"

	"github.com/google/uuid"
)

// DatasetRecord is a stored snapshot of a statistical dataset, keyed by
// (Code, SourceLabel). Snapshots are upserted: re-collecting a tracked
// dataset refreshes the existing row instead of appending.
type DatasetRecord struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Code        string    `gorm:"size:128;not null;uniqueIndex:idx_datasets_code_source" json:"code"`
	SourceLabel string    `gorm:"size:128;not null;uniqueIndex:idx_datasets_code_source" json:"source_label"`
	Title       string    `gorm:"size:512" json:"title"`
	Data        JSONMap   `gorm:"type:text" json:"data"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDatasetRecord builds a dataset snapshot ready to upsert.
func NewDatasetRecord(code, sourceLabel, title string, data JSONMap) (*DatasetRecord, error) {
	if code == "" {
		return nil, &ValidationError{Field: "dataset code", Reason: "must not be empty"}
	}
	if sourceLabel == "" {
		return nil, &ValidationError{Field: "source label", Reason: "must not be empty"}
	}
	if data == nil {
		data = JSONMap{}
	}
	now := time.Now().UTC()
	return &DatasetRecord{
		ID:          uuid.NewString(),
		Code:        code,
		SourceLabel: sourceLabel,
		Title:       title,
		Data:        data,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
