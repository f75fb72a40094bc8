package model

import (
	"time"

	"github.com/google/uuid"
)

// SourceType identifies the kind of external origin a source points at.
// The type is immutable after creation; each type maps to exactly one
// collection adapter.
type SourceType string

const (
	SourceTypeSocialProfile      SourceType = "social_profile"
	SourceTypeFeed               SourceType = "feed"
	SourceTypeOfficialGazette    SourceType = "official_gazette"
	SourceTypeStatisticalDataset SourceType = "statistical_dataset"
)

// SourceTypes lists every valid source type.
func SourceTypes() []SourceType {
	return []SourceType{
		SourceTypeSocialProfile,
		SourceTypeFeed,
		SourceTypeOfficialGazette,
		SourceTypeStatisticalDataset,
	}
}

// ParseSourceType validates a raw type string.
func ParseSourceType(raw string) (SourceType, error) {
	for _, t := range SourceTypes() {
		if string(t) == raw {
			return t, nil
		}
	}
	return "", &ValidationError{Field: "source type", Reason: raw}
}

// Source is a configured external origin of content: a public social
// profile, an RSS/Atom feed, an official-gazette listing, or a
// statistical dataset.
type Source struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	Type            SourceType `gorm:"size:32;not null;index" json:"type"`
	Identifier      string     `gorm:"size:512;not null" json:"identifier"`
	GroupID         string     `gorm:"size:36;index" json:"group_id"`
	Config          JSONMap    `gorm:"type:text" json:"config"`
	// No gorm default tag: a default would make Create drop the
	// zero value, silently persisting deactivated sources as active.
	Active          bool       `gorm:"not null" json:"active"`
	CreatedAt       time.Time  `json:"created_at"`
	LastCollectedAt *time.Time `json:"last_collected_at,omitempty"`
}

// NewSource validates the type and builds a source ready to persist.
func NewSource(sourceType, identifier, groupID string, config JSONMap) (*Source, error) {
	t, err := ParseSourceType(sourceType)
	if err != nil {
		return nil, err
	}
	if identifier == "" {
		return nil, &ValidationError{Field: "identifier", Reason: "must not be empty"}
	}
	if config == nil {
		config = JSONMap{}
	}
	return &Source{
		ID:         uuid.NewString(),
		Type:       t,
		Identifier: identifier,
		GroupID:    groupID,
		Config:     config,
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
