package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// Verdict is the categorical fact-check outcome for a post's claim set.
type Verdict string

const (
	VerdictVerified      Verdict = "verified"
	VerdictTrue          Verdict = "true"
	VerdictPartiallyTrue Verdict = "partially_true"
	VerdictDisputed      Verdict = "disputed"
	VerdictFalse         Verdict = "false"
)

// Verdicts lists every valid verdict.
func Verdicts() []Verdict {
	return []Verdict{VerdictVerified, VerdictTrue, VerdictPartiallyTrue, VerdictDisputed, VerdictFalse}
}

// ClaimType categorizes an extracted claim.
type ClaimType string

const (
	ClaimTypeStatement    ClaimType = "statement"
	ClaimTypeFactualClaim ClaimType = "factual_claim"
)

// Entity is a named entity recognized inside a claim sentence.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label,omitempty"`
}

// Claim is a candidate factual statement extracted from a post.
type Claim struct {
	Text       string    `json:"text"`
	Type       ClaimType `json:"type"`
	Confidence float64   `json:"confidence"`
	Entities   []Entity  `json:"entities,omitempty"`
	Numbers    []string  `json:"numbers,omitempty"`
}

// ReferenceType classifies where a reference was gathered from.
type ReferenceType string

const (
	ReferenceInternalPost ReferenceType = "internal_post"
	ReferenceExternalWeb  ReferenceType = "external_web"
	ReferenceManual       ReferenceType = "manual"
)

// Reference is a piece of corroborating material for a claim set.
type Reference struct {
	Type           ReferenceType `json:"type"`
	Source         string        `json:"source"`
	PostID         string        `json:"post_id,omitempty"`
	URL            string        `json:"url,omitempty"`
	Content        string        `json:"content,omitempty"`
	RelevanceScore float64       `json:"relevance_score"`
}

// ClaimList stores claims as a JSON text column.
type ClaimList []Claim

func (l ClaimList) Value() (driver.Value, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return nil, eris.Wrap(err, "marshal claims")
	}
	return string(b), nil
}

func (l *ClaimList) Scan(value any) error {
	return scanJSON(value, l, "claims")
}

// ReferenceList stores references as a JSON text column.
type ReferenceList []Reference

func (l ReferenceList) Value() (driver.Value, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return nil, eris.Wrap(err, "marshal references")
	}
	return string(b), nil
}

func (l *ReferenceList) Scan(value any) error {
	return scanJSON(value, l, "references")
}

func scanJSON(value, dst any, what string) error {
	if value == nil {
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return eris.Errorf("unsupported column type %T for %s", value, what)
	}
	if len(b) == 0 {
		return nil
	}
	return eris.Wrapf(json.Unmarshal(b, dst), "unmarshal %s", what)
}

// FactCheckResult is the one-shot terminal artifact of a fact-check
// run. Results are append-only: re-checking a post adds a new row and
// the current result is the one with the latest CheckedAt.
type FactCheckResult struct {
	ID         string        `gorm:"primaryKey;size:36" json:"id"`
	PostID     string        `gorm:"size:36;not null;index" json:"post_id"`
	Claims     ClaimList     `gorm:"type:text" json:"claims"`
	Verdict    Verdict       `gorm:"size:32;not null" json:"verdict"`
	Confidence float64       `gorm:"not null" json:"confidence"`
	References ReferenceList `gorm:"type:text" json:"references"`
	CheckedAt  time.Time     `gorm:"index" json:"checked_at"`
	CheckedBy  string        `gorm:"size:64" json:"checked_by"`
	Metadata   JSONMap       `gorm:"type:text" json:"metadata"`
}

// NewFactCheckResult validates verdict and confidence at construction
// so invalid results can never be persisted. Confidence bounds are
// inclusive.
func NewFactCheckResult(postID string, claims []Claim, verdict Verdict, confidence float64, references []Reference, checkedBy string, metadata JSONMap) (*FactCheckResult, error) {
	valid := false
	for _, v := range Verdicts() {
		if v == verdict {
			valid = true
			break
		}
	}
	if !valid {
		return nil, &ValidationError{Field: "verdict", Reason: string(verdict)}
	}
	if confidence < 0.0 || confidence > 1.0 {
		return nil, &ValidationError{
			Field:  "confidence",
			Reason: fmt.Sprintf("%g outside [0, 1]", confidence),
		}
	}
	if postID == "" {
		return nil, &ValidationError{Field: "post_id", Reason: "must not be empty"}
	}

	if claims == nil {
		claims = []Claim{}
	}
	if references == nil {
		references = []Reference{}
	}
	if metadata == nil {
		metadata = JSONMap{}
	}
	if checkedBy == "" {
		checkedBy = "system"
	}

	return &FactCheckResult{
		ID:         uuid.NewString(),
		PostID:     postID,
		Claims:     claims,
		Verdict:    verdict,
		Confidence: confidence,
		References: references,
		CheckedAt:  time.Now().UTC(),
		CheckedBy:  checkedBy,
		Metadata:   metadata,
	}, nil
}
