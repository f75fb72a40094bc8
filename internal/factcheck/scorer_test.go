package factcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veridex/veridex/internal/model"
)

func refs(n int) []model.Reference {
	out := make([]model.Reference, n)
	for i := range out {
		out[i] = model.Reference{Type: model.ReferenceInternalPost, Source: "internal", RelevanceScore: 0.7}
	}
	return out
}

func TestScore_RuleTable(t *testing.T) {
	oneClaim := []model.Claim{{Text: "The budget doubled in 2023.", Type: model.ClaimTypeFactualClaim, Confidence: 0.7}}
	twoClaims := append(oneClaim, model.Claim{Text: "Officials approved the plan.", Type: model.ClaimTypeStatement, Confidence: 0.5})

	tests := []struct {
		name           string
		claims         []model.Claim
		references     []model.Reference
		wantVerdict    model.Verdict
		wantConfidence float64
	}{
		{"no claims", nil, nil, model.VerdictVerified, 0.3},
		{"no claims with references", nil, refs(4), model.VerdictVerified, 0.3},
		{"claims without references", oneClaim, nil, model.VerdictDisputed, 0.3},
		{"one reference", oneClaim, refs(1), model.VerdictTrue, 0.6},
		{"two references", twoClaims, refs(2), model.VerdictTrue, 0.6},
		{"three references", oneClaim, refs(3), model.VerdictVerified, 0.8},
		{"many references", oneClaim, refs(9), model.VerdictVerified, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, confidence := Score(tt.claims, tt.references)
			assert.Equal(t, tt.wantVerdict, verdict)
			assert.Equal(t, tt.wantConfidence, confidence)
		})
	}
}
