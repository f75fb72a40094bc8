// Package factcheck implements the scoring pipeline: claim extraction,
// reference gathering, and verdict computation over stored posts.
package factcheck

import (
	"github.com/veridex/veridex/internal/model"
)

// Score maps a claim set and its gathered references to a verdict with
// a confidence. It is a pure function evaluated as an ordered rule
// table; the first matching rule wins.
//
// Every reference currently counts as supporting: no stance signal is
// produced anywhere in the pipeline, so contradicting is always zero
// and the contradiction branches are only reachable once a stance
// source exists.
func Score(claims []model.Claim, references []model.Reference) (model.Verdict, float64) {
	if len(claims) == 0 {
		return model.VerdictVerified, 0.3
	}
	if len(references) == 0 {
		return model.VerdictDisputed, 0.3
	}

	supporting := len(references)
	contradicting := 0

	switch {
	case supporting > 2*contradicting:
		if len(references) >= 3 {
			return model.VerdictVerified, 0.8
		}
		return model.VerdictTrue, 0.6
	case contradicting > 2*supporting:
		return model.VerdictFalse, 0.7
	case supporting > contradicting:
		return model.VerdictPartiallyTrue, 0.6
	case contradicting > supporting:
		return model.VerdictDisputed, 0.5
	default:
		return model.VerdictDisputed, 0.4
	}
}
