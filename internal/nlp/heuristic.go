package nlp

import (
	"context"
	"strings"
	"unicode"
)

// commonVerbs covers auxiliaries and verbs frequent in the political
// and statistical statements the pipeline sees.
var commonVerbs = map[string]struct{}{
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"has": {}, "have": {}, "had": {}, "will": {}, "would": {}, "can": {},
	"could": {}, "should": {}, "must": {}, "says": {}, "said": {},
	"announced": {}, "announces": {}, "reported": {}, "reports": {},
	"claims": {}, "claimed": {}, "shows": {}, "showed": {}, "grew": {},
	"rose": {}, "fell": {}, "increased": {}, "decreased": {},
	"opened": {}, "closed": {}, "signed": {}, "approved": {},
	"rejected": {}, "voted": {}, "spent": {}, "built": {}, "reached": {},
}

// HeuristicAnnotator is the deterministic, offline annotator. Entities
// are capitalized tokens past the sentence start; verb detection uses a
// small lexicon plus -ed/-ing suffixes.
type HeuristicAnnotator struct{}

// NewHeuristicAnnotator creates the offline annotator.
func NewHeuristicAnnotator() *HeuristicAnnotator { return &HeuristicAnnotator{} }

// Name implements Annotator.
func (a *HeuristicAnnotator) Name() string { return "heuristic" }

// Annotate implements Annotator. It never fails.
func (a *HeuristicAnnotator) Annotate(_ context.Context, sentence string) (Annotation, error) {
	tokens := strings.Fields(sentence)

	ann := Annotation{}
	for i, token := range tokens {
		word := strings.TrimFunc(token, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word == "" {
			continue
		}

		lower := strings.ToLower(word)
		if _, ok := commonVerbs[lower]; ok {
			ann.HasVerb = true
		} else if len(lower) > 4 && (strings.HasSuffix(lower, "ed") || strings.HasSuffix(lower, "ing")) {
			ann.HasVerb = true
		}

		// The sentence-initial token is capitalized regardless of
		// being a name, so it does not count as an entity on its own.
		if i == 0 {
			continue
		}
		if r := []rune(word)[0]; unicode.IsUpper(r) {
			ann.Entities = append(ann.Entities, word)
		}
	}

	return ann, nil
}
