package search

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

// SimilarityWeights blends a Jaro-Winkler score and a normalized
// Levenshtein distance into the single AuxSimilarity diagnostic carried
// on a Result. Operators use it to sanity-check why a match ranked where
// it did; it is never folded back into Accuracy.
type SimilarityWeights struct {
	JaroWinkler float64
	Levenshtein float64
}

// DefaultSimilarityWeights favors Jaro-Winkler, matching its better
// behavior on short, prefix-heavy place names.
var DefaultSimilarityWeights = SimilarityWeights{JaroWinkler: 0.7, Levenshtein: 0.3}

func auxSimilarity(w SimilarityWeights, queryTerms []string, matchedName string) float64 {
	if matchedName == "" || len(queryTerms) == 0 {
		return 0
	}
	query := strings.Join(queryTerms, " ")

	jw := smetrics.JaroWinkler(strings.ToLower(query), strings.ToLower(matchedName), 0.7, 4)

	dist := levenshtein.ComputeDistance(strings.ToLower(query), strings.ToLower(matchedName))
	maxLen := len(query)
	if len(matchedName) > maxLen {
		maxLen = len(matchedName)
	}
	lev := 1.0
	if maxLen > 0 {
		lev = 1.0 - float64(dist)/float64(maxLen)
	}

	return w.JaroWinkler*jw + w.Levenshtein*lev
}
