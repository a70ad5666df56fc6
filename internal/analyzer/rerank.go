package analyzer

import (
	"strings"

	"github.com/nomigo/geosearch/internal/query"
)

// rerank applies the context-sensitive penalties of §4.4 to every
// token-list sharing an end node.
func rerank(q *query.Struct, terms []term) {
	for _, node := range q.Nodes {
		endGroups := make(map[int][]*query.TokenList)
		for _, tl := range node.Starting {
			endGroups[tl.Range.End] = append(endGroups[tl.Range.End], tl)
		}
		for _, group := range endGroups {
			rerankPostcode(group)
			rerankHousenumber(group)
			rerankRematch(group, terms)
		}
	}
}

// rerankPostcode: a POSTCODE list sharing its end with another list that
// is neither POSTCODE nor a HOUSENUMBER token whose lookup word is longer
// than 4 characters gets +0.39.
func rerankPostcode(group []*query.TokenList) {
	hasPostcode := false
	for _, tl := range group {
		if tl.Type == query.TokenPostcode {
			hasPostcode = true
			break
		}
	}
	if !hasPostcode {
		return
	}
	for _, tl := range group {
		if tl.Type == query.TokenPostcode {
			continue
		}
		for _, tok := range tl.Tokens {
			if tl.Type == query.TokenHouseNumber && len(tok.LookupWord) > 4 {
				continue
			}
			tok.Penalty += 0.39
		}
	}
}

// rerankHousenumber: a HOUSENUMBER list with lookup length <= 3 containing
// a digit makes every non-HOUSENUMBER list sharing its end add
// (0.5 - token.penalty) to each of its tokens, bringing that token to a
// flat 0.5.
func rerankHousenumber(group []*query.TokenList) {
	trigger := false
	for _, tl := range group {
		if tl.Type != query.TokenHouseNumber {
			continue
		}
		for _, tok := range tl.Tokens {
			if len(tok.LookupWord) <= 3 && containsDigit(tok.LookupWord) {
				trigger = true
			}
		}
	}
	if !trigger {
		return
	}
	for _, tl := range group {
		if tl.Type == query.TokenHouseNumber {
			continue
		}
		for _, tok := range tl.Tokens {
			tok.Penalty += 0.5 - tok.Penalty
		}
	}
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

// rerankRematch: for every list except COUNTRY and PARTIAL, compare each
// token's lookup word against the double-space-joined normalized terms of
// the list's range and add the opcode-walk edit distance, normalized by
// the token's own lookup word length.
func rerankRematch(group []*query.TokenList, terms []term) {
	for _, tl := range group {
		if tl.Type == query.TokenCountry || tl.Type == query.TokenPartial {
			continue
		}
		if tl.Range.Start < 0 || tl.Range.End > len(terms) {
			continue
		}
		var parts []string
		for i := tl.Range.Start; i < tl.Range.End; i++ {
			parts = append(parts, terms[i].raw)
		}
		norm := strings.Join(parts, "  ")
		for _, tok := range tl.Tokens {
			if len(tok.LookupWord) == 0 {
				continue
			}
			tok.Penalty += editDistance(tok.LookupWord, norm) / float64(len(tok.LookupWord))
		}
	}
}
