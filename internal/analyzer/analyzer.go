// Package analyzer implements the Tokenizer/Analyzer (§4.3) and the
// rerank phase (§4.4): preprocessed phrases go in, a populated
// query.Struct with word lookups placed on the token graph comes out.
package analyzer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nomigo/geosearch/internal/catalog"
	"github.com/nomigo/geosearch/internal/normalize"
	"github.com/nomigo/geosearch/internal/query"
)

// maxWindowTerms bounds the word-window enumeration: windows [i,j) with
// j-i <= maxWindowTerms are looked up in one catalog round trip (§4.3
// step 4).
const maxWindowTerms = 19

// maxSyntheticHousenumberDigits is preserved verbatim from
// original_source per SPEC_FULL's Open Question decision: only terms of
// length <= 4 become synthetic housenumbers.
const maxSyntheticHousenumberDigits = 4

type Analyzer struct {
	cat            catalog.Capability
	normalizer     normalize.Normalizer
	transliterator normalize.Transliterator
}

func New(cat catalog.Capability, normalizer normalize.Normalizer, transliterator normalize.Transliterator) *Analyzer {
	return &Analyzer{cat: cat, normalizer: normalizer, transliterator: transliterator}
}

// Analyze runs the full tokenizer/analyzer pipeline over preprocessed
// phrases and returns a populated query graph.
func (a *Analyzer) Analyze(ctx context.Context, phrases []query.Phrase) (*query.Struct, error) {
	terms := a.buildTerms(phrases)
	q := query.NewStruct(phrases, len(terms))
	for i, t := range terms {
		q.Nodes[i+1].Break = t.breakType
		q.Nodes[i+1].PType = t.ptype
	}
	if len(phrases) > 0 && phrases[0].IsTyped() {
		q.DirPenalty = 0
	}

	windows := enumerateWindows(terms)
	rows, err := a.lookupWindows(ctx, windows)
	if err != nil {
		return nil, err
	}
	a.populateGraph(q, windows, rows)
	a.addExtraTokens(q, terms)
	rerank(q, terms)
	return q, nil
}

type window struct {
	start, end int
	lookup     string
	penalty    float64
}

// enumerateWindows yields every word window [i,j) with j-i <= 19,
// building the space-joined catalog lookup string and the accumulated
// break penalty crossed inside the window (§4.3 step 4).
func enumerateWindows(terms []term) []window {
	n := len(terms)
	var out []window
	for i := 0; i < n; i++ {
		var words []string
		penalty := 0.0
		maxJ := i + maxWindowTerms
		if maxJ > n {
			maxJ = n
		}
		for j := i; j < maxJ; j++ {
			words = append(words, terms[j].text)
			out = append(out, window{start: i, end: j + 1, lookup: strings.Join(words, " "), penalty: penalty})
			penalty += terms[j].breakType.Penalty()
		}
	}
	return out
}

func (a *Analyzer) lookupWindows(ctx context.Context, windows []window) (map[string][]catalog.Row, error) {
	seen := make(map[string]bool)
	var words []string
	for _, w := range windows {
		if !seen[w.lookup] {
			seen[w.lookup] = true
			words = append(words, w.lookup)
		}
	}
	if len(words) == 0 {
		return nil, nil
	}
	rows, err := a.cat.Execute(ctx, catalog.Statement{
		Table: "word",
		Binds: map[string]any{"words": words},
	})
	if err != nil {
		return nil, fmt.Errorf("word lookup: %w", err)
	}
	byWord := make(map[string][]catalog.Row)
	for _, r := range rows {
		lw, _ := r["lookup_word"].(string)
		byWord[lw] = append(byWord[lw], r)
	}
	return byWord, nil
}

// dbTokenType maps the catalog's single-character type column to a
// query.TokenType, resolving the 'S' (category) rows per §4.3 step 6 and
// the S-row whole-query special case recovered from original_source
// (SUPPLEMENTED FEATURES item 3).
func dbTokenType(dbType string, operator string, coversWholeQuery bool, isAtStart bool) query.TokenType {
	switch dbType {
	case "W":
		return query.TokenWord
	case "w":
		return query.TokenPartial
	case "H":
		return query.TokenHouseNumber
	case "P":
		return query.TokenPostcode
	case "C":
		return query.TokenCountry
	case "S":
		if coversWholeQuery {
			return query.TokenNearItem
		}
		if (operator == "in" || operator == "near") && isAtStart {
			return query.TokenNearItem
		}
		return query.TokenQualifier
	default:
		return query.TokenWord
	}
}

func (a *Analyzer) populateGraph(q *query.Struct, windows []window, rowsByWord map[string][]catalog.Row) {
	for _, w := range windows {
		rows := rowsByWord[w.lookup]
		if len(rows) == 0 {
			continue
		}
		r := query.TokenRange{Start: w.start, End: w.end}
		coversWhole := w.start == 0 && w.end == q.NumTokenSlots()
		byType := make(map[query.TokenType]*query.TokenList)
		for _, row := range rows {
			dbType, _ := row["type"].(string)
			operator, _ := row["operator"].(string)
			ttype := dbTokenType(dbType, operator, coversWhole, w.start == 0)

			tok := &query.Token{
				LookupWord: w.lookup,
				Type:       ttype,
				Penalty:    w.penalty,
			}
			if id, ok := row["id"].(float64); ok {
				tok.ID = int64(id)
			}
			if wt, ok := row["word_token"].(string); ok {
				tok.WordToken = wt
			}
			if cnt, ok := row["count"].(float64); ok {
				tok.Count = int(cnt)
			}
			if ac, ok := row["addr_count"].(float64); ok {
				tok.AddrCount = int(ac)
			}
			tok.Penalty += basePenalty(ttype, w.lookup)

			tl, ok := byType[ttype]
			if !ok {
				tl = &query.TokenList{Range: r, Type: ttype}
				byType[ttype] = tl
				q.AddTokenList(tl)
			}
			tl.Tokens = append(tl.Tokens, tok)
		}
	}
}

// basePenalty applies the per-type base penalties charged on token
// creation (§4.3, penalty table).
func basePenalty(t query.TokenType, lookupWord string) float64 {
	switch t {
	case query.TokenPartial:
		return 0.3
	case query.TokenWord:
		if len(lookupWord) == 1 {
			if lookupWord[0] >= '0' && lookupWord[0] <= '9' {
				return 0.2
			}
			return 0.3
		}
		return 0
	case query.TokenHouseNumber:
		penalty := 0.0
		nonDigit := 0
		allNonDigit := true
		for _, r := range lookupWord {
			if r >= '0' && r <= '9' {
				allNonDigit = false
				continue
			}
			if r != ' ' {
				nonDigit++
				penalty += 0.1
			}
		}
		if allNonDigit && len(lookupWord) > 0 {
			penalty += 0.2 * float64(len([]rune(lookupWord))-1)
		}
		return penalty
	case query.TokenCountry:
		if len(lookupWord) == 1 {
			return 0.3
		}
		return 0
	default:
		return 0
	}
}

// addExtraTokens synthesizes a HOUSENUMBER token for any pure-digit term
// of length <= maxSyntheticHousenumberDigits that has no overlapping
// HOUSENUMBER of any penalty (§4.3 step 7, sharpened by SUPPLEMENTED
// FEATURES item 2).
func (a *Analyzer) addExtraTokens(q *query.Struct, terms []term) {
	for i, t := range terms {
		if !isAllDigits(t.text) || len(t.text) > maxSyntheticHousenumberDigits {
			continue
		}
		r := query.TokenRange{Start: i, End: i + 1}
		overlapping := false
		for _, node := range q.Nodes {
			for _, tl := range node.Starting {
				if tl.Type == query.TokenHouseNumber && tl.Range.Overlaps(r) {
					overlapping = true
				}
			}
		}
		if overlapping {
			continue
		}
		n, err := strconv.Atoi(t.text)
		if err != nil {
			continue
		}
		tl := &query.TokenList{Range: r, Type: query.TokenHouseNumber, Tokens: []*query.Token{{
			LookupWord: t.text,
			WordToken:  t.text,
			Type:       query.TokenHouseNumber,
			Penalty:    0.5,
			Info:       map[string]string{"value": strconv.Itoa(n)},
		}}}
		q.AddTokenList(tl)
	}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
