package analyzer

import (
	"strings"

	"github.com/nomigo/geosearch/internal/query"
)

// term is one slot produced by splitting and transliterating a phrase.
type term struct {
	raw       string          // normalized form before transliteration, used by rerank's rematch
	text      string          // transliterated word_token, the catalog lookup string
	breakType query.BreakType // break charged when this slot ends
	ptype     query.PhraseType
}

// splitPhrase splits phrase text on the separators ' ', ':', '-' (§4.3
// step 1), yielding alternating (word, break-char) pairs. The break
// associated with each raw word reflects the separator that followed it;
// the last word of a phrase is assigned phraseBreak by the caller.
func splitPhrase(text string) []rawWord {
	var out []rawWord
	var b strings.Builder
	flush := func(sep query.BreakType) {
		if b.Len() == 0 {
			return
		}
		out = append(out, rawWord{word: b.String(), sep: sep})
		b.Reset()
	}
	for _, r := range text {
		switch r {
		case ' ':
			flush(query.BreakWord)
		case ':', '-':
			flush(query.BreakSoftPhrase)
		default:
			b.WriteRune(r)
		}
	}
	flush(query.BreakWord)
	return out
}

type rawWord struct {
	word string
	sep  query.BreakType
}

// buildTerms runs the full split→normalize→transliterate pipeline (§4.3
// steps 1-3) over every phrase and returns the flat term sequence plus the
// phrase-type assigned to each term.
func (a *Analyzer) buildTerms(phrases []query.Phrase) []term {
	var terms []term
	for pi, p := range phrases {
		words := splitPhrase(p.Text)
		for wi, rw := range words {
			normalized := a.normalizer.Normalize(rw.word)
			translit := a.transliterator.Transliterate(normalized)
			subTokens := strings.Fields(translit)
			if len(subTokens) == 0 {
				continue
			}
			isLastWord := wi == len(words)-1
			for si, sub := range subTokens {
				isLastSub := si == len(subTokens)-1
				brk := query.BreakToken
				if isLastSub {
					brk = rw.sep
					if isLastWord {
						if pi == len(phrases)-1 {
							brk = query.BreakEnd
						} else {
							brk = query.BreakPhrase
						}
					}
				}
				terms = append(terms, term{
					raw:       normalized,
					text:      sub,
					breakType: brk,
					ptype:     p.Type,
				})
			}
		}
	}
	return terms
}
