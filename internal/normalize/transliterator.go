package normalize

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Transliterator maps a normalized string to Latin script. The result may
// contain more space-delimited terms than the input had words: a script
// conversion that expands one input word into several output terms drives
// the analyzer's TOKEN break (§4.1, §4.3).
type Transliterator interface {
	Transliterate(s string) string
}

type ruleTransliterator struct {
	rules             []compiledRule
	unidecodeFallback bool
}

// NewTransliterator compiles a RuleSet into a Transliterator.
func NewTransliterator(rs RuleSet) (Transliterator, error) {
	compiled, err := compileRules(rs.Rules)
	if err != nil {
		return nil, err
	}
	return &ruleTransliterator{rules: compiled, unidecodeFallback: rs.UnidecodeFallback}, nil
}

func (t *ruleTransliterator) Transliterate(s string) string {
	out := s
	for _, r := range t.rules {
		out = r.re.ReplaceAllString(out, r.replace)
	}
	out = stripDiacritics(out)
	if t.unidecodeFallback && hasNonASCII(out) {
		out = unidecode.Unidecode(out)
	}
	return strings.Join(strings.Fields(out), " ")
}

func hasNonASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return true
		}
	}
	return false
}

// IdentityTransliterator is a test double performing no transformation.
type IdentityTransliterator struct{}

func (IdentityTransliterator) Transliterate(s string) string { return s }
