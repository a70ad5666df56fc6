package normalize

import (
	"regexp"
	"strings"
)

func compileRule(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(pattern)
}

type compiledRule struct {
	re      *regexp.Regexp
	replace string
}

func compileRules(rules []Rule) ([]compiledRule, error) {
	out := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		re, err := compileRule(r.Pattern)
		if err != nil {
			return nil, err
		}
		out = append(out, compiledRule{re: re, replace: r.Replace})
	}
	return out, nil
}

// Normalizer folds a string to its catalog-comparable form: case, accents
// and punctuation collapsed per an externally supplied rule set (§4.1).
// Normalize is idempotent once surrounding "-", ":" and space are trimmed.
type Normalizer interface {
	Normalize(s string) string
}

type ruleNormalizer struct {
	rules           []compiledRule
	lowercase       bool
	stripDiacritics bool
}

// NewNormalizer compiles a RuleSet into a Normalizer.
func NewNormalizer(rs RuleSet) (Normalizer, error) {
	compiled, err := compileRules(rs.Rules)
	if err != nil {
		return nil, err
	}
	return &ruleNormalizer{rules: compiled, lowercase: rs.Lowercase, stripDiacritics: rs.StripDiacritics}, nil
}

func (n *ruleNormalizer) Normalize(s string) string {
	out := strings.TrimFunc(s, func(r rune) bool {
		return r == '-' || r == ':' || r == ' '
	})
	if n.lowercase {
		out = strings.ToLower(out)
	}
	if n.stripDiacritics {
		out = stripDiacritics(out)
	}
	for _, r := range n.rules {
		out = r.re.ReplaceAllString(out, r.replace)
	}
	out = strings.Join(strings.Fields(out), " ")
	return out
}

// IdentityNormalizer is a test double satisfying the capability interface
// with no transformation, per Design Notes' "test doubles can supply
// identity rules".
type IdentityNormalizer struct{}

func (IdentityNormalizer) Normalize(s string) string { return s }
