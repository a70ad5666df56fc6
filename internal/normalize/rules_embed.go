package normalize

import (
	_ "embed"
	"fmt"

	"github.com/nomigo/geosearch/internal/errs"
	"gopkg.in/yaml.v3"
)

//go:embed data/normalization.yaml
var normalizationYAML []byte

//go:embed data/transliteration.yaml
var transliterationYAML []byte

//go:embed data/icu_tokenizer.yaml
var tokenizerYAML []byte

// RuleSet is one ICU-style rule document: an ordered list of
// (pattern, replace) regex rules plus a lowercase flag.
type RuleSet struct {
	Lowercase        bool   `yaml:"lowercase"`
	StripDiacritics  bool   `yaml:"strip_diacritics"`
	UnidecodeFallback bool  `yaml:"unidecode_fallback"`
	Rules            []Rule `yaml:"rules"`
}

type Rule struct {
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace"`
}

// PreprocessingStep is one entry of icu_tokenizer.yaml's preprocessing
// pipeline, e.g. `{step: regex-replace, replacements: [...]}`.
type PreprocessingStep struct {
	Step         string        `yaml:"step"`
	Replacements []StepPattern `yaml:"replacements"`
}

type StepPattern struct {
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace"`
}

// TokenizerConfig is the parsed icu_tokenizer.yaml document (§6).
type TokenizerConfig struct {
	Preprocessing []PreprocessingStep `yaml:"preprocessing"`
}

// LoadNormalizationRules loads the embedded normalization rule set.
func LoadNormalizationRules() (RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(normalizationYAML, &rs); err != nil {
		return rs, err
	}
	return rs, nil
}

// LoadTransliterationRules loads the embedded transliteration rule set.
func LoadTransliterationRules() (RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(transliterationYAML, &rs); err != nil {
		return rs, err
	}
	return rs, nil
}

// LoadTokenizerConfig loads and validates icu_tokenizer.yaml, raising a
// UsageError at exactly the three validation points original_source
// enforces: a missing step key, a non-string step name (structurally
// impossible once unmarshalled into a typed string, so checked as empty),
// and a pattern that fails to compile.
func LoadTokenizerConfig() (*TokenizerConfig, error) {
	var cfg TokenizerConfig
	if err := yaml.Unmarshal(tokenizerYAML, &cfg); err != nil {
		return nil, err
	}
	for i, step := range cfg.Preprocessing {
		if step.Step == "" {
			return nil, errs.NewUsageError(fmt.Sprintf("preprocessing[%d].step", i), "missing step name")
		}
		for _, r := range step.Replacements {
			if _, err := compileRule(r.Pattern); err != nil {
				return nil, errs.NewUsageError(fmt.Sprintf("preprocessing[%d].replacements", i),
					fmt.Sprintf("bad pattern %q: %v", r.Pattern, err))
			}
		}
	}
	return &cfg, nil
}
