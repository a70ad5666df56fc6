package query

import "regexp"

// Preprocessor maps phrases to phrases. Steps are independent and composed
// left to right.
type Preprocessor func(phrases []Phrase) ([]Phrase, error)

// Replacement is one (pattern, replace) pair of the built-in regex
// rewriter.
type Replacement struct {
	Pattern *regexp.Regexp
	Replace string
}

// RegexPreprocessor applies rules to every phrase's text in order; phrases
// whose text becomes empty are dropped from the output.
func RegexPreprocessor(rules []Replacement) Preprocessor {
	return func(phrases []Phrase) ([]Phrase, error) {
		out := make([]Phrase, 0, len(phrases))
		for _, p := range phrases {
			text := p.Text
			for _, r := range rules {
				text = r.Pattern.ReplaceAllString(text, r.Replace)
			}
			if text == "" {
				continue
			}
			p.Text = text
			out = append(out, p)
		}
		return out, nil
	}
}

// RunPipeline runs every step over the phrase list, feeding each step's
// output into the next.
func RunPipeline(phrases []Phrase, steps []Preprocessor) ([]Phrase, error) {
	var err error
	for _, step := range steps {
		phrases, err = step(phrases)
		if err != nil {
			return nil, err
		}
	}
	return phrases, nil
}
