package normalize

import "testing"

func TestNormalizeIdempotent(t *testing.T) {
	rs, err := LoadNormalizationRules()
	if err != nil {
		t.Fatalf("LoadNormalizationRules: %v", err)
	}
	n, err := NewNormalizer(rs)
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}

	cases := []string{
		"10 Downing Street, London SW1A",
		"-- Café du Monde --",
		"  múltiple   spaces  ",
	}
	for _, c := range cases {
		once := n.Normalize(c)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("normalize not idempotent for %q: %q != %q", c, once, twice)
		}
	}
}

func TestTransliterateExpandsSharpS(t *testing.T) {
	rs, err := LoadTransliterationRules()
	if err != nil {
		t.Fatalf("LoadTransliterationRules: %v", err)
	}
	tr, err := NewTransliterator(rs)
	if err != nil {
		t.Fatalf("NewTransliterator: %v", err)
	}
	out := tr.Transliterate("straße")
	if out != "strasse" {
		t.Errorf("Transliterate(straße) = %q, want strasse", out)
	}
}

func TestLoadTokenizerConfig(t *testing.T) {
	cfg, err := LoadTokenizerConfig()
	if err != nil {
		t.Fatalf("LoadTokenizerConfig: %v", err)
	}
	if len(cfg.Preprocessing) == 0 {
		t.Fatal("expected at least one preprocessing step")
	}
}
