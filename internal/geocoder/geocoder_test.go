package geocoder

import (
	"context"
	"testing"

	"github.com/nomigo/geosearch/internal/catalog"
	"github.com/nomigo/geosearch/internal/normalize"
	"github.com/nomigo/geosearch/internal/query"
	"github.com/nomigo/geosearch/internal/search"
)

// fakeCatalog is an in-memory catalog.Capability test double keyed by
// table name, returning the same rows for every query against that table.
type fakeCatalog struct {
	rows map[string][]catalog.Row
}

func (f *fakeCatalog) Execute(ctx context.Context, stmt catalog.Statement) ([]catalog.Row, error) {
	return f.rows[stmt.Table], nil
}

func (f *fakeCatalog) GetProperty(ctx context.Context, name string) (string, error) { return "", nil }

func (f *fakeCatalog) GetCachedValue(ctx context.Context, namespace, key string, factory catalog.ValueFactory) (any, error) {
	return factory(ctx)
}

func (f *fakeCatalog) GetClassTable(ctx context.Context, class, typ string) (string, bool) {
	return "", false
}

func TestServiceSearchCountryOnly(t *testing.T) {
	cat := &fakeCatalog{rows: map[string][]catalog.Row{
		"word": {{
			"lookup_word": "de",
			"word_token":  "de",
			"type":        "C",
			"id":          float64(1),
		}},
		"country_name": {{
			"place_id":     float64(42),
			"rank_address": float64(4),
			"country_code": "de",
			"lon":          float64(10.0),
			"lat":          float64(51.0),
		}},
	}}

	svc := New(cat, normalize.IdentityNormalizer{}, normalize.IdentityTransliterator{}, Config{}, nil)

	results, err := svc.Search(context.Background(), query.SplitCommaPhrases("de"), search.DefaultDetails())
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one result for a bare country query")
	}
	if results[0].CountryCode != "de" {
		t.Fatalf("expected country_code de, got %q", results[0].CountryCode)
	}
}
