package assignment

import (
	"testing"

	"github.com/nomigo/geosearch/internal/query"
)

func TestCountryOnlyQuery(t *testing.T) {
	q := query.NewStruct([]query.Phrase{{Type: query.PhraseAny, Text: "de"}}, 1)
	q.AddTokenList(&query.TokenList{
		Range: query.TokenRange{Start: 0, End: 1},
		Type:  query.TokenCountry,
		Tokens: []*query.Token{{LookupWord: "de", Type: query.TokenCountry, Penalty: 0.3}},
	})

	assignments := Enumerate(q)

	found := false
	for _, a := range assignments {
		if a.Country != nil && len(a.Address) == 0 && a.HouseNumber == nil && a.Postcode == nil {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a country-only assignment, got %d assignments", len(assignments))
	}
}

func TestHouseNumberDirectionality(t *testing.T) {
	// slot 0: housenumber "10"; slot 1: a word covered only by the
	// synthetic PARTIAL fallback.
	q := query.NewStruct([]query.Phrase{{Type: query.PhraseAny, Text: "10 street"}}, 2)
	q.AddTokenList(&query.TokenList{
		Range:  query.TokenRange{Start: 0, End: 1},
		Type:   query.TokenHouseNumber,
		Tokens: []*query.Token{{LookupWord: "10", Type: query.TokenHouseNumber, Penalty: 0}},
	})

	assignments := Enumerate(q)
	if len(assignments) == 0 {
		t.Fatal("expected at least one assignment")
	}

	sawHouseNumber := false
	sawForwardReading := false
	for _, a := range assignments {
		if a.HouseNumber != nil {
			sawHouseNumber = true
			if a.Kind == KindBackwardAddress {
				t.Errorf("leading housenumber produced a backward reading: %+v", a)
			}
			if a.Kind == KindForwardAddress {
				sawForwardReading = true
			}
		}
	}
	if !sawHouseNumber {
		t.Fatal("expected at least one assignment carrying a housenumber role")
	}
	if !sawForwardReading {
		t.Fatal("expected a forward reading for a leading housenumber")
	}
}
