package search

import (
	"github.com/nomigo/geosearch/internal/assignment"
	"github.com/nomigo/geosearch/internal/query"
)

// Build converts one TokenAssignment into the concrete Search(es) it
// implies (§4.6): which variant(s) depends on the emission rule that
// produced it, tagged via assignment.Kind.
func Build(q *query.Struct, a *assignment.Assignment) []Search {
	switch a.Kind {
	case assignment.KindCountryOrPostcodeOnly:
		return buildCountryOrPostcode(q, a)
	case assignment.KindPostcodeWithAddress:
		return buildPostcodeWithAddress(q, a)
	case assignment.KindForwardAddress, assignment.KindBackwardAddress:
		return buildPlace(q, a)
	case assignment.KindHouseNumberOnly:
		return buildHouseNumberOnly(q, a)
	default:
		return nil
	}
}

func buildCountryOrPostcode(q *query.Struct, a *assignment.Assignment) []Search {
	var out []Search
	if a.Country != nil {
		out = append(out, NewCountrySearch(rangeWords(q, *a.Country, query.TokenCountry), a.Penalty))
	}
	if a.Postcode != nil {
		out = append(out, NewPostcodeSearch(rangeWords(q, *a.Postcode, query.TokenPostcode), "", a.Penalty))
	}
	if a.NearItem != nil {
		// A bare NEAR_ITEM with no address is resolved as a PoiSearch
		// around the request's near point, which PoiSearch.Lookup takes
		// from Details; here we only surface the class/type term.
		words := rangeWords(q, *a.NearItem, query.TokenNearItem)
		if len(words) > 0 {
			poi := parseQualifier(words[0])
			out = append(out, NewPoiSearch(poi.Class, poi.Type, Point{}, 0, a.Penalty))
		}
	}
	return out
}

func buildPostcodeWithAddress(q *query.Struct, a *assignment.Assignment) []Search {
	country := ""
	if a.Country != nil {
		if w := rangeWords(q, *a.Country, query.TokenCountry); len(w) > 0 {
			country = w[0]
		}
	}
	postcodes := rangeWords(q, *a.Postcode, query.TokenPostcode)
	return []Search{NewPostcodeSearch(postcodes, country, a.Penalty)}
}

func buildPlace(q *query.Struct, a *assignment.Assignment) []Search {
	name := rangeWords(q, safeRange(a.Name), query.TokenPartial)
	var address []string
	for _, r := range a.Address {
		address = append(address, rangeWords(q, r, query.TokenPartial)...)
	}

	houseNumber := ""
	if a.HouseNumber != nil {
		if w := rangeWords(q, *a.HouseNumber, query.TokenHouseNumber); len(w) > 0 {
			houseNumber = w[0]
		}
	}
	postcode := ""
	if a.Postcode != nil {
		if w := rangeWords(q, *a.Postcode, query.TokenPostcode); len(w) > 0 {
			postcode = w[0]
		}
	}
	country := ""
	if a.Country != nil {
		if w := rangeWords(q, *a.Country, query.TokenCountry); len(w) > 0 {
			country = w[0]
		}
	}
	var qualifier *Qualifier
	if a.Qualifier != nil {
		if w := rangeWords(q, *a.Qualifier, query.TokenQualifier); len(w) > 0 {
			qualifier = parseQualifier(w[0])
		}
	}

	place := NewPlaceSearch(name, address, houseNumber, postcode, country, qualifier, a.Penalty)

	if a.NearItem != nil {
		words := rangeWords(q, *a.NearItem, query.TokenNearItem)
		if len(words) > 0 {
			poi := parseQualifier(words[0])
			class, typ := "", ""
			if poi != nil {
				class, typ = poi.Class, poi.Type
			}
			return []Search{NewNearSearch(place, class, typ, a.Penalty)}
		}
	}
	return []Search{place}
}

func buildHouseNumberOnly(q *query.Struct, a *assignment.Assignment) []Search {
	var address []string
	for _, r := range a.Address {
		address = append(address, rangeWords(q, r, query.TokenPartial)...)
	}
	houseNumber := ""
	if a.HouseNumber != nil {
		if w := rangeWords(q, *a.HouseNumber, query.TokenHouseNumber); len(w) > 0 {
			houseNumber = w[0]
		}
	}
	return []Search{NewPlaceSearch(nil, address, houseNumber, "", "", nil, a.Penalty)}
}

func safeRange(r *query.TokenRange) query.TokenRange {
	if r == nil {
		return query.TokenRange{}
	}
	return *r
}

// rangeWords resolves the lexical candidates registered for a typed
// range back to their surface word tokens. A range with no matching
// TokenList (should not happen for a well-formed Assignment) yields nil.
func rangeWords(q *query.Struct, r query.TokenRange, t query.TokenType) []string {
	tl := q.TokenListsAt(r, t)
	if tl == nil {
		return nil
	}
	var out []string
	for _, tok := range tl.Tokens {
		out = append(out, tok.WordToken)
	}
	return out
}

// parseQualifier splits a "class:type" qualifier word token, falling
// back to treating the whole token as the class with an empty type.
func parseQualifier(word string) *Qualifier {
	for i := 0; i < len(word); i++ {
		if word[i] == ':' {
			return &Qualifier{Class: word[:i], Type: word[i+1:]}
		}
	}
	return &Qualifier{Class: word}
}
