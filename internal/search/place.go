package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/nomigo/geosearch/internal/catalog"
)

// housenumber source priority, carried verbatim from original_source
// (SUPPLEMENTED FEATURES item 5): direct placex row beats osmline
// interpolation beats TIGER interpolation beats no housenumber at all.
const (
	hnSourcePlacex = iota
	hnSourceInterpol
	hnSourceTiger
	hnSourceNone
)

// PlaceSearch is the general case: name/address tokens with optional
// housenumber/postcode/country/qualifier (§4.6, §4.7 "PlaceSearch
// specifics").
type PlaceSearch struct {
	Base
	NameTokens    []string
	AddressTokens []string
	HouseNumber   string
	Postcode      string
	Country       string
	Qualifier     *Qualifier
}

type Qualifier struct {
	Class string
	Type  string
}

func NewPlaceSearch(name, address []string, houseNumber, postcode, country string, qualifier *Qualifier, penalty float64) *PlaceSearch {
	return &PlaceSearch{
		Base:          Base{penalty: penalty},
		NameTokens:    name,
		AddressTokens: address,
		HouseNumber:   houseNumber,
		Postcode:      postcode,
		Country:       country,
		Qualifier:     qualifier,
	}
}

func (s *PlaceSearch) Kind() Kind { return KindPlace }

// Lookup builds the search_name candidate filter, then for each candidate
// resolves a housenumber via the three-way priority join.
func (s *PlaceSearch) Lookup(ctx context.Context, cat catalog.Capability, d *Details) ([]Result, error) {
	filter := s.nameFilter()
	if s.Country != "" {
		filter += fmt.Sprintf(" AND country_code = %q", s.Country)
	}
	if d.Viewbox != nil {
		filter += viewboxFilter(*d.Viewbox, d.BoundedViewbox)
	}
	if s.Qualifier != nil {
		filter += fmt.Sprintf(" AND class = %q AND type = %q", s.Qualifier.Class, s.Qualifier.Type)
	}

	limit := d.MaxResults * 5
	if limit > 10000 {
		limit = 10000
	}
	rows, err := cat.Execute(ctx, catalog.Statement{
		Table:   "search_name",
		Filter:  filter,
		OrderBy: "importance DESC",
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	var out []Result
	for _, row := range rows {
		base := rowToResult(row)
		if !d.countryAllowed(base.CountryCode) {
			continue
		}
		if base.RankAddress < d.MinRank || base.RankAddress > d.MaxRank {
			continue
		}
		if d.isExcluded(base.PlaceID) {
			continue
		}

		penalty := s.Penalty() + postcodeDistancePenalty(base, s.Postcode) + viewboxBandPenalty(base, d)

		base.AuxSimilarity = auxSimilarity(d.Similarity, append(append([]string{}, s.NameTokens...), s.AddressTokens...), base.Names["name"])

		if s.HouseNumber == "" {
			base.Accuracy = penalty
			out = append(out, base)
			continue
		}

		resolved, source := s.resolveHouseNumber(ctx, cat, base)
		if source == hnSourceNone {
			// Synthetic street result when the housenumber could not be
			// matched: the street itself, penalized.
			street := base
			street.Accuracy = penalty + 1.0
			out = append(out, street)
			continue
		}
		resolved.AuxSimilarity = base.AuxSimilarity
		resolved.Accuracy = penalty + houseNumberSourcePenalty(source)
		out = append(out, resolved)
	}
	return out, nil
}

func (s *PlaceSearch) nameFilter() string {
	var parts []string
	for _, t := range s.NameTokens {
		parts = append(parts, fmt.Sprintf("name_tokens = %q", t))
	}
	for _, t := range s.AddressTokens {
		parts = append(parts, fmt.Sprintf("address_tokens = %q", t))
	}
	return strings.Join(parts, " AND ")
}

// resolveHouseNumber tries, in priority order: a direct placex housenumber
// row, an osmline interpolation range containing the number, and (for
// country "us" only) a TIGER interpolation range.
func (s *PlaceSearch) resolveHouseNumber(ctx context.Context, cat catalog.Capability, base Result) (Result, int) {
	direct, err := cat.Execute(ctx, catalog.Statement{
		Table:  "placex",
		Filter: fmt.Sprintf("parent_place_id = %d AND housenumber = %q", base.PlaceID, s.HouseNumber),
		Limit:  1,
	})
	if err == nil && len(direct) > 0 {
		r := rowToResult(direct[0])
		return r, hnSourcePlacex
	}

	interpol, err := cat.Execute(ctx, catalog.Statement{
		Table:  "osmline",
		Filter: fmt.Sprintf("parent_place_id = %d", base.PlaceID),
		Binds:  map[string]any{"housenumber": s.HouseNumber},
		Limit:  1,
	})
	if err == nil && len(interpol) > 0 {
		r := rowToResult(interpol[0])
		return r, hnSourceInterpol
	}

	if strings.EqualFold(base.CountryCode, "us") {
		tiger, err := cat.Execute(ctx, catalog.Statement{
			Table:  "tiger",
			Filter: fmt.Sprintf("parent_place_id = %d", base.PlaceID),
			Binds:  map[string]any{"housenumber": s.HouseNumber},
			Limit:  1,
		})
		if err == nil && len(tiger) > 0 {
			r := rowToResult(tiger[0])
			return r, hnSourceTiger
		}
	}

	return base, hnSourceNone
}

// houseNumberSourcePenalty orders sources a > interpol > tiger > none.
func houseNumberSourcePenalty(source int) float64 {
	switch source {
	case hnSourcePlacex:
		return 0
	case hnSourceInterpol:
		return 0.2
	case hnSourceTiger:
		return 0.4
	default:
		return 1.0
	}
}

// postcodeDistancePenalty is 0 on an exact postcode match or when either
// side has no postcode, and a flat 2.0 on a mismatch; no distance to the
// nearest known postcode is computed.
func postcodeDistancePenalty(r Result, wantPostcode string) float64 {
	if wantPostcode == "" || r.Postcode == "" {
		return 0
	}
	if r.Postcode == wantPostcode {
		return 0
	}
	return 2.0
}

// viewboxBandPenalty charges 0/0.5/1 by containment class, matching the
// 0/0.5/1 viewbox band penalties of §4.7.
func viewboxBandPenalty(r Result, d *Details) float64 {
	if d.Viewbox == nil {
		return 0
	}
	if containsPoint(*d.Viewbox, r.Centroid) {
		return 0
	}
	if containsPoint(d.Viewbox.Expand(0.5), r.Centroid) {
		return 0.5
	}
	return 1.0
}

func containsPoint(b BBox, p Point) bool {
	return p.Lon >= b.MinLon && p.Lon <= b.MaxLon && p.Lat >= b.MinLat && p.Lat <= b.MaxLat
}
