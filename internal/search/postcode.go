package search

import (
	"context"
	"fmt"

	"github.com/nomigo/geosearch/internal/catalog"
)

// PostcodeSearch looks up the first postcode value, optionally filtered
// by country and viewbox (§4.6, §4.7 "PostcodeSearch specifics"); no
// near-point or parent-name filter is applied. Candidate rows are not
// re-ranked by address terms: postcodes are precise.
type PostcodeSearch struct {
	Base
	Postcodes []string
	Country   string
}

func NewPostcodeSearch(postcodes []string, country string, penalty float64) *PostcodeSearch {
	return &PostcodeSearch{Base: Base{penalty: penalty}, Postcodes: postcodes, Country: country}
}

func (s *PostcodeSearch) Kind() Kind { return KindPostcode }

func (s *PostcodeSearch) Lookup(ctx context.Context, cat catalog.Capability, d *Details) ([]Result, error) {
	if len(s.Postcodes) == 0 {
		return nil, nil
	}
	filter := fmt.Sprintf("postcode = %q", s.Postcodes[0])
	if s.Country != "" {
		filter += fmt.Sprintf(" AND country_code = %q", s.Country)
	}
	if d.Viewbox != nil {
		filter += viewboxFilter(*d.Viewbox, d.BoundedViewbox)
	}

	rows, err := cat.Execute(ctx, catalog.Statement{Table: "postcode", Filter: filter, Limit: d.MaxResults})
	if err != nil {
		return nil, err
	}

	var out []Result
	for _, row := range rows {
		r := rowToResult(row)
		if r.RankAddress < d.MinRank || r.RankAddress > d.MaxRank {
			continue
		}
		penalty := s.viewboxContainmentPenalty(r, d)
		r.Accuracy = s.Penalty() + penalty
		out = append(out, r)
	}

	// Prefer a materialized PLACEX postal-boundary row (class=boundary,
	// type=postal_code; osm_type is not checked) over the raw postcode
	// rows whenever one exists for the postcode.
	boundaryRows, err := cat.Execute(ctx, catalog.Statement{
		Table:  "placex",
		Filter: fmt.Sprintf("postcode = %q AND class = \"boundary\" AND type = \"postal_code\"", s.Postcodes[0]),
		Limit:  1,
	})
	if err == nil && len(boundaryRows) > 0 {
		boundary := rowToResult(boundaryRows[0])
		boundary.Accuracy = s.Penalty()
		return []Result{boundary}, nil
	}

	return out, nil
}

func (s *PostcodeSearch) viewboxContainmentPenalty(r Result, d *Details) float64 {
	if d.Viewbox == nil {
		return 0
	}
	if d.BoundedViewbox {
		if r.Centroid.Lon < d.Viewbox.MinLon || r.Centroid.Lon > d.Viewbox.MaxLon ||
			r.Centroid.Lat < d.Viewbox.MinLat || r.Centroid.Lat > d.Viewbox.MaxLat {
			return 1.0
		}
		return 0.0
	}
	expanded := d.Viewbox.Expand(0.5)
	if r.Centroid.Lon < expanded.MinLon || r.Centroid.Lon > expanded.MaxLon ||
		r.Centroid.Lat < expanded.MinLat || r.Centroid.Lat > expanded.MaxLat {
		return 0.5
	}
	return 0.0
}
