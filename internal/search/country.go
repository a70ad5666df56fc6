package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/nomigo/geosearch/internal/catalog"
)

// CountrySearch looks up country codes, §4.6.
type CountrySearch struct {
	Base
	Countries []string
}

func NewCountrySearch(countries []string, penalty float64) *CountrySearch {
	return &CountrySearch{Base: Base{penalty: penalty}, Countries: countries}
}

func (s *CountrySearch) Kind() Kind { return KindCountry }

func (s *CountrySearch) Lookup(ctx context.Context, cat catalog.Capability, d *Details) ([]Result, error) {
	if len(s.Countries) == 0 {
		return nil, nil
	}
	quoted := make([]string, len(s.Countries))
	for i, c := range s.Countries {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	filter := fmt.Sprintf("rank_address = 4 AND country_code IN [%s]", strings.Join(quoted, ","))
	if d.Viewbox != nil {
		filter += viewboxFilter(*d.Viewbox, d.BoundedViewbox)
	}

	rows, err := cat.Execute(ctx, catalog.Statement{
		Table:  "country_name",
		Filter: filter,
		Limit:  len(s.Countries),
	})
	if err != nil {
		return nil, err
	}

	var out []Result
	for _, row := range rows {
		r := rowToResult(row)
		if r.RankAddress == 0 {
			r.RankAddress = 4
		}
		if r.RankAddress < d.MinRank || r.RankAddress > d.MaxRank {
			continue
		}
		r.Accuracy = s.Penalty()
		out = append(out, r)
	}
	return out, nil
}

// viewboxFilter builds a Meilisearch filter expression restricting (AND,
// when bounded) or preferring (soft hint left to rerank, when unbounded)
// the given bounding box.
func viewboxFilter(b BBox, bounded bool) string {
	if !bounded {
		return ""
	}
	return fmt.Sprintf(" AND lon >= %f AND lon <= %f AND lat >= %f AND lat <= %f",
		b.MinLon, b.MaxLon, b.MinLat, b.MaxLat)
}
