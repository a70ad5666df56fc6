package search

import (
	"context"
	"errors"
	"sort"

	"github.com/nomigo/geosearch/internal/catalog"
	"github.com/nomigo/geosearch/internal/errs"
)

// Execute runs each Search in turn against the catalog, sorted by
// (penalty, Kind priority) so the cheapest, most authoritative searches
// run first (§4.7 Design Notes: "tagged variant... executed
// sequentially"). A CatalogError from one Search is logged and skipped
// rather than aborting the whole request; any other error propagates.
func Execute(ctx context.Context, cat catalog.Capability, d *Details, searches []Search, onCatalogError func(error)) ([]Result, error) {
	ordered := make([]Search, len(searches))
	copy(ordered, searches)
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, pj := ordered[i].Penalty(), ordered[j].Penalty()
		if pi != pj {
			return pi < pj
		}
		return ordered[i].Kind().Priority() < ordered[j].Kind().Priority()
	})

	seen := make(map[int64]bool)
	var merged []Result

	for _, s := range ordered {
		if len(merged) >= d.MaxResults*3 {
			break
		}
		rows, err := s.Lookup(ctx, cat, d)
		if err != nil {
			var catErr *errs.CatalogError
			if errors.As(err, &catErr) {
				if onCatalogError != nil {
					onCatalogError(err)
				}
				continue
			}
			return nil, err
		}
		for _, r := range rows {
			if seen[r.PlaceID] {
				continue
			}
			seen[r.PlaceID] = true
			merged = append(merged, r)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool { return Less(merged[i], merged[j]) })
	if len(merged) > d.MaxResults {
		merged = merged[:d.MaxResults]
	}
	return merged, nil
}
