package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/nomigo/geosearch/internal/catalog"
)

// NearSearch wraps an inner search (the place the NEAR_ITEM category is
// anchored to, e.g. "Trafalgar Square" in "bus_stop near Trafalgar
// Square") and re-anchors a rank-windowed subset of its results as the
// centers for a lookup of the Class/Type category (§4.7 "NearSearch
// specifics").
type NearSearch struct {
	Base
	Inner Search
	Class string
	Type  string
}

// Expansion radii for the category lookup around each anchor: 0.05° when
// a class-type companion table narrows the scan first, 0.01° for a bare
// PLACEX distance scan otherwise.
const (
	nearClassTableRadius = 0.05
	nearDirectRadius     = 0.01
)

func NewNearSearch(inner Search, class, typ string, penalty float64) *NearSearch {
	return &NearSearch{Base: Base{penalty: penalty}, Inner: inner, Class: class, Type: typ}
}

func (s *NearSearch) Kind() Kind { return KindNear }

func (s *NearSearch) Lookup(ctx context.Context, cat catalog.Capability, d *Details) ([]Result, error) {
	anchors, err := s.Inner.Lookup(ctx, cat, d)
	if err != nil {
		return nil, err
	}
	if len(anchors) == 0 {
		return nil, nil
	}

	sort.Slice(anchors, func(i, j int) bool {
		if anchors[i].Accuracy != anchors[j].Accuracy {
			return anchors[i].Accuracy < anchors[j].Accuracy
		}
		return anchors[i].RankSearch < anchors[j].RankSearch
	})

	r0 := anchors[0]
	maxAccuracy := r0.Accuracy + 0.5

	var minRank, maxRank int
	switch {
	case r0.RankAddress == 0:
		minRank, maxRank = 0, 0
	case r0.RankAddress < 26:
		minRank = 1
		maxRank = r0.RankAddress + 4
		if maxRank > 25 {
			maxRank = 25
		}
	default:
		minRank, maxRank = 26, 30
	}

	var base []Result
	for _, a := range anchors {
		if a.Accuracy > maxAccuracy {
			continue
		}
		if a.BBox.Area() >= 20 {
			continue
		}
		if a.RankAddress < minRank || a.RankAddress > maxRank {
			continue
		}
		base = append(base, a)
	}
	if len(base) == 0 {
		return nil, nil
	}
	if len(base) > 5 {
		base = base[:5]
	}

	return s.lookupCategory(ctx, cat, d, base)
}

// lookupCategory finds PLACEX entries of s.Class/s.Type near any of the
// anchors, a direct port of lookup_category: a class-type companion table
// lets the expansion radius widen to 0.05°, while a bare PLACEX scan stays
// tight at 0.01°.
func (s *NearSearch) lookupCategory(ctx context.Context, cat catalog.Capability, d *Details, anchors []Result) ([]Result, error) {
	classTable, ok := cat.GetClassTable(ctx, s.Class, s.Type)

	var out []Result
	for _, anchor := range anchors {
		var rows []catalog.Row
		var err error
		if ok {
			box := radiusBox(anchor.Centroid, nearClassTableRadius)
			rows, err = cat.Execute(ctx, catalog.Statement{
				Table:   classTable,
				Filter:  viewboxFilter(box, true),
				OrderBy: "importance DESC",
				Limit:   d.MaxResults,
			})
		} else {
			box := radiusBox(anchor.Centroid, nearDirectRadius)
			filter := fmt.Sprintf("class = %q AND type = %q", s.Class, s.Type) + viewboxFilter(box, true)
			rows, err = cat.Execute(ctx, catalog.Statement{
				Table:   "placex",
				Filter:  filter,
				OrderBy: "importance DESC",
				Limit:   d.MaxResults,
			})
		}
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			r := rowToResult(row)
			if !d.countryAllowed(r.CountryCode) || d.isExcluded(r.PlaceID) {
				continue
			}
			r.Accuracy = s.Penalty() + distancePenalty(anchor.Centroid, r.Centroid)
			out = append(out, r)
			if len(out) >= d.MaxResults {
				return out, nil
			}
		}
	}
	return out, nil
}
