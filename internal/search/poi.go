package search

import (
	"context"
	"fmt"

	"github.com/nomigo/geosearch/internal/catalog"
)

// PoiSearch resolves a class/type category term near an anchor point,
// taking Details.Near as the anchor when none was set at construction
// (§4.6, §4.7 "PoiSearch specifics"). When the radius is tight
// (<0.2 degrees) it queries PLACEX directly; otherwise it fans out
// through the class/type companion table first, matching the original's
// distinction between a point lookup and an area lookup.
type PoiSearch struct {
	Base
	Class  string
	Type   string
	Anchor Point
	Radius float64
}

const poiDirectRadiusThreshold = 0.2

func NewPoiSearch(class, typ string, anchor Point, radius, penalty float64) *PoiSearch {
	return &PoiSearch{Base: Base{penalty: penalty}, Class: class, Type: typ, Anchor: anchor, Radius: radius}
}

func (s *PoiSearch) Kind() Kind { return KindPoi }

func (s *PoiSearch) Lookup(ctx context.Context, cat catalog.Capability, d *Details) ([]Result, error) {
	if s.Anchor == (Point{}) && d.Near != nil {
		local := *s
		local.Anchor = *d.Near
		s = &local
	}
	radius := s.Radius
	if radius == 0 {
		radius = d.NearRadius
	}

	if radius > 0 && radius < poiDirectRadiusThreshold {
		return s.lookupDirect(ctx, cat, d, radius)
	}
	return s.lookupViaClassTable(ctx, cat, d, radius)
}

func (s *PoiSearch) lookupDirect(ctx context.Context, cat catalog.Capability, d *Details, radius float64) ([]Result, error) {
	box := radiusBox(s.Anchor, radius)
	filter := fmt.Sprintf("class = %q AND type = %q", s.Class, s.Type) + viewboxFilter(box, true)

	rows, err := cat.Execute(ctx, catalog.Statement{
		Table:   "placex",
		Filter:  filter,
		OrderBy: "importance DESC",
		Limit:   d.MaxResults,
	})
	if err != nil {
		return nil, err
	}
	return s.toResults(rows, d), nil
}

// lookupViaClassTable consults the class/type companion table
// (get_class_table) to find the PLACEX rows
// belonging to this class/type within the wider radius, when a direct
// PLACEX scan over the whole area would be too broad.
func (s *PoiSearch) lookupViaClassTable(ctx context.Context, cat catalog.Capability, d *Details, radius float64) ([]Result, error) {
	classTable, ok := cat.GetClassTable(ctx, s.Class, s.Type)
	if !ok {
		return s.lookupDirect(ctx, cat, d, radius)
	}

	box := radiusBox(s.Anchor, radius)
	rows, err := cat.Execute(ctx, catalog.Statement{
		Table:   classTable,
		Filter:  viewboxFilter(box, true),
		OrderBy: "importance DESC",
		Limit:   d.MaxResults,
	})
	if err != nil {
		return nil, err
	}
	return s.toResults(rows, d), nil
}

func (s *PoiSearch) toResults(rows []catalog.Row, d *Details) []Result {
	var out []Result
	for _, row := range rows {
		r := rowToResult(row)
		if !d.countryAllowed(r.CountryCode) || d.isExcluded(r.PlaceID) {
			continue
		}
		r.Accuracy = s.Penalty() + distancePenalty(s.Anchor, r.Centroid)
		out = append(out, r)
	}
	return out
}

func radiusBox(p Point, radius float64) BBox {
	return BBox{MinLon: p.Lon - radius, MaxLon: p.Lon + radius, MinLat: p.Lat - radius, MaxLat: p.Lat + radius}
}

// distancePenalty is a cheap planar proxy for the great-circle distance
// ranking the original applies post-hoc; adequate at POI search radii.
func distancePenalty(a, b Point) float64 {
	dx := a.Lon - b.Lon
	dy := a.Lat - b.Lat
	d := dx*dx + dy*dy
	if d > 1 {
		return 1
	}
	return d
}
