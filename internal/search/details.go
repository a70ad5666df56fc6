// Package search implements the Search Builder (§4.6) and Search Executor
// (§4.7): TokenAssignments become catalog lookups, which are executed,
// merged and reranked into a sorted Result list.
package search

// Point is a longitude/latitude pair.
type Point struct {
	Lon, Lat float64
}

// BBox is an axis-aligned bounding box in degrees.
type BBox struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

func (b BBox) Area() float64 {
	w := b.MaxLon - b.MinLon
	h := b.MaxLat - b.MinLat
	if w < 0 || h < 0 {
		return 0
	}
	return w * h
}

func (b BBox) Expand(deg float64) BBox {
	return BBox{b.MinLon - deg, b.MinLat - deg, b.MaxLon + deg, b.MaxLat + deg}
}

// Layers is the domain filter bitmask (§6).
type Layers uint8

const (
	LayerAddress Layers = 1 << iota
	LayerPOI
	LayerManmade
	LayerRailway
	LayerNatural
	LayerAll = LayerAddress | LayerPOI | LayerManmade | LayerRailway | LayerNatural
)

// GeometryFormat is the output-geometry bitmask (§6).
type GeometryFormat uint8

const (
	GeomNone    GeometryFormat = 0
	GeomGeoJSON GeometryFormat = 1 << iota
	GeomText
	GeomKML
	GeomSVG
)

// Details carries the request-scoped options every search consults (§6
// SearchDetails).
type Details struct {
	MaxResults int
	MinRank    int
	MaxRank    int

	Viewbox        *BBox
	BoundedViewbox bool

	Near       *Point
	NearRadius float64

	Excluded  map[int64]bool
	Countries map[string]bool
	Layers    Layers

	GeometryOutput          GeometryFormat
	GeometrySimplification  float64

	Similarity SimilarityWeights
}

// DefaultDetails returns a permissive Details with sane defaults: no
// result cap beyond a reasonable ceiling, full rank range, no
// restrictions.
func DefaultDetails() *Details {
	return &Details{
		MaxResults: 20,
		MinRank:    1,
		MaxRank:    30,
		Layers:     LayerAll,
		Similarity: DefaultSimilarityWeights,
	}
}

func (d *Details) isExcluded(placeID int64) bool {
	return d.Excluded != nil && d.Excluded[placeID]
}

func (d *Details) countryAllowed(cc string) bool {
	if len(d.Countries) == 0 {
		return true
	}
	return d.Countries[cc]
}
