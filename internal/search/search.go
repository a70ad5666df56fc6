package search

import (
	"context"

	"github.com/nomigo/geosearch/internal/catalog"
)

// Kind tags which variant a Search is, used only for the priority
// tie-break when the executor sorts (§4.6 Design Notes: "tagged variant").
type Kind int

const (
	KindCountry Kind = iota
	KindPostcode
	KindPlace
	KindPoi
	KindNear
)

// Priority is SEARCH_PRIO: CountrySearch first, PlaceSearch next,
// everything else (Postcode/Poi/Near) last.
func (k Kind) Priority() int {
	switch k {
	case KindCountry:
		return 0
	case KindPlace:
		return 1
	default:
		return 2
	}
}

// Search is the common capability every variant exposes to the executor.
type Search interface {
	Kind() Kind
	Penalty() float64
	Lookup(ctx context.Context, cat catalog.Capability, d *Details) ([]Result, error)
}

// Base holds the fields every concrete search shares.
type Base struct {
	penalty float64
}

func (b Base) Penalty() float64 { return b.penalty }
