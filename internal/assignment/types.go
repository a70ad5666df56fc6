// Package assignment enumerates valid TokenAssignments over a query graph
// (§4.5): sequences of typed, non-overlapping ranges covering the whole
// query, each scored with an additive penalty.
package assignment

import "github.com/nomigo/geosearch/internal/query"

// Direction tracks whether the sequence under construction reads
// left-to-right (+1), right-to-left (-1), or is not yet committed (0).
type Direction int

const (
	DirBackward Direction = -1
	DirNone     Direction = 0
	DirForward  Direction = 1
)

// TypedRange is one segment of a sequence: a token range tagged with the
// role it plays.
type TypedRange struct {
	Range query.TokenRange
	Type  query.TokenType
}

// Assignment is a complete role layout over the query (§3
// TokenAssignment).
type Assignment struct {
	Name       *query.TokenRange
	Address    []query.TokenRange
	HouseNumber *query.TokenRange
	Postcode   *query.TokenRange
	Country    *query.TokenRange
	NearItem   *query.TokenRange
	Qualifier  *query.TokenRange
	Penalty    float64

	// Kind flags the emission rule that produced this assignment, used
	// by the Search Builder to decide which variant(s) to build.
	Kind Kind
}

// Kind names which §4.5 emission rule produced an Assignment.
type Kind int

const (
	KindPostcodeWithAddress Kind = iota
	KindCountryOrPostcodeOnly
	KindForwardAddress
	KindBackwardAddress
	KindHouseNumberOnly
)

// NumAddressTokens sums the length of the address ranges.
func (a *Assignment) NumAddressTokens() int {
	n := 0
	for _, r := range a.Address {
		n += r.Len()
	}
	return n
}
