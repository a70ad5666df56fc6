package assignment

import "github.com/nomigo/geosearch/internal/query"

// state is a partial sequence under construction by the enumerator.
type state struct {
	seq     []TypedRange
	dir     Direction
	penalty float64
	pos     int // the node index reached so far (end of the last segment)
}

func hasType(s *state, t query.TokenType) bool {
	for _, tr := range s.seq {
		if tr.Type == t {
			return true
		}
	}
	return false
}

func lastType(s *state) (query.TokenType, bool) {
	if len(s.seq) == 0 {
		return 0, false
	}
	return s.seq[len(s.seq)-1].Type, true
}

func countSegments(s *state) int { return len(s.seq) }

// followsLoneQualifier reports whether the sequence so far is exactly one
// QUALIFIER segment.
func followsLoneQualifier(s *state) bool {
	return len(s.seq) == 1 && s.seq[0].Type == query.TokenQualifier
}

func isOnly(s *state, types ...query.TokenType) bool {
	if len(s.seq) != len(types) {
		return false
	}
	for i, tr := range s.seq {
		if tr.Type != types[i] {
			return false
		}
	}
	return true
}

// appendable tests whether a candidate type may extend the sequence under
// the current direction, and what direction results (§4.5 grammar).
func appendable(s *state, t query.TokenType) (Direction, bool) {
	d := s.dir

	if t == query.TokenWord {
		return d, false
	}

	if len(s.seq) == 0 {
		switch t {
		case query.TokenCountry:
			return DirBackward, true
		case query.TokenHouseNumber, query.TokenQualifier:
			return DirForward, true
		default:
			return d, true
		}
	}

	if t == query.TokenPartial {
		if d == DirBackward {
			if last, ok := lastType(s); ok && last == query.TokenQualifier {
				return d, false
			}
		}
		return d, true
	}

	if t.Unique() && hasType(s, t) {
		return d, false
	}

	switch t {
	case query.TokenHouseNumber:
		if d == DirForward {
			if countSegments(s) > 2 || hasType(s, query.TokenPostcode) || hasType(s, query.TokenCountry) || followsLoneQualifier(s) {
				return d, false
			}
			return d, true
		}
		return DirBackward, true

	case query.TokenPostcode:
		if d == DirBackward {
			if hasType(s, query.TokenHouseNumber) || hasType(s, query.TokenQualifier) {
				return d, false
			}
			return d, true
		}
		if d == DirForward && hasType(s, query.TokenCountry) {
			return d, false
		}
		if hasType(s, query.TokenHouseNumber) || hasType(s, query.TokenQualifier) {
			return DirForward, true
		}
		return d, true

	case query.TokenCountry:
		if d == DirBackward {
			return d, false
		}
		return DirForward, true

	case query.TokenNearItem:
		return d, true

	case query.TokenQualifier:
		if d == DirForward {
			if len(s.seq) == 0 ||
				isOnly(s, query.TokenPartial) ||
				isOnly(s, query.TokenNearItem) ||
				isOnly(s, query.TokenNearItem, query.TokenPartial) {
				return d, true
			}
			return d, false
		}
		if d == DirBackward {
			return d, true
		}
		if countSegments(s) > 1 || hasType(s, query.TokenPostcode) || hasType(s, query.TokenCountry) {
			return DirBackward, true
		}
		return DirNone, true
	}

	return d, true
}

// isFinal reports whether a state cannot extend further: at least two
// segments, and the last is COUNTRY or NEAR_ITEM (they must be boundary
// terms).
func isFinal(s *state) bool {
	if len(s.seq) < 2 {
		return false
	}
	last := s.seq[len(s.seq)-1].Type
	return last == query.TokenCountry || last == query.TokenNearItem
}
