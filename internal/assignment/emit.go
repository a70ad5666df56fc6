package assignment

import "github.com/nomigo/geosearch/internal/query"

// emit converts one complete, recheck-passed sequence into zero or more
// TokenAssignments, following the emission rules of §4.5.
func emit(q *query.Struct, s *state) []*Assignment {
	base := &Assignment{Penalty: s.penalty}
	var addressRanges []query.TokenRange
	for _, tr := range s.seq {
		r := tr.Range
		switch tr.Type {
		case query.TokenPartial:
			addressRanges = append(addressRanges, r)
		case query.TokenHouseNumber:
			base.HouseNumber = &r
		case query.TokenPostcode:
			base.Postcode = &r
		case query.TokenCountry:
			base.Country = &r
		case query.TokenNearItem:
			base.NearItem = &r
		case query.TokenQualifier:
			base.Qualifier = &r
		}
	}
	base.Address = addressRanges

	if base.NumAddressTokens() > maxAddressTokens {
		return nil
	}

	var out []*Assignment

	// Rule 3: postcode adjoining a query boundary with at least one
	// address term.
	if base.Postcode != nil && len(addressRanges) > 0 &&
		(base.Postcode.Start == 0 || base.Postcode.End == q.NumTokenSlots()) {
		v := cloneAssignment(base)
		v.Kind = KindPostcodeWithAddress
		if base.Postcode.Start == 0 {
			// <postcode>,<address> ordering costs +0.1 relative to
			// <address>,<postcode>.
			v.Penalty += 0.1
		}
		extra := len(addressRanges) - 1
		if extra > 0 {
			v.Penalty += 0.1 * float64(extra)
		}
		out = append(out, v)
	}

	// Rule 4: no address, but a postcode/country/near-item and no
	// housenumber.
	if len(addressRanges) == 0 && base.HouseNumber == nil &&
		(base.Postcode != nil || base.Country != nil || base.NearItem != nil) {
		v := cloneAssignment(base)
		v.Kind = KindCountryOrPostcodeOnly
		out = append(out, v)
	}

	// Rule 5: forward/backward address readings.
	if len(addressRanges) > 0 {
		if s.dir != DirBackward {
			out = append(out, readAddressForward(q, base, addressRanges, s.dir)...)
		}
		if s.dir != DirForward {
			out = append(out, readAddressBackward(q, base, addressRanges, s.dir)...)
		}
	}

	// Rule 6: housenumber present and no qualifier also yields the raw,
	// unsplit assignment.
	if base.HouseNumber != nil && base.Qualifier == nil {
		v := cloneAssignment(base)
		v.Kind = KindHouseNumberOnly
		out = append(out, v)
	}

	return out
}

// readAddressForward is a direct port of
// _get_assignments_address_forward: the first address range is read as
// the name, with the remaining address ranges following it.
func readAddressForward(q *query.Struct, base *Assignment, addressRanges []query.TokenRange, dir Direction) []*Assignment {
	first := addressRanges[0]
	rest := append([]query.TokenRange{}, addressRanges[1:]...)

	// The postcode must come after the name.
	if base.Postcode != nil && base.Postcode.End <= first.Start {
		return nil
	}

	penalty := base.Penalty
	if base.Country == nil && dir == DirForward && q.DirPenalty > 0 {
		penalty += q.DirPenalty
	}

	out := []*Assignment{mkAssignment(base, KindForwardAddress, first, rest, penalty)}

	// To paraphrase:
	//  * if another name term comes after the first one and before the
	//    housenumber
	//  * a qualifier comes after the name
	//  * the containing phrase is strictly typed
	if (base.HouseNumber != nil && first.End < base.HouseNumber.Start) ||
		(base.Qualifier != nil && base.Qualifier.Start >= first.End) ||
		q.Nodes[first.Start].PType != query.PhraseAny {
		return out
	}

	// Penalty for:
	//  * <name>, <street>, <housenumber> , ...
	//  * queries that are comma-separated
	if (base.HouseNumber != nil && base.HouseNumber.Start >= first.End) || len(q.Source) > 1 {
		penalty += 0.25
	}
	if dir == DirNone && q.DirPenalty > 0 {
		penalty += q.DirPenalty
	}

	for k := first.Start + 1; k < first.End; k++ {
		name := query.TokenRange{Start: first.Start, End: k}
		addr := query.TokenRange{Start: k, End: first.End}
		splitPenalty := penalty + q.Nodes[k].WordBreakPenalty()
		out = append(out, mkAssignment(base, KindForwardAddress, name,
			append(append([]query.TokenRange{}, rest...), addr), splitPenalty))
	}
	return out
}

// readAddressBackward is a direct port of
// _get_assignments_address_backward: the last address range is read as
// the name, with the remaining address ranges preceding it.
func readAddressBackward(q *query.Struct, base *Assignment, addressRanges []query.TokenRange, dir Direction) []*Assignment {
	last := addressRanges[len(addressRanges)-1]
	rest := append([]query.TokenRange{}, addressRanges[:len(addressRanges)-1]...)

	// The postcode must come before the name for backward direction.
	if base.Postcode != nil && base.Postcode.Start >= last.End {
		return nil
	}

	penalty := base.Penalty
	if base.Country == nil && dir == DirBackward && q.DirPenalty < 0 {
		penalty -= q.DirPenalty
	}

	var out []*Assignment
	if dir == DirBackward || len(addressRanges) > 1 || base.Postcode != nil {
		out = append(out, mkAssignment(base, KindBackwardAddress, last, rest, penalty))
	}

	// To paraphrase:
	//  * if another name term comes before the last one and after the
	//    housenumber
	//  * a qualifier comes before the name
	//  * the containing phrase is strictly typed
	if (base.HouseNumber != nil && last.Start > base.HouseNumber.End) ||
		(base.Qualifier != nil && base.Qualifier.End <= last.Start) ||
		q.Nodes[last.Start].PType != query.PhraseAny {
		return out
	}

	if base.HouseNumber != nil && base.HouseNumber.End <= last.Start {
		penalty += 0.4
	}
	if len(q.Source) > 1 {
		penalty += 0.25
	}
	if dir == DirNone && q.DirPenalty < 0 {
		penalty -= q.DirPenalty
	}

	for k := last.Start + 1; k < last.End; k++ {
		addr := query.TokenRange{Start: last.Start, End: k}
		name := query.TokenRange{Start: k, End: last.End}
		splitPenalty := penalty + q.Nodes[k].WordBreakPenalty()
		out = append(out, mkAssignment(base, KindBackwardAddress, name,
			append(append([]query.TokenRange{}, rest...), addr), splitPenalty))
	}
	return out
}

func mkAssignment(base *Assignment, kind Kind, name query.TokenRange, address []query.TokenRange, penalty float64) *Assignment {
	v := cloneAssignment(base)
	v.Kind = kind
	nr := name
	v.Name = &nr
	v.Address = address
	v.Penalty = penalty
	return v
}

func cloneAssignment(a *Assignment) *Assignment {
	c := *a
	c.Address = append([]query.TokenRange{}, a.Address...)
	return &c
}
