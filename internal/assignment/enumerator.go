package assignment

import "github.com/nomigo/geosearch/internal/query"

const maxAddressTokens = 50

// Enumerate walks the query graph with an explicit work stack (never
// recursion, per original_source's yield_token_assignments and Design
// Notes' "implement as an explicit work stack"), producing every valid
// TokenAssignment.
func Enumerate(q *query.Struct) []*Assignment {
	initDir := DirNone
	if len(q.Source) > 0 && q.Source[0].IsTyped() {
		initDir = DirForward
	}

	var out []*Assignment
	stack := []*state{{seq: nil, dir: initDir, penalty: 0, pos: 0}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur.pos == q.NumTokenSlots() {
			if recheck(cur) {
				out = append(out, emit(q, cur)...)
			}
			continue
		}

		node := q.Nodes[cur.pos]

		if cur.pos < q.NumTokenSlots() {
			forced := node.Break == query.BreakPhrase
			stack = tryExtend(q, stack, cur, TypedRange{
				Range: query.TokenRange{Start: cur.pos, End: cur.pos + 1},
				Type:  query.TokenPartial,
			}, forced, node)
		}
		for _, tl := range node.Starting {
			stack = tryExtend(q, stack, cur, TypedRange{Range: tl.Range, Type: tl.Type}, true, node)
		}
	}
	return out
}

func tryExtend(q *query.Struct, stack []*state, cur *state, tr TypedRange, forceBreak bool, node *query.BreakNode) []*state {
	newDir, ok := appendable(cur, tr.Type)
	if !ok {
		return stack
	}

	extendLast := false
	if !forceBreak && len(cur.seq) > 0 {
		last := cur.seq[len(cur.seq)-1]
		if last.Type == tr.Type && last.Range.End == tr.Range.Start {
			extendLast = true
		}
	}

	seq := make([]TypedRange, len(cur.seq))
	copy(seq, cur.seq)
	penalty := cur.penalty
	if extendLast {
		seq[len(seq)-1].Range.End = tr.Range.End
	} else {
		seq = append(seq, tr)
		penalty += node.WordBreakPenalty()
	}

	next := &state{seq: seq, dir: newDir, penalty: penalty, pos: tr.Range.End}
	if isFinal(next) && next.pos != q.NumTokenSlots() {
		// A final state cannot be extended further and did not reach the
		// end of the query: this branch is dead.
		return stack
	}
	return append(stack, next)
}

// recheck applies the post-length-completion penalty/rejection rules, a
// direct port of _adapt_penalty_from_priors/recheck_sequence: a housenumber
// with exactly 2 PARTIAL tokens on its not-yet-committed side either
// commits the sequence's direction (if still undecided) or, if a direction
// is already committed, adds +0.8; 3 or more on that side commit the
// direction if still undecided and otherwise reject the sequence. A NEAR_ITEM sharing the sequence with a HOUSENUMBER
// always adds +1.0. Mutates s.dir/s.penalty in place, mirroring the
// original's mutation of self.direction/self.penalty.
func recheck(s *state) bool {
	hnIdx := -1
	for i, tr := range s.seq {
		if tr.Type == query.TokenHouseNumber {
			hnIdx = i
		}
	}
	if hnIdx < 0 {
		return true
	}

	if s.dir != DirBackward {
		priors := countPartials(s.seq[:hnIdx])
		if !adaptPenaltyFromPriors(s, priors, DirBackward) {
			return false
		}
	}
	if s.dir != DirForward {
		priors := countPartials(s.seq[hnIdx+1:])
		if !adaptPenaltyFromPriors(s, priors, DirForward) {
			return false
		}
	}
	if hasType(s, query.TokenNearItem) {
		s.penalty += 1.0
	}
	return true
}

// adaptPenaltyFromPriors is _adapt_penalty_from_priors: with 0 or 1 PARTIAL
// tokens on the side in question, nothing happens. With exactly 2, either
// the direction commits (if undecided) or a +0.8 penalty applies (if a
// direction is already committed). With 3 or more and a direction already
// committed, the sequence is rejected.
func adaptPenaltyFromPriors(s *state, priors int, newDir Direction) bool {
	if priors >= 2 {
		if s.dir == DirNone {
			s.dir = newDir
		} else if priors == 2 {
			s.penalty += 0.8
		} else {
			return false
		}
	}
	return true
}

func countPartials(seq []TypedRange) int {
	n := 0
	for _, tr := range seq {
		if tr.Type == query.TokenPartial {
			n++
		}
	}
	return n
}
