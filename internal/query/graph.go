package query

// BreakType classifies the boundary between two adjacent token slots.
type BreakType int

const (
	BreakStart BreakType = iota
	BreakEnd
	BreakPhrase
	BreakSoftPhrase
	BreakWord
	BreakPart
	BreakToken
)

// Penalty returns the fixed cost of crossing a break of this type.
// START/END/PHRASE/SOFT_PHRASE collapse to the single BreakBoundary value
// per SPEC_FULL's Open Question decision; WORD, PART and TOKEN keep their
// own distinct constants.
func (b BreakType) Penalty() float64 {
	switch b {
	case BreakStart, BreakEnd, BreakPhrase, BreakSoftPhrase:
		return BreakBoundaryPenalty
	case BreakWord:
		return 0.1
	case BreakPart, BreakToken:
		return 0.0
	default:
		return 0.0
	}
}

// BreakBoundaryPenalty is the collapsed START/END/PHRASE/SOFT_PHRASE cost.
const BreakBoundaryPenalty = 0.5

// BreakNode sits between two adjacent term slots. Node 0 precedes the first
// slot, node N (== NumTokenSlots) follows the last.
type BreakNode struct {
	Break    BreakType
	PType    PhraseType
	Starting []*TokenList
}

// WordBreakPenalty is the penalty charged when a sequence segment ends at
// this node.
func (n *BreakNode) WordBreakPenalty() float64 { return n.Break.Penalty() }

// HasPartials reports whether a synthetic PARTIAL token covering
// [pos, pos+1) would be meaningful at this node, i.e. there is at least one
// term slot starting here.
func (n *BreakNode) HasPartials(hasNextSlot bool) bool { return hasNextSlot }

// Struct is the full parsed query: phrases, break node sequence, and a
// directional hint used by the assignment enumerator.
type Struct struct {
	Source     []Phrase
	Nodes      []*BreakNode // N0 .. Nk, len == NumTokenSlots()+1
	DirPenalty float64
}

// NumTokenSlots is the number of term positions in the query.
func (q *Struct) NumTokenSlots() int {
	if len(q.Nodes) == 0 {
		return 0
	}
	return len(q.Nodes) - 1
}

// NewStruct allocates an empty query graph with k token slots (k+1 nodes).
func NewStruct(source []Phrase, numSlots int) *Struct {
	nodes := make([]*BreakNode, numSlots+1)
	for i := range nodes {
		nodes[i] = &BreakNode{}
	}
	if len(nodes) > 0 {
		nodes[0].Break = BreakStart
		nodes[len(nodes)-1].Break = BreakEnd
	}
	return &Struct{Source: source, Nodes: nodes}
}

// AddTokenList registers a typed token list starting at the range's first
// node.
func (q *Struct) AddTokenList(tl *TokenList) {
	q.Nodes[tl.Range.Start].Starting = append(q.Nodes[tl.Range.Start].Starting, tl)
}

// TokenListsAt returns the token lists starting at the given node that
// cover exactly the given range and type, or nil.
func (q *Struct) TokenListsAt(r TokenRange, t TokenType) *TokenList {
	for _, tl := range q.Nodes[r.Start].Starting {
		if tl.Range == r && tl.Type == t {
			return tl
		}
	}
	return nil
}
