package search

// Result is one matched place, sortable deterministically by
// (Accuracy, RankSearch, PlaceID) (§4.8).
type Result struct {
	PlaceID     int64
	RankAddress int
	RankSearch  int
	Accuracy    float64
	Importance  float64
	Centroid    Point
	BBox        BBox
	Class       string
	Type        string
	HouseNumber string
	Postcode    string
	CountryCode string
	Names       map[string]string

	// AuxSimilarity is a Jaro-Winkler/Levenshtein diagnostic blend
	// (SPEC_FULL Domain Stack), surfaced for operators debugging a
	// result's rank but never fed back into Accuracy.
	AuxSimilarity float64
}

// Less implements the canonical result ordering.
func Less(a, b Result) bool {
	if a.Accuracy != b.Accuracy {
		return a.Accuracy < b.Accuracy
	}
	if a.RankSearch != b.RankSearch {
		return a.RankSearch < b.RankSearch
	}
	return a.PlaceID < b.PlaceID
}
