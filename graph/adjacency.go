package graph

// AdjacencyIndex answers "are these two nodes linked" in O(1).
// Both orderings of every edge are stored.
type AdjacencyIndex map[string]struct{}

func adjacencyKey(a, b string) string {
	return a + AdjacencySeparator + b
}

// add registers both orderings of the pair
func (idx AdjacencyIndex) add(a, b string) {
	idx[adjacencyKey(a, b)] = struct{}{}
	idx[adjacencyKey(b, a)] = struct{}{}
}

// Has reports whether the exact key id1+","+id2 is present
func (idx AdjacencyIndex) Has(a, b string) bool {
	_, ok := idx[adjacencyKey(a, b)]
	return ok
}

// IsAdjacent reports whether a and b share an edge, in either direction
func (idx AdjacencyIndex) IsAdjacent(a, b string) bool {
	return idx.Has(a, b) || idx.Has(b, a)
}
