package sound

// SearchFilter narrows local search results. The zero value applies no
// filtering.
type SearchFilter struct {
	// Provenance restricts results to one provenance kind when non-empty.
	Provenance ProvenanceKind
	// Limit caps the number of results when positive.
	Limit int
}
