package data

// Metadata describes a successfully resolved resource. It is constructed
// fresh per lookup, never mutated, and carries no identity beyond its
// value; a missing resource has no metadata at all.
type Metadata struct {
	// Size is the resource length in bytes.
	Size int64
}
