package feed

import "time"

// CompactThreshold is the largest gap between two rows by the same author
// that still renders the second one without its header.
const CompactThreshold = 5 * time.Minute

// IsCompact reports whether cur follows prev closely enough to drop its header.
func IsCompact[T Entry](prev, cur T) bool {
	if prev.AuthorID() != cur.AuthorID() {
		return false
	}
	prevAt, ok := prev.Created()
	if !ok {
		return false
	}
	curAt, ok := cur.Created()
	if !ok {
		return false
	}
	return curAt.Sub(prevAt) < CompactThreshold
}

// Compact returns one flag per item of an oldest-first bucket. The first row is never compact.
func Compact[T Entry](items []T) []bool {
	flags := make([]bool, len(items))
	for i := 1; i < len(items); i++ {
		flags[i] = IsCompact(items[i-1], items[i])
	}
	return flags
}
