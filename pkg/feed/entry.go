// Package feed assembles a newest-first message stream into day groups with
// compact rows, and drives paging from a viewport sentinel.
package feed

import "time"

// Entry is anything the feed can place on the timeline.
type Entry interface {
	// AuthorID identifies the user who wrote the entry.
	AuthorID() string
	// Created reports the creation time; ok is false when the entry has none yet.
	Created() (created time.Time, ok bool)
}
