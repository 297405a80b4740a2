package feed

import "time"

const dayKeyLayout = "2006-01-02"

// DayBucket holds the entries of one calendar day, oldest first.
type DayBucket[T Entry] struct {
	Key   string
	Day   time.Time
	Items []T
}

// GroupByDay buckets a newest-first stream by calendar day in loc.
// Buckets come out newest day first; items inside a bucket oldest first.
// Entries without a timestamp are skipped.
func GroupByDay[T Entry](items []T, loc *time.Location) []DayBucket[T] {
	if loc == nil {
		loc = time.Local
	}

	var buckets []DayBucket[T]
	index := make(map[string]int)

	for _, item := range items {
		created, ok := item.Created()
		if !ok {
			continue
		}
		local := created.In(loc)
		key := local.Format(dayKeyLayout)

		i, seen := index[key]
		if !seen {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, DayBucket[T]{
				Key: key,
				Day: time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc),
			})
		}
		buckets[i].Items = append([]T{item}, buckets[i].Items...)
	}

	return buckets
}
