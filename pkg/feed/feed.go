package feed

import "time"

const dateLabelLayout = "Mon, January 2"

// Row is one rendered entry.
type Row[T Entry] struct {
	Item    T
	Compact bool
}

// DayGroup is a labelled day of rows, oldest first.
type DayGroup[T Entry] struct {
	Key   string
	Label string
	Rows  []Row[T]
}

// Build turns a newest-first stream into labelled day groups with compact flags.
func Build[T Entry](items []T, loc *time.Location, now time.Time) []DayGroup[T] {
	if loc == nil {
		loc = time.Local
	}

	buckets := GroupByDay(items, loc)
	groups := make([]DayGroup[T], 0, len(buckets))

	for _, bucket := range buckets {
		flags := Compact(bucket.Items)
		rows := make([]Row[T], len(bucket.Items))
		for i, item := range bucket.Items {
			rows[i] = Row[T]{Item: item, Compact: flags[i]}
		}
		groups = append(groups, DayGroup[T]{
			Key:   bucket.Key,
			Label: DateLabel(bucket.Day, now, loc),
			Rows:  rows,
		})
	}

	return groups
}

// DateLabel renders "Today", "Yesterday" or a short weekday date such as "Mon, January 2".
func DateLabel(day, now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	day = day.In(loc)
	now = now.In(loc)

	y, m, d := day.Date()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)

	switch {
	case start.Equal(today):
		return "Today"
	case start.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return day.Format(dateLabelLayout)
	}
}
