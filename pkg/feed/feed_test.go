package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type msg struct {
	id     string
	author string
	at     time.Time
}

func (m msg) AuthorID() string { return m.author }

func (m msg) Created() (time.Time, bool) { return m.at, !m.at.IsZero() }

var base = time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)

// newestFirst reverses oldest-first fixtures the way the API returns them.
func newestFirst(items ...msg) []msg {
	out := make([]msg, len(items))
	for i, m := range items {
		out[len(items)-1-i] = m
	}
	return out
}

func ids(items []msg) []string {
	out := make([]string, len(items))
	for i, m := range items {
		out[i] = m.id
	}
	return out
}

func TestGroupByDay(t *testing.T) {
	stream := newestFirst(
		msg{id: "a", author: "u1", at: base.Add(-24 * time.Hour)},
		msg{id: "b", author: "u1", at: base},
		msg{id: "c", author: "u2", at: base.Add(time.Hour)},
		msg{id: "pending", author: "u2"},
	)

	buckets := GroupByDay(stream, time.UTC)
	require.Len(t, buckets, 2)

	assert.Equal(t, "2024-03-14", buckets[0].Key, "newest day first")
	assert.Equal(t, []string{"b", "c"}, ids(buckets[0].Items), "oldest first inside a bucket")
	assert.Equal(t, "2024-03-13", buckets[1].Key)
	assert.Equal(t, []string{"a"}, ids(buckets[1].Items))

	for _, b := range buckets {
		for i := 1; i < len(b.Items); i++ {
			assert.False(t, b.Items[i].at.Before(b.Items[i-1].at))
		}
	}
}

func TestGroupByDay_UsesLocation(t *testing.T) {
	almaty := time.FixedZone("UTC+5", 5*60*60)
	late := msg{id: "x", author: "u1", at: time.Date(2024, 3, 14, 21, 0, 0, 0, time.UTC)}

	assert.Equal(t, "2024-03-14", GroupByDay([]msg{late}, time.UTC)[0].Key)
	assert.Equal(t, "2024-03-15", GroupByDay([]msg{late}, almaty)[0].Key)
}

func TestCompact(t *testing.T) {
	tests := []struct {
		name  string
		items []msg
		want  []bool
	}{
		{
			name: "two minutes then ten",
			items: []msg{
				{author: "u1", at: base},
				{author: "u1", at: base.Add(2 * time.Minute)},
				{author: "u1", at: base.Add(10 * time.Minute)},
			},
			want: []bool{false, true, false},
		},
		{
			name: "author change",
			items: []msg{
				{author: "u1", at: base},
				{author: "u2", at: base.Add(time.Minute)},
			},
			want: []bool{false, false},
		},
		{
			name: "exactly five minutes is not compact",
			items: []msg{
				{author: "u1", at: base},
				{author: "u1", at: base.Add(CompactThreshold)},
			},
			want: []bool{false, false},
		},
		{
			name: "previous without timestamp",
			items: []msg{
				{author: "u1"},
				{author: "u1", at: base},
			},
			want: []bool{false, false},
		},
		{
			name:  "single",
			items: []msg{{author: "u1", at: base}},
			want:  []bool{false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compact(tt.items))
		})
	}
}

func TestBuild(t *testing.T) {
	now := base.Add(3 * time.Hour)
	stream := newestFirst(
		msg{id: "old", author: "u1", at: base.AddDate(0, 0, -5)},
		msg{id: "y", author: "u1", at: base.AddDate(0, 0, -1)},
		msg{id: "t1", author: "u1", at: base},
		msg{id: "t2", author: "u1", at: base.Add(2 * time.Minute)},
		msg{id: "t3", author: "u1", at: base.Add(10 * time.Minute)},
	)

	groups := Build(stream, time.UTC, now)
	require.Len(t, groups, 3)

	assert.Equal(t, "Today", groups[0].Label)
	require.Len(t, groups[0].Rows, 3)
	assert.Equal(t, "t1", groups[0].Rows[0].Item.id)
	assert.Equal(t, []bool{false, true, false}, []bool{
		groups[0].Rows[0].Compact, groups[0].Rows[1].Compact, groups[0].Rows[2].Compact,
	})

	assert.Equal(t, "Yesterday", groups[1].Label)
	assert.Equal(t, "Sat, March 9", groups[2].Label)
}

func TestDateLabel(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC)

	assert.Equal(t, "Today", DateLabel(now, now, time.UTC))
	assert.Equal(t, "Yesterday", DateLabel(time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC), now, time.UTC))
	assert.Equal(t, "Sat, December 30", DateLabel(time.Date(2023, 12, 30, 12, 0, 0, 0, time.UTC), now, time.UTC))
}
