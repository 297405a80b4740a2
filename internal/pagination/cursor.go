// Package pagination implements opaque keyset cursors for newest-first listings.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

var ErrInvalidCursor = errors.New("invalid cursor")

type Request struct {
	Limit  int    `form:"limit" json:"limit,omitempty"`
	Cursor string `form:"cursor" json:"cursor,omitempty"`
}

// Normalize clamps Limit into [1, MaxLimit].
func (r *Request) Normalize() {
	if r.Limit <= 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
}

type Response struct {
	Limit      int    `json:"limit"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor,omitempty"`
	Count      int    `json:"count"`
}

func NewResponse(limit int, hasMore bool, nextCursor string, count int) Response {
	return Response{
		Limit:      limit,
		HasMore:    hasMore,
		NextCursor: nextCursor,
		Count:      count,
	}
}

// Position marks the last row of a page: rows strictly older than it come next.
type Position struct {
	CreatedAt int64  `json:"t"` // unix nanoseconds
	ID        string `json:"id"`
}

func (p Position) Time() time.Time {
	return time.Unix(0, p.CreatedAt).UTC()
}

func Encode(createdAt time.Time, id string) string {
	data, _ := json.Marshal(Position{CreatedAt: createdAt.UnixNano(), ID: id})
	return base64.RawURLEncoding.EncodeToString(data)
}

// Decode parses a cursor. An empty cursor yields nil, meaning "first page".
func Decode(cursor string) (*Position, error) {
	if cursor == "" {
		return nil, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	var p Position
	if err := json.Unmarshal(data, &p); err != nil || p.ID == "" {
		return nil, ErrInvalidCursor
	}
	return &p, nil
}
