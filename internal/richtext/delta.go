// Package richtext reads rich-text message bodies stored as delta documents
// ({"ops":[{"insert":"hello "},{"insert":"world","attributes":{"bold":true}}]}).
package richtext

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrInvalidDelta = errors.New("body is not a valid delta document")

type Op struct {
	Insert     json.RawMessage        `json:"insert,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

type Delta struct {
	Ops []Op `json:"ops"`
}

// Parse accepts a delta object or a JSON string holding a serialized delta.
func Parse(raw []byte) (*Delta, error) {
	raw = []byte(strings.TrimSpace(string(raw)))
	if len(raw) == 0 {
		return nil, ErrInvalidDelta
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, ErrInvalidDelta
		}
		raw = []byte(inner)
	}

	var d Delta
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, ErrInvalidDelta
	}
	if d.Ops == nil {
		return nil, ErrInvalidDelta
	}
	return &d, nil
}

// PlainText concatenates every text insert. Embeds (images, mentions) are skipped.
func (d *Delta) PlainText() string {
	var b strings.Builder
	for _, op := range d.Ops {
		var text string
		if err := json.Unmarshal(op.Insert, &text); err == nil {
			b.WriteString(text)
		}
	}
	return b.String()
}

// IsBlank reports whether the document has no visible text.
func (d *Delta) IsBlank() bool {
	return strings.TrimSpace(d.PlainText()) == ""
}

// Normalize returns the canonical JSON encoding of the document.
func (d *Delta) Normalize() ([]byte, error) {
	return json.Marshal(d)
}

// FromText builds a single-insert delta. A trailing newline is appended as editors do.
func FromText(text string) *Delta {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	insert, _ := json.Marshal(text)
	return &Delta{Ops: []Op{{Insert: insert}}}
}
