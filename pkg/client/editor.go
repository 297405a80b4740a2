package client

import "sync"

// EditorHandle is the imperative surface of a rich-text editor.
type EditorHandle interface {
	Focus()
	SetEnabled(enabled bool)
	PlainText() string
	InsertText(pos int, text string)
	// Reset clears the content.
	Reset()
}

// TextEditor is an in-memory EditorHandle.
type TextEditor struct {
	mu      sync.Mutex
	text    []rune
	enabled bool
	focused bool
}

func NewTextEditor() *TextEditor {
	return &TextEditor{enabled: true}
}

func (e *TextEditor) Focus() {
	e.mu.Lock()
	e.focused = true
	e.mu.Unlock()
}

func (e *TextEditor) Focused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focused
}

func (e *TextEditor) SetEnabled(enabled bool) {
	e.mu.Lock()
	e.enabled = enabled
	e.mu.Unlock()
}

func (e *TextEditor) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

func (e *TextEditor) PlainText() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return string(e.text)
}

// InsertText inserts at a rune offset, clamped to the content. Disabled editors ignore input.
func (e *TextEditor) InsertText(pos int, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.enabled {
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(e.text) {
		pos = len(e.text)
	}
	ins := []rune(text)
	out := make([]rune, 0, len(e.text)+len(ins))
	out = append(out, e.text[:pos]...)
	out = append(out, ins...)
	out = append(out, e.text[pos:]...)
	e.text = out
}

func (e *TextEditor) Reset() {
	e.mu.Lock()
	e.text = nil
	e.mu.Unlock()
}
