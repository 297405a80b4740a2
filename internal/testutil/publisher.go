package testutil

import (
	"sync"

	"teamchat/internal/events"
)

// RecordingPublisher keeps every published event for assertions.
type RecordingPublisher struct {
	mu      sync.Mutex
	events  []events.Event
	revoked []string
}

func (p *RecordingPublisher) Publish(room, eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events.Event{Type: eventType, Room: room, Payload: payload})
}

func (p *RecordingPublisher) RevokeUser(userID, workspaceID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.revoked = append(p.revoked, workspaceID+"/"+userID)
}

func (p *RecordingPublisher) RevokeWorkspace(workspaceID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.revoked = append(p.revoked, workspaceID+"/*")
}

// Revoked lists revocations as "workspace/user", with "*" for a whole workspace.
func (p *RecordingPublisher) Revoked() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.revoked...)
}

func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Event, len(p.events))
	copy(out, p.events)
	return out
}

// Types lists the event types published to room, in order.
func (p *RecordingPublisher) Types(room string) []string {
	var types []string
	for _, e := range p.Events() {
		if e.Room == room {
			types = append(types, e.Type)
		}
	}
	return types
}
