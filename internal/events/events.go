// Package events names realtime rooms and the events pushed into them.
package events

import (
	"fmt"
	"strings"
)

// Event types
const (
	MessageCreated   = "message.created"
	MessageUpdated   = "message.updated"
	MessageDeleted   = "message.deleted"
	ThreadUpdated    = "thread.updated"
	ReactionToggled  = "reaction.toggled"
	ChannelCreated   = "channel.created"
	ChannelUpdated   = "channel.updated"
	ChannelDeleted   = "channel.deleted"
	MemberJoined     = "member.joined"
	MemberUpdated    = "member.updated"
	MemberRemoved    = "member.removed"
	WorkspaceUpdated = "workspace.updated"
	WorkspaceDeleted = "workspace.deleted"
)

// Room kinds
const (
	KindWorkspace    = "workspace"
	KindChannel      = "channel"
	KindConversation = "conversation"
	KindThread       = "thread"
)

// Event is the envelope sent to subscribers.
type Event struct {
	Type    string      `json:"type"`
	Room    string      `json:"room"`
	Payload interface{} `json:"payload"`
}

// Publisher fans events out to subscribers of a room.
type Publisher interface {
	Publish(room, eventType string, payload interface{})
	// RevokeUser drops the live subscriptions userID holds in rooms of workspaceID.
	RevokeUser(userID, workspaceID string)
	// RevokeWorkspace drops every live subscription to rooms of workspaceID.
	RevokeWorkspace(workspaceID string)
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, string, interface{}) {}
func (noopPublisher) RevokeUser(string, string)           {}
func (noopPublisher) RevokeWorkspace(string)              {}

// Noop discards every event.
func Noop() Publisher {
	return noopPublisher{}
}

func WorkspaceRoom(id string) string    { return KindWorkspace + ":" + id }
func ChannelRoom(id string) string      { return KindChannel + ":" + id }
func ConversationRoom(id string) string { return KindConversation + ":" + id }
func ThreadRoom(id string) string       { return KindThread + ":" + id }

// ParseRoom splits "kind:id" and validates the kind.
func ParseRoom(room string) (kind, id string, err error) {
	kind, id, ok := strings.Cut(room, ":")
	if !ok || id == "" {
		return "", "", fmt.Errorf("malformed room %q", room)
	}
	switch kind {
	case KindWorkspace, KindChannel, KindConversation, KindThread:
		return kind, id, nil
	default:
		return "", "", fmt.Errorf("unknown room kind %q", kind)
	}
}
