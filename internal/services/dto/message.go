package dto

import (
	"encoding/json"
	"time"

	"teamchat/internal/pagination"
)

type CreateMessageRequest struct {
	WorkspaceID     string          `json:"workspace_id" validate:"required"`
	Body            json.RawMessage `json:"body" validate:"required"`
	Image           *string         `json:"image,omitempty"`
	ChannelID       *string         `json:"channel_id,omitempty"`
	ConversationID  *string         `json:"conversation_id,omitempty"`
	ParentMessageID *string         `json:"parent_message_id,omitempty"`
}

type UpdateMessageRequest struct {
	Body json.RawMessage `json:"body" validate:"required"`
}

type ListMessagesQuery struct {
	ChannelID       string `form:"channel_id"`
	ConversationID  string `form:"conversation_id"`
	ParentMessageID string `form:"parent_message_id"`
	Cursor          string `form:"cursor"`
	Limit           int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

// ReactionSummary is one distinct value on a message.
type ReactionSummary struct {
	Value     string   `json:"value"`
	Count     int      `json:"count"`
	MemberIDs []string `json:"member_ids"`
}

type MessageResponse struct {
	ID              string            `json:"id"`
	WorkspaceID     string            `json:"workspace_id"`
	MemberID        string            `json:"member_id"`
	Body            json.RawMessage   `json:"body"`
	ImageID         *string           `json:"image_id,omitempty"`
	Image           string            `json:"image,omitempty"` // resolved URL
	ChannelID       *string           `json:"channel_id,omitempty"`
	ConversationID  *string           `json:"conversation_id,omitempty"`
	ParentMessageID *string           `json:"parent_message_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       *time.Time        `json:"updated_at,omitempty"`
	Member          MemberResponse    `json:"member"`
	User            UserResponse      `json:"user"`
	Reactions       []ReactionSummary `json:"reactions"`
	ThreadCount     int               `json:"thread_count"`
	ThreadImage     string            `json:"thread_image,omitempty"`
	ThreadName      string            `json:"thread_name,omitempty"`
	ThreadTimestamp *time.Time        `json:"thread_timestamp,omitempty"`
}

type MessagePageResponse struct {
	Page       []MessageResponse   `json:"page"`
	Pagination pagination.Response `json:"pagination"`
}

type ToggleReactionRequest struct {
	Value string `json:"value" validate:"required,max=32"`
}

type ToggleReactionResponse struct {
	MessageID string            `json:"message_id"`
	Value     string            `json:"value"`
	Active    bool              `json:"active"`
	Reactions []ReactionSummary `json:"reactions"`
}
