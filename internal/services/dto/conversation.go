package dto

import (
	"time"

	"teamchat/internal/models"
)

type CreateConversationRequest struct {
	MemberID string `json:"member_id" validate:"required"`
}

type ConversationResponse struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	MemberOneID string    `json:"member_one_id"`
	MemberTwoID string    `json:"member_two_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewConversationResponse(c *models.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:          c.ID,
		WorkspaceID: c.WorkspaceID,
		MemberOneID: c.MemberOneID,
		MemberTwoID: c.MemberTwoID,
		CreatedAt:   c.CreatedAt,
	}
}
