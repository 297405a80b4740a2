package dto

import (
	"time"

	"teamchat/internal/models"
)

type UpdateMemberRequest struct {
	Role string `json:"role" validate:"required,member-role"`
}

type MemberResponse struct {
	ID          string            `json:"id"`
	WorkspaceID string            `json:"workspace_id"`
	UserID      string            `json:"user_id"`
	Role        models.MemberRole `json:"role"`
	User        UserResponse      `json:"user"`
	CreatedAt   time.Time         `json:"created_at"`
}

func NewMemberResponse(m *models.Member) MemberResponse {
	user := NewUserResponse(&m.User)
	// Other members never see each other's email.
	user.Email = ""
	return MemberResponse{
		ID:          m.ID,
		WorkspaceID: m.WorkspaceID,
		UserID:      m.UserID,
		Role:        m.Role,
		User:        user,
		CreatedAt:   m.CreatedAt,
	}
}
