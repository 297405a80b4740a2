package dto

import (
	"time"

	"teamchat/internal/models"
)

type CreateWorkspaceRequest struct {
	Name string `json:"name" validate:"required,min=3,max=80"`
}

type UpdateWorkspaceRequest struct {
	Name string `json:"name" validate:"required,min=3,max=80"`
}

type JoinWorkspaceRequest struct {
	JoinCode string `json:"join_code" validate:"required,len=6"`
}

type WorkspaceResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"user_id"`
	JoinCode  string    `json:"join_code,omitempty"` // admins only
	CreatedAt time.Time `json:"created_at"`
}

// NewWorkspaceResponse hides the join code unless withJoinCode is set.
func NewWorkspaceResponse(w *models.Workspace, withJoinCode bool) WorkspaceResponse {
	resp := WorkspaceResponse{
		ID:        w.ID,
		Name:      w.Name,
		UserID:    w.UserID,
		CreatedAt: w.CreatedAt,
	}
	if withJoinCode {
		resp.JoinCode = w.JoinCode
	}
	return resp
}

// WorkspaceInfoResponse is what a non-member sees on the join page.
type WorkspaceInfoResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsMember bool   `json:"is_member"`
}
