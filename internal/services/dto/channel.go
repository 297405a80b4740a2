package dto

import (
	"time"

	"teamchat/internal/models"
)

type CreateChannelRequest struct {
	Name string `json:"name" validate:"required,channel-name"`
}

type UpdateChannelRequest struct {
	Name string `json:"name" validate:"required,channel-name"`
}

type ChannelResponse struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewChannelResponse(c *models.Channel) ChannelResponse {
	return ChannelResponse{
		ID:          c.ID,
		WorkspaceID: c.WorkspaceID,
		Name:        c.Name,
		CreatedAt:   c.CreatedAt,
	}
}
