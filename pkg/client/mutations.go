package client

import (
	"context"

	"teamchat/pkg/mutation"
)

// Mutation constructors wrap single API writes with status tracking.

func (c *Client) CreateWorkspaceMutation() *mutation.Mutation[string, *Workspace] {
	return mutation.New(c.CreateWorkspace)
}

func (c *Client) CreateChannelMutation() *mutation.Mutation[CreateChannelRequest, *Channel] {
	return mutation.New(c.CreateChannel)
}

func (c *Client) CreateMessageMutation() *mutation.Mutation[CreateMessage, *Message] {
	return mutation.New(c.CreateMessage)
}

func (c *Client) ToggleReactionMutation() *mutation.Mutation[ToggleReaction, *ReactionState] {
	return mutation.New(c.ToggleReaction)
}

func (c *Client) GenerateUploadURLMutation() *mutation.Mutation[struct{}, *UploadURL] {
	return mutation.New(func(ctx context.Context, _ struct{}) (*UploadURL, error) {
		return c.GenerateUploadURL(ctx)
	})
}

// ConversationTarget names the other member of a direct conversation.
type ConversationTarget struct {
	WorkspaceID string
	MemberID    string
}

func (c *Client) CreateOrGetConversationMutation() *mutation.Mutation[ConversationTarget, *Conversation] {
	return mutation.New(func(ctx context.Context, t ConversationTarget) (*Conversation, error) {
		return c.CreateOrGetConversation(ctx, t.WorkspaceID, t.MemberID)
	})
}

func (c *Client) UpdateWorkspaceMutation() *mutation.Mutation[RenameWorkspace, *Workspace] {
	return mutation.New(c.UpdateWorkspace)
}

func (c *Client) DeleteWorkspaceMutation() *mutation.Mutation[string, struct{}] {
	return mutation.New(discard(c.DeleteWorkspace))
}

func (c *Client) NewJoinCodeMutation() *mutation.Mutation[string, *Workspace] {
	return mutation.New(c.NewJoinCode)
}

// JoinRequest names a workspace and the code that opens it.
type JoinRequest struct {
	WorkspaceID string
	JoinCode    string
}

func (c *Client) JoinWorkspaceMutation() *mutation.Mutation[JoinRequest, *Workspace] {
	return mutation.New(func(ctx context.Context, req JoinRequest) (*Workspace, error) {
		return c.JoinWorkspace(ctx, req.WorkspaceID, req.JoinCode)
	})
}

func (c *Client) UpdateChannelMutation() *mutation.Mutation[RenameChannel, *Channel] {
	return mutation.New(c.UpdateChannel)
}

func (c *Client) DeleteChannelMutation() *mutation.Mutation[string, struct{}] {
	return mutation.New(discard(c.DeleteChannel))
}

func (c *Client) UpdateMemberRoleMutation() *mutation.Mutation[MemberRole, *Member] {
	return mutation.New(c.UpdateMemberRole)
}

func (c *Client) RemoveMemberMutation() *mutation.Mutation[string, struct{}] {
	return mutation.New(discard(c.RemoveMember))
}

func (c *Client) UpdateMessageMutation() *mutation.Mutation[EditMessage, *Message] {
	return mutation.New(c.UpdateMessage)
}

func (c *Client) DeleteMessageMutation() *mutation.Mutation[string, struct{}] {
	return mutation.New(discard(c.DeleteMessage))
}

func (c *Client) SignOutMutation() *mutation.Mutation[struct{}, struct{}] {
	return mutation.New(func(ctx context.Context, _ struct{}) (struct{}, error) {
		return struct{}{}, c.SignOut(ctx)
	})
}

// discard adapts a write with no response body to the mutation signature.
func discard(fn func(ctx context.Context, id string) error) func(context.Context, string) (struct{}, error) {
	return func(ctx context.Context, id string) (struct{}, error) {
		return struct{}{}, fn(ctx, id)
	}
}
