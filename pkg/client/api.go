package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) SignUp(ctx context.Context, name, email, password string) (*Session, error) {
	var s Session
	err := c.doJSON(ctx, http.MethodPost, "/auth/sign-up", map[string]string{
		"name": name, "email": email, "password": password,
	}, &s)
	if err != nil {
		return nil, err
	}
	c.setSession(&s)
	return &s, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	err := c.doJSON(ctx, http.MethodPost, "/auth/sign-in", map[string]string{
		"email": email, "password": password,
	}, &s)
	if err != nil {
		return nil, err
	}
	c.setSession(&s)
	return &s, nil
}

// Refresh exchanges the stored refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context) (*Session, error) {
	var s Session
	err := c.doJSON(ctx, http.MethodPost, "/auth/refresh", map[string]string{
		"refresh_token": c.refreshToken(),
	}, &s)
	if err != nil {
		return nil, err
	}
	c.setSession(&s)
	return &s, nil
}

// SignOut revokes the stored refresh token and forgets both tokens.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/auth/sign-out", map[string]string{
		"refresh_token": c.refreshToken(),
	}, nil)
	if err != nil {
		return err
	}
	c.setSession(&Session{})
	return nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) CreateWorkspace(ctx context.Context, name string) (*Workspace, error) {
	var w Workspace
	if err := c.doJSON(ctx, http.MethodPost, "/workspaces", map[string]string{"name": name}, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) ListWorkspaces(ctx context.Context) ([]Workspace, error) {
	var ws []Workspace
	if err := c.doJSON(ctx, http.MethodGet, "/workspaces", nil, &ws); err != nil {
		return nil, err
	}
	return ws, nil
}

func (c *Client) GetWorkspace(ctx context.Context, workspaceID string) (*Workspace, error) {
	var w Workspace
	if err := c.doJSON(ctx, http.MethodGet, workspacePath(workspaceID), nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// WorkspaceInfo returns what a signed-in non-member may see before joining.
func (c *Client) WorkspaceInfo(ctx context.Context, workspaceID string) (*WorkspaceInfo, error) {
	var info WorkspaceInfo
	if err := c.doJSON(ctx, http.MethodGet, workspacePath(workspaceID)+"/info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// RenameWorkspace is the input of UpdateWorkspace.
type RenameWorkspace struct {
	WorkspaceID string
	Name        string
}

func (c *Client) UpdateWorkspace(ctx context.Context, req RenameWorkspace) (*Workspace, error) {
	var w Workspace
	if err := c.doJSON(ctx, http.MethodPatch, workspacePath(req.WorkspaceID), map[string]string{"name": req.Name}, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) DeleteWorkspace(ctx context.Context, workspaceID string) error {
	return c.doJSON(ctx, http.MethodDelete, workspacePath(workspaceID), nil, nil)
}

// NewJoinCode replaces the workspace join code. Admins only.
func (c *Client) NewJoinCode(ctx context.Context, workspaceID string) (*Workspace, error) {
	var w Workspace
	if err := c.doJSON(ctx, http.MethodPost, workspacePath(workspaceID)+"/join-code", nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) JoinWorkspace(ctx context.Context, workspaceID, joinCode string) (*Workspace, error) {
	var w Workspace
	err := c.doJSON(ctx, http.MethodPost, "/workspaces/"+url.PathEscape(workspaceID)+"/join",
		map[string]string{"join_code": joinCode}, &w)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// CreateChannelRequest is the input of CreateChannel.
type CreateChannelRequest struct {
	WorkspaceID string
	Name        string
}

func (c *Client) CreateChannel(ctx context.Context, req CreateChannelRequest) (*Channel, error) {
	var ch Channel
	err := c.doJSON(ctx, http.MethodPost, "/workspaces/"+url.PathEscape(req.WorkspaceID)+"/channels",
		map[string]string{"name": req.Name}, &ch)
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (c *Client) ListChannels(ctx context.Context, workspaceID string) ([]Channel, error) {
	var chs []Channel
	if err := c.doJSON(ctx, http.MethodGet, "/workspaces/"+url.PathEscape(workspaceID)+"/channels", nil, &chs); err != nil {
		return nil, err
	}
	return chs, nil
}

func (c *Client) GetChannel(ctx context.Context, channelID string) (*Channel, error) {
	var ch Channel
	if err := c.doJSON(ctx, http.MethodGet, "/channels/"+url.PathEscape(channelID), nil, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// RenameChannel is the input of UpdateChannel. The server normalizes Name.
type RenameChannel struct {
	ChannelID string
	Name      string
}

func (c *Client) UpdateChannel(ctx context.Context, req RenameChannel) (*Channel, error) {
	var ch Channel
	err := c.doJSON(ctx, http.MethodPatch, "/channels/"+url.PathEscape(req.ChannelID),
		map[string]string{"name": req.Name}, &ch)
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (c *Client) DeleteChannel(ctx context.Context, channelID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/channels/"+url.PathEscape(channelID), nil, nil)
}

func (c *Client) CurrentMember(ctx context.Context, workspaceID string) (*Member, error) {
	var m Member
	if err := c.doJSON(ctx, http.MethodGet, "/workspaces/"+url.PathEscape(workspaceID)+"/members/current", nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) ListMembers(ctx context.Context, workspaceID string) ([]Member, error) {
	var ms []Member
	if err := c.doJSON(ctx, http.MethodGet, workspacePath(workspaceID)+"/members", nil, &ms); err != nil {
		return nil, err
	}
	return ms, nil
}

func (c *Client) GetMember(ctx context.Context, memberID string) (*Member, error) {
	var m Member
	if err := c.doJSON(ctx, http.MethodGet, "/members/"+url.PathEscape(memberID), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// MemberRole is the input of UpdateMemberRole. Role is "admin" or "member".
type MemberRole struct {
	MemberID string
	Role     string
}

func (c *Client) UpdateMemberRole(ctx context.Context, req MemberRole) (*Member, error) {
	var m Member
	err := c.doJSON(ctx, http.MethodPatch, "/members/"+url.PathEscape(req.MemberID),
		map[string]string{"role": req.Role}, &m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// RemoveMember removes a member from its workspace. Members may remove themselves.
func (c *Client) RemoveMember(ctx context.Context, memberID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/members/"+url.PathEscape(memberID), nil, nil)
}

func (c *Client) CreateOrGetConversation(ctx context.Context, workspaceID, memberID string) (*Conversation, error) {
	var conv Conversation
	err := c.doJSON(ctx, http.MethodPost, "/workspaces/"+url.PathEscape(workspaceID)+"/conversations",
		map[string]string{"member_id": memberID}, &conv)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (c *Client) CreateMessage(ctx context.Context, req CreateMessage) (*Message, error) {
	var m Message
	if err := c.doJSON(ctx, http.MethodPost, "/messages", req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMessages fetches one newest-first page. An empty cursor asks for the first page.
func (c *Client) ListMessages(ctx context.Context, filter MessageFilter, cursor string, limit int) (*MessagePage, error) {
	q := url.Values{}
	if filter.ChannelID != "" {
		q.Set("channel_id", filter.ChannelID)
	}
	if filter.ConversationID != "" {
		q.Set("conversation_id", filter.ConversationID)
	}
	if filter.ParentMessageID != "" {
		q.Set("parent_message_id", filter.ParentMessageID)
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var page MessagePage
	if err := c.doJSON(ctx, http.MethodGet, "/messages?"+q.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetMessage(ctx context.Context, messageID string) (*Message, error) {
	var m Message
	if err := c.doJSON(ctx, http.MethodGet, "/messages/"+url.PathEscape(messageID), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// EditMessage is the input of UpdateMessage.
type EditMessage struct {
	MessageID string          `json:"-"`
	Body      json.RawMessage `json:"body"`
}

func (c *Client) UpdateMessage(ctx context.Context, req EditMessage) (*Message, error) {
	var m Message
	if err := c.doJSON(ctx, http.MethodPatch, "/messages/"+url.PathEscape(req.MessageID), req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/messages/"+url.PathEscape(messageID), nil, nil)
}

func (c *Client) ToggleReaction(ctx context.Context, req ToggleReaction) (*ReactionState, error) {
	var st ReactionState
	if err := c.doJSON(ctx, http.MethodPost, "/messages/"+url.PathEscape(req.MessageID)+"/reactions/toggle", req, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) GenerateUploadURL(ctx context.Context) (*UploadURL, error) {
	var u UploadURL
	if err := c.doJSON(ctx, http.MethodPost, "/uploads/url", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Upload posts raw bytes to a signed upload URL. The URL carries its own authorization.
func (c *Client) Upload(ctx context.Context, uploadURL, contentType string, body io.Reader) (*StoredFile, error) {
	var f StoredFile
	if err := c.do(ctx, http.MethodPost, uploadURL, contentType, body, false, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func workspacePath(id string) string {
	return "/workspaces/" + url.PathEscape(id)
}
