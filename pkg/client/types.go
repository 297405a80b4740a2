package client

import (
	"encoding/json"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         User   `json:"user"`
}

type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"user_id"`
	JoinCode  string    `json:"join_code,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type WorkspaceInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsMember bool   `json:"is_member"`
}

type Channel struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
}

type Member struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	UserID      string    `json:"user_id"`
	Role        string    `json:"role"`
	User        User      `json:"user"`
	CreatedAt   time.Time `json:"created_at"`
}

type Conversation struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspace_id"`
	MemberOneID string `json:"member_one_id"`
	MemberTwoID string `json:"member_two_id"`
}

type Reaction struct {
	Value     string   `json:"value"`
	Count     int      `json:"count"`
	MemberIDs []string `json:"member_ids"`
}

type Message struct {
	ID              string          `json:"id"`
	WorkspaceID     string          `json:"workspace_id"`
	MemberID        string          `json:"member_id"`
	Body            json.RawMessage `json:"body"`
	Image           string          `json:"image,omitempty"`
	ChannelID       *string         `json:"channel_id,omitempty"`
	ConversationID  *string         `json:"conversation_id,omitempty"`
	ParentMessageID *string         `json:"parent_message_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       *time.Time      `json:"updated_at,omitempty"`
	Member          Member          `json:"member"`
	User            User            `json:"user"`
	Reactions       []Reaction      `json:"reactions"`
	ThreadCount     int             `json:"thread_count"`
	ThreadImage     string          `json:"thread_image,omitempty"`
	ThreadName      string          `json:"thread_name,omitempty"`
	ThreadTimestamp *time.Time      `json:"thread_timestamp,omitempty"`
}

// AuthorID and Created make Message a feed.Entry.
func (m Message) AuthorID() string { return m.User.ID }

func (m Message) Created() (time.Time, bool) { return m.CreatedAt, !m.CreatedAt.IsZero() }

type MessagePage struct {
	Page       []Message `json:"page"`
	Pagination struct {
		Limit      int    `json:"limit"`
		HasMore    bool   `json:"has_more"`
		NextCursor string `json:"next_cursor,omitempty"`
		Count      int    `json:"count"`
	} `json:"pagination"`
}

// CreateMessage is the payload of a new message. Exactly one stream target applies;
// replies may set only ParentMessageID.
type CreateMessage struct {
	WorkspaceID     string          `json:"workspace_id"`
	Body            json.RawMessage `json:"body"`
	Image           *string         `json:"image,omitempty"`
	ChannelID       *string         `json:"channel_id,omitempty"`
	ConversationID  *string         `json:"conversation_id,omitempty"`
	ParentMessageID *string         `json:"parent_message_id,omitempty"`
}

// MessageFilter selects one stream. Set exactly one field.
type MessageFilter struct {
	ChannelID       string
	ConversationID  string
	ParentMessageID string
}

type ToggleReaction struct {
	MessageID string `json:"-"`
	Value     string `json:"value"`
}

type ReactionState struct {
	MessageID string     `json:"message_id"`
	Value     string     `json:"value"`
	Active    bool       `json:"active"`
	Reactions []Reaction `json:"reactions"`
}

type UploadURL struct {
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type StoredFile struct {
	StorageID string `json:"storageId"`
	URL       string `json:"url"`
}
