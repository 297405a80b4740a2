package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Message belongs to a channel, a conversation, or (as a reply) to a parent message.
// Body is a rich-text delta document stored verbatim.
type Message struct {
	ID              string         `gorm:"type:varchar(36);primaryKey"`
	WorkspaceID     string         `gorm:"type:varchar(36);not null;index"`
	MemberID        string         `gorm:"type:varchar(36);not null;index"`
	Body            datatypes.JSON `gorm:"not null"`
	ImageID         *string        `gorm:"type:varchar(36);index"`
	ChannelID       *string        `gorm:"type:varchar(36);index:idx_message_channel_created"`
	ConversationID  *string        `gorm:"type:varchar(36);index:idx_message_conversation_created"`
	ParentMessageID *string        `gorm:"type:varchar(36);index:idx_message_parent_created"`
	CreatedAt       time.Time      `gorm:"not null;index:idx_message_channel_created;index:idx_message_conversation_created;index:idx_message_parent_created"`
	UpdatedAt       *time.Time     // set on edit only

	Member Member  `gorm:"foreignKey:MemberID"`
	Image  *Upload `gorm:"foreignKey:ImageID"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Reaction is one member's emoji on a message.
type Reaction struct {
	BaseModel
	WorkspaceID string `gorm:"type:varchar(36);not null;index"`
	MessageID   string `gorm:"type:varchar(36);not null;uniqueIndex:idx_reaction_unique"`
	MemberID    string `gorm:"type:varchar(36);not null;uniqueIndex:idx_reaction_unique"`
	Value       string `gorm:"type:varchar(32);not null;uniqueIndex:idx_reaction_unique"`
}
