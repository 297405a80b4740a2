package models

type Workspace struct {
	BaseModel
	Name     string `gorm:"type:varchar(80);not null"`
	UserID   string `gorm:"type:varchar(36);not null;index"` // creator
	JoinCode string `gorm:"type:varchar(6);not null;index"`
}

type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

func (r MemberRole) Valid() bool {
	return r == MemberRoleAdmin || r == MemberRoleMember
}

// Member ties a user to a workspace with a role.
type Member struct {
	BaseModel
	WorkspaceID string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_member_workspace_user"`
	UserID      string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_member_workspace_user;index"`
	Role        MemberRole `gorm:"type:varchar(20);not null"`

	User User `gorm:"foreignKey:UserID"`
}

type Channel struct {
	BaseModel
	WorkspaceID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_channel_workspace_name"`
	Name        string `gorm:"type:varchar(80);not null;uniqueIndex:idx_channel_workspace_name"`
}

// Conversation is a direct 1:1 stream between two members of a workspace.
type Conversation struct {
	BaseModel
	WorkspaceID string `gorm:"type:varchar(36);not null;index"`
	MemberOneID string `gorm:"type:varchar(36);not null;index"`
	MemberTwoID string `gorm:"type:varchar(36);not null;index"`
}
