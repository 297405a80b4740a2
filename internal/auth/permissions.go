package auth

import "teamchat/internal/models"

// Workspace actions gated by member role
const (
	ActionUpdateWorkspace = "workspace:update"
	ActionDeleteWorkspace = "workspace:delete"
	ActionRotateJoinCode  = "workspace:join_code"
	ActionManageChannels  = "channels:write"
	ActionManageMembers   = "members:write"
	ActionPostMessages    = "messages:write"
	ActionReact           = "reactions:write"
)

var Permissions = map[models.MemberRole][]string{
	models.MemberRoleAdmin: {
		ActionUpdateWorkspace,
		ActionDeleteWorkspace,
		ActionRotateJoinCode,
		ActionManageChannels,
		ActionManageMembers,
		ActionPostMessages,
		ActionReact,
	},
	models.MemberRoleMember: {
		ActionPostMessages,
		ActionReact,
	},
}

func HasPermission(role models.MemberRole, action string) bool {
	for _, p := range Permissions[role] {
		if p == action {
			return true
		}
	}
	return false
}

// CanPerformAction reports whether the member may perform action.
func CanPerformAction(member *models.Member, action string) bool {
	return member != nil && HasPermission(member.Role, action)
}

func IsAdmin(member *models.Member) bool {
	return member != nil && member.Role == models.MemberRoleAdmin
}
