package domain

// Role is a league-level member role.
type Role string

const (
	RoleMember    Role = "member"
	RoleManager   Role = "manager"
	RoleExecutive Role = "executive"
)

// Action is a league-level capability.
type Action string

const (
	ActionViewMembers        Action = "view_members"
	ActionCreatePlaceholders Action = "create_placeholders"
	ActionInviteMembers      Action = "invite_members"
	ActionManageInviteLinks  Action = "manage_invite_links"
	ActionReportMember       Action = "report_member"
	ActionModerateMembers    Action = "moderate_members"
	ActionRemoveMembers      Action = "remove_members"
	ActionChangeRoles        Action = "change_roles"
	ActionArchiveLeague      Action = "archive_league"
	ActionManageTeams        Action = "manage_teams"
	ActionManageGameTypes    Action = "manage_game_types"
	ActionReportMatches      Action = "report_matches"
)

// capabilities is the authoritative role-to-action table. It is data, not a
// hierarchy: auditing a role means reading its row.
var capabilities = map[Role]map[Action]bool{
	RoleMember: {
		ActionViewMembers:   true,
		ActionReportMember:  true,
		ActionReportMatches: true,
	},
	RoleManager: {
		ActionViewMembers:        true,
		ActionReportMember:       true,
		ActionReportMatches:      true,
		ActionCreatePlaceholders: true,
		ActionInviteMembers:      true,
		ActionManageInviteLinks:  true,
		ActionModerateMembers:    true,
		ActionManageTeams:        true,
		ActionManageGameTypes:    true,
	},
	RoleExecutive: {
		ActionViewMembers:        true,
		ActionReportMember:       true,
		ActionReportMatches:      true,
		ActionCreatePlaceholders: true,
		ActionInviteMembers:      true,
		ActionManageInviteLinks:  true,
		ActionModerateMembers:    true,
		ActionManageTeams:        true,
		ActionManageGameTypes:    true,
		ActionRemoveMembers:      true,
		ActionChangeRoles:        true,
		ActionArchiveLeague:      true,
	},
}

// roleRank orders roles for moderation comparisons. Higher moderates lower.
var roleRank = map[Role]int{
	RoleMember:    1,
	RoleManager:   2,
	RoleExecutive: 3,
}

// CanPerformAction reports whether the role grants the action. Unknown role
// or action pairs are denied.
func CanPerformAction(role Role, action Action) bool {
	return capabilities[role][action]
}

// RoleRank returns the moderation rank for the role, 0 for unknown roles.
func RoleRank(role Role) int {
	return roleRank[role]
}

// ValidRole reports whether the role is a declared league role.
func ValidRole(role Role) bool {
	_, ok := roleRank[role]
	return ok
}
