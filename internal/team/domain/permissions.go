package domain

// TeamRole is a role inside a single team. Team roles are deliberately
// separate from league roles: a league executive holds no team capability
// unless they also hold a team role granting it.
type TeamRole string

const (
	TeamRolePlayer  TeamRole = "player"
	TeamRoleCaptain TeamRole = "captain"
)

// TeamAction is a team-scoped capability.
type TeamAction string

const (
	TeamActionManageRoster TeamAction = "manage_roster"
	TeamActionEditTeam     TeamAction = "edit_team"
)

var teamCapabilities = map[TeamRole]map[TeamAction]bool{
	TeamRolePlayer: {},
	TeamRoleCaptain: {
		TeamActionManageRoster: true,
		TeamActionEditTeam:     true,
	},
}

// CanPerformTeamAction reports whether the team role grants the action.
// Unknown pairs are denied.
func CanPerformTeamAction(role TeamRole, action TeamAction) bool {
	return teamCapabilities[role][action]
}

// ValidTeamRole reports whether the role is a declared team role.
func ValidTeamRole(role TeamRole) bool {
	_, ok := teamCapabilities[role]
	return ok
}
