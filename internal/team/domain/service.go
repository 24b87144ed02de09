package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	CreateTeam(ctx context.Context, actorID, leagueID snowflake.ID, req CreateTeamRequest) (*Team, error)
	UpdateTeam(ctx context.Context, actorID, teamID snowflake.ID, req UpdateTeamRequest) error
	DeleteTeam(ctx context.Context, actorID, teamID snowflake.ID) error
	ListTeams(ctx context.Context, actorID, leagueID snowflake.ID) ([]Team, error)

	AddSlot(ctx context.Context, actorID, teamID snowflake.ID, req AddSlotRequest) (*TeamMember, error)
	RemoveSlot(ctx context.Context, actorID, teamID, slotID snowflake.ID) error
	ListRoster(ctx context.Context, actorID, teamID snowflake.ID) ([]TeamMember, error)
}

// CreateTeamRequest names the team and its first captain, who must already
// be a league member.
type CreateTeamRequest struct {
	Name      string
	LogoURL   string
	CaptainID snowflake.ID
}

type UpdateTeamRequest struct {
	Name    *string
	LogoURL *string
}

type AddSlotRequest struct {
	SlotKind      SlotKind
	ParticipantID snowflake.ID
	Role          TeamRole
}

var (
	ErrTeamNotFound    = errors.New("team_not_found")
	ErrSlotNotFound    = errors.New("team_slot_not_found")
	ErrInvalidTeamName = errors.New("invalid_team_name")
	ErrInvalidTeamRole = errors.New("invalid_team_role")
	ErrInvalidSlot     = errors.New("invalid_team_slot")
	ErrDuplicateSlot   = errors.New("duplicate_team_slot")
	ErrLastCaptain     = errors.New("last_captain")
	ErrNotTeamCaptain  = errors.New("not_team_captain")
)
