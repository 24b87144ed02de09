package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateTeam(ctx context.Context, team Team) error
	GetTeam(ctx context.Context, id snowflake.ID) (*Team, error)
	ListTeams(ctx context.Context, leagueID snowflake.ID) ([]Team, error)
	UpdateTeamFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
	DeleteTeam(ctx context.Context, id snowflake.ID) error

	AddSlot(ctx context.Context, slot TeamMember) error
	GetSlot(ctx context.Context, id snowflake.ID) (*TeamMember, error)
	GetUserSlot(ctx context.Context, teamID, userID snowflake.ID) (*TeamMember, error)
	ListRoster(ctx context.Context, teamID snowflake.ID) ([]TeamMember, error)
	CountCaptains(ctx context.Context, teamID snowflake.ID) (int64, error)
	DeleteSlot(ctx context.Context, id snowflake.ID) error
	DeleteRoster(ctx context.Context, teamID snowflake.ID) error
}
