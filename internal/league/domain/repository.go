package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateLeague(ctx context.Context, league League) error
	GetLeague(ctx context.Context, id snowflake.ID) (*League, error)
	ListLeaguesByUser(ctx context.Context, userID snowflake.ID) ([]LeagueListItem, error)
	ListPublicLeagues(ctx context.Context) ([]League, error)
	UpdateLeagueFields(ctx context.Context, id snowflake.ID, fields map[string]any) error

	AddMember(ctx context.Context, member Member) error
	GetMember(ctx context.Context, leagueID, userID snowflake.ID) (*Member, error)
	ListMembers(ctx context.Context, leagueID snowflake.ID) ([]Member, error)
	CountMembers(ctx context.Context, leagueID snowflake.ID) (int64, error)
	CountLeaguesForUser(ctx context.Context, userID snowflake.ID) (int64, error)
	CountExecutives(ctx context.Context, leagueID snowflake.ID) (int64, error)
	UpdateMemberRole(ctx context.Context, leagueID, userID snowflake.ID, role Role) error
	DeleteMember(ctx context.Context, leagueID, userID snowflake.ID) error

	CreatePlaceholder(ctx context.Context, placeholder Placeholder) error
	GetPlaceholder(ctx context.Context, id snowflake.ID) (*Placeholder, error)
	ListPlaceholders(ctx context.Context, leagueID snowflake.ID, includeRetired bool) ([]Placeholder, error)
	UpdatePlaceholderFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
}
