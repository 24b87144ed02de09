package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, userID snowflake.ID, req CreateLeagueRequest) (*LeagueResponse, error)
	GetByID(ctx context.Context, id snowflake.ID) (*League, error)
	// GetForViewer loads a league as seen by a specific user. Private
	// leagues are indistinguishable from missing ones for non-members.
	GetForViewer(ctx context.Context, viewerID, id snowflake.ID) (*League, error)
	ListForUser(ctx context.Context, userID snowflake.ID) ([]LeagueListItem, error)
	ListPublic(ctx context.Context) ([]League, error)
	Update(ctx context.Context, actorID, leagueID snowflake.ID, req UpdateLeagueRequest) error
	Archive(ctx context.Context, actorID, leagueID snowflake.ID) error
	Unarchive(ctx context.Context, actorID, leagueID snowflake.ID) error

	ListMembers(ctx context.Context, actorID, leagueID snowflake.ID) ([]Member, error)
	ChangeMemberRole(ctx context.Context, actorID, leagueID, targetUserID snowflake.ID, role Role) error
	RemoveMember(ctx context.Context, actorID, leagueID, targetUserID snowflake.ID) error

	CreatePlaceholder(ctx context.Context, actorID, leagueID snowflake.ID, displayName string) (*Placeholder, error)
	ListPlaceholders(ctx context.Context, actorID, leagueID snowflake.ID, includeRetired bool) ([]Placeholder, error)
	RetirePlaceholder(ctx context.Context, actorID, leagueID, placeholderID snowflake.ID) error
	RestorePlaceholder(ctx context.Context, actorID, leagueID, placeholderID snowflake.ID) error
}

type CreateLeagueRequest struct {
	Name        string
	Description string
	Visibility  Visibility
	LogoURL     string
}

type UpdateLeagueRequest struct {
	Name        *string
	Description *string
	Visibility  *Visibility
	LogoURL     *string
}

type LeagueResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Slug       string     `json:"slug"`
	Visibility Visibility `json:"visibility"`
}

type LeagueListItem struct {
	ID        snowflake.ID `json:"id"`
	Name      string       `json:"name"`
	Slug      string       `json:"slug"`
	Role      Role         `json:"role"`
	Archived  bool         `json:"archived"`
	CreatedAt time.Time    `json:"created_at"`
}

var (
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidVisibility   = errors.New("invalid_visibility")
	ErrInvalidRole         = errors.New("invalid_role")
	ErrInvalidDisplayName  = errors.New("invalid_display_name")
	ErrLeagueNotFound      = errors.New("league_not_found")
	ErrLeagueArchived      = errors.New("league_archived")
	ErrNotAMember          = errors.New("not_a_member")
	ErrMemberNotFound      = errors.New("member_not_found")
	ErrAlreadyMember       = errors.New("already_a_member")
	ErrLastExecutive       = errors.New("last_executive")
	ErrPlaceholderNotFound = errors.New("placeholder_not_found")
	ErrPlaceholderRetired  = errors.New("placeholder_retired")
	ErrForbidden           = errors.New("forbidden")
)
