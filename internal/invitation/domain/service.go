package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	leaguedomain "github.com/competiscore/competiscore/internal/league/domain"
)

type Service interface {
	Invite(ctx context.Context, actorID, leagueID snowflake.ID, req InviteRequest) (*Invitation, error)
	ListOwnInvitations(ctx context.Context, userID snowflake.ID) ([]InvitationView, error)
	Accept(ctx context.Context, userID, invitationID snowflake.ID) (*leaguedomain.Member, error)
	Decline(ctx context.Context, userID, invitationID snowflake.ID) error

	CreateInviteLink(ctx context.Context, actorID, leagueID snowflake.ID, req CreateLinkRequest) (*InviteLink, error)
	RevokeInviteLink(ctx context.Context, actorID, leagueID snowflake.ID, token string) error
	GetInviteLinkDetails(ctx context.Context, token string) (*LinkDetails, error)
	JoinViaLink(ctx context.Context, userID snowflake.ID, token string) (*leaguedomain.Member, error)
}

// InviteRequest targets a user by ID or by registered email, exactly one.
type InviteRequest struct {
	InviteeID    snowflake.ID
	InviteeEmail string
	Role         leaguedomain.Role
}

type CreateLinkRequest struct {
	Role      leaguedomain.Role
	ExpiresAt *time.Time
	MaxUses   *int
}

// InvitationView is an invitation joined with its league's display fields.
type InvitationView struct {
	ID         snowflake.ID      `json:"id"`
	LeagueID   snowflake.ID      `json:"league_id"`
	LeagueName string            `json:"league_name"`
	Role       leaguedomain.Role `json:"role"`
	Status     Status            `json:"status"`
	ExpiresAt  time.Time         `json:"expires_at"`
	CreatedAt  time.Time         `json:"created_at"`
}

// LinkDetails is the public preview of an invite link. Reason is set only
// when the link is no longer usable.
type LinkDetails struct {
	LeagueID     snowflake.ID      `json:"league_id"`
	LeagueName   string            `json:"league_name"`
	Role         leaguedomain.Role `json:"role"`
	IsValid      bool              `json:"is_valid"`
	Reason       string            `json:"reason,omitempty"`
	UsesLeft     *int              `json:"uses_left,omitempty"`
	ExpiresAt    *time.Time        `json:"expires_at,omitempty"`
}

// UserDirectory resolves a registered email to a user ID.
type UserDirectory interface {
	ResolveByEmail(ctx context.Context, email string) (snowflake.ID, error)
}

var (
	ErrInvitationNotFound   = errors.New("invitation_not_found")
	ErrInvitationNotPending = errors.New("invitation_not_pending")
	ErrInvitationExpired    = errors.New("invitation_expired")
	ErrDuplicateInvite      = errors.New("duplicate_invite")
	ErrNotInvitee           = errors.New("not_invitee")
	ErrInvalidInvitee       = errors.New("invalid_invitee")
	ErrInviteeNotFound      = errors.New("invitee_not_found")
	ErrLinkNotFound         = errors.New("invite_link_not_found")
	ErrLinkRevoked          = errors.New("invite_link_revoked")
	ErrLinkExpired          = errors.New("invite_link_expired")
	ErrLinkExhausted        = errors.New("invite_link_exhausted")
	ErrInvalidLinkWindow    = errors.New("invalid_link_window")
)
