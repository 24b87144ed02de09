package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateInvitation(ctx context.Context, inv Invitation) error
	GetInvitation(ctx context.Context, id snowflake.ID) (*Invitation, error)
	// HasPendingInvitation ignores rows whose deadline has already passed,
	// so a lapsed invite never blocks a fresh one.
	HasPendingInvitation(ctx context.Context, leagueID, inviteeID snowflake.ID, now time.Time) (bool, error)
	ListByInvitee(ctx context.Context, inviteeID snowflake.ID) ([]InvitationView, error)

	// TransitionStatus flips the invitation from one status to another. It
	// reports ErrInvitationNotPending when the row is no longer in the
	// expected state.
	TransitionStatus(ctx context.Context, id snowflake.ID, from, to Status, now time.Time) error
	MarkExpired(ctx context.Context, ids []snowflake.ID, now time.Time) error

	CreateLink(ctx context.Context, link InviteLink) error
	GetLinkByToken(ctx context.Context, token string) (*InviteLink, error)
	RevokeLink(ctx context.Context, leagueID snowflake.ID, token string, now time.Time) error

	// ConsumeLink increments uses_so_far only while the link is unrevoked,
	// unexpired, and below max_uses. Zero rows affected means the link was
	// no longer consumable.
	ConsumeLink(ctx context.Context, token string, now time.Time) error
}
