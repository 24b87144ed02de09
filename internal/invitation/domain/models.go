// Package domain contains persistence models for invitations and invite links.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	leaguedomain "github.com/competiscore/competiscore/internal/league/domain"
)

// Status is the lifecycle state of a direct invitation. Transitions are
// one-way: pending may become accepted, declined, or expired, and none of
// those move again.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
	StatusExpired  Status = "expired"
)

// Invitation is a direct invite addressed to a specific user.
type Invitation struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	LeagueID  snowflake.ID      `gorm:"column:league_id;not null;index" json:"league_id"`
	InviterID snowflake.ID      `gorm:"column:inviter_id;not null" json:"inviter_id"`
	InviteeID snowflake.ID      `gorm:"column:invitee_id;not null;index" json:"invitee_id"`
	Role      leaguedomain.Role `gorm:"type:text;not null" json:"role"`
	Status    Status            `gorm:"type:text;not null;index" json:"status"`
	ExpiresAt time.Time         `gorm:"column:expires_at;not null" json:"expires_at"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invitation) TableName() string { return "league_invitations" }

// ExpiredBy reports whether the invitation's deadline has passed. The stored
// status may still read pending: expiry is evaluated lazily at read time.
func (i Invitation) ExpiredBy(now time.Time) bool {
	return i.Status == StatusPending && !now.Before(i.ExpiresAt)
}

// InviteLink is a shareable token that admits anyone who presents it, within
// its expiry and usage window.
type InviteLink struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	LeagueID  snowflake.ID      `gorm:"column:league_id;not null;index" json:"league_id"`
	CreatedBy snowflake.ID      `gorm:"column:created_by;not null" json:"created_by"`
	Token     string            `gorm:"type:text;not null;uniqueIndex:ux_invite_links_token" json:"token"`
	Role      leaguedomain.Role `gorm:"type:text;not null" json:"role"`
	ExpiresAt *time.Time        `gorm:"column:expires_at" json:"expires_at,omitempty"`
	MaxUses   *int              `gorm:"column:max_uses" json:"max_uses,omitempty"`
	UsesSoFar int               `gorm:"column:uses_so_far;not null;default:0" json:"uses_so_far"`
	RevokedAt *time.Time        `gorm:"column:revoked_at" json:"revoked_at,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InviteLink) TableName() string { return "league_invite_links" }

// Revoked reports whether the link has been revoked.
func (l InviteLink) Revoked() bool { return l.RevokedAt != nil }

// ExpiredBy reports whether the link's deadline has passed.
func (l InviteLink) ExpiredBy(now time.Time) bool {
	return l.ExpiresAt != nil && !now.Before(*l.ExpiresAt)
}

// Exhausted reports whether the link has no uses left.
func (l InviteLink) Exhausted() bool {
	return l.MaxUses != nil && l.UsesSoFar >= *l.MaxUses
}
