// Package domain contains persistence models for the league service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Visibility controls who may discover and self-join a league.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// League represents a competition community.
type League struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name        string            `gorm:"type:text;not null" json:"name"`
	Slug        string            `gorm:"type:text;not null;uniqueIndex:ux_leagues_slug" json:"slug"`
	Description string            `gorm:"type:text" json:"description"`
	Visibility  Visibility        `gorm:"type:text;not null" json:"visibility"`
	LogoURL     string            `gorm:"column:logo_url;type:text" json:"logo_url"`
	Archived    bool              `gorm:"not null;default:false" json:"archived"`
	CreatedBy   snowflake.ID      `gorm:"column:created_by;not null" json:"created_by"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (League) TableName() string { return "leagues" }

// Member represents membership of a user in a league.
//
// The composite unique index is the store-level guard that keeps two
// concurrent join attempts from both succeeding.
type Member struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	LeagueID  snowflake.ID `gorm:"column:league_id;not null;index;uniqueIndex:ux_league_user,priority:1" json:"league_id"`
	UserID    snowflake.ID `gorm:"column:user_id;not null;index;uniqueIndex:ux_league_user,priority:2" json:"user_id"`
	Role      Role         `gorm:"type:text;not null" json:"role"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"joined_at"`
}

// TableName sets the database table name.
func (Member) TableName() string { return "league_members" }

// Placeholder represents a league participant without a linked account.
type Placeholder struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	LeagueID    snowflake.ID `gorm:"column:league_id;not null;index" json:"league_id"`
	DisplayName string       `gorm:"column:display_name;type:text;not null" json:"display_name"`
	RetiredAt   *time.Time   `gorm:"column:retired_at" json:"retired_at,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Placeholder) TableName() string { return "league_placeholders" }

// Retired reports whether the placeholder has been retired.
func (p Placeholder) Retired() bool { return p.RetiredAt != nil }
