// Package domain contains persistence models for league teams.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Team is a named roster inside a league.
type Team struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	LeagueID  snowflake.ID `gorm:"column:league_id;not null;index" json:"league_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	LogoURL   string       `gorm:"column:logo_url;type:text" json:"logo_url"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Team) TableName() string { return "teams" }

// SlotKind says whether a roster slot is filled by a real member or a
// placeholder participant.
type SlotKind string

const (
	SlotUser        SlotKind = "user"
	SlotPlaceholder SlotKind = "placeholder"
)

// TeamMember is a roster slot. The composite unique index stops the same
// participant from occupying two slots on one team.
type TeamMember struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	TeamID        snowflake.ID `gorm:"column:team_id;not null;index;uniqueIndex:ux_team_participant,priority:1" json:"team_id"`
	SlotKind      SlotKind     `gorm:"column:slot_kind;type:text;not null;uniqueIndex:ux_team_participant,priority:2" json:"slot_kind"`
	ParticipantID snowflake.ID `gorm:"column:participant_id;not null;uniqueIndex:ux_team_participant,priority:3" json:"participant_id"`
	Role          TeamRole     `gorm:"type:text;not null" json:"role"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (TeamMember) TableName() string { return "team_members" }
