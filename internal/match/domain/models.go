// Package domain contains persistence models for reported matches.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Match is a played game, recorded after the fact by a member.
type Match struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	LeagueID   snowflake.ID `gorm:"column:league_id;not null;index" json:"league_id"`
	GameTypeID snowflake.ID `gorm:"column:game_type_id;not null;index" json:"game_type_id"`
	PlayedAt   time.Time    `gorm:"column:played_at;not null" json:"played_at"`
	ReportedBy snowflake.ID `gorm:"column:reported_by;not null" json:"reported_by"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Match) TableName() string { return "matches" }

// ParticipantKind says what a match side is made of.
type ParticipantKind string

const (
	ParticipantUser        ParticipantKind = "user"
	ParticipantPlaceholder ParticipantKind = "placeholder"
	ParticipantTeam        ParticipantKind = "team"
)

// MatchParticipant is one competitor in a match, with their recorded score.
type MatchParticipant struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	MatchID       snowflake.ID    `gorm:"column:match_id;not null;index" json:"match_id"`
	Kind          ParticipantKind `gorm:"type:text;not null" json:"kind"`
	ParticipantID snowflake.ID    `gorm:"column:participant_id;not null" json:"participant_id"`
	Score         int             `gorm:"not null" json:"score"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (MatchParticipant) TableName() string { return "match_participants" }

type Service interface {
	ReportMatch(ctx context.Context, actorID, leagueID snowflake.ID, req ReportMatchRequest) (*Match, error)
	ListMatches(ctx context.Context, actorID, leagueID snowflake.ID) ([]MatchView, error)
}

type ReportMatchRequest struct {
	GameTypeID   snowflake.ID
	PlayedAt     time.Time
	Participants []ParticipantInput
}

type ParticipantInput struct {
	Kind          ParticipantKind
	ParticipantID snowflake.ID
	Score         int
}

// MatchView is a match with its participants inlined.
type MatchView struct {
	Match        Match              `json:"match"`
	Participants []MatchParticipant `json:"participants"`
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateMatch(ctx context.Context, match Match) error
	CreateParticipants(ctx context.Context, participants []MatchParticipant) error
	ListMatches(ctx context.Context, leagueID snowflake.ID) ([]Match, error)
	ListParticipants(ctx context.Context, matchIDs []snowflake.ID) ([]MatchParticipant, error)
}

var (
	ErrMatchNotFound        = errors.New("match_not_found")
	ErrTooFewParticipants   = errors.New("too_few_participants")
	ErrInvalidParticipant   = errors.New("invalid_participant")
	ErrDuplicateParticipant = errors.New("duplicate_participant")
	ErrFuturePlayedAt       = errors.New("played_at_in_future")
	ErrReporterSuspended    = errors.New("reporter_suspended")
)
