// Package domain contains persistence models for league game types.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ScoringKind is how results for a game type are recorded.
type ScoringKind string

const (
	ScoringPoints  ScoringKind = "points"
	ScoringWinLoss ScoringKind = "win_loss"
)

// ValidScoringKind reports whether the scoring kind is declared.
func ValidScoringKind(k ScoringKind) bool {
	return k == ScoringPoints || k == ScoringWinLoss
}

// GameType is a kind of game a league plays, with its scoring convention.
type GameType struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	LeagueID    snowflake.ID `gorm:"column:league_id;not null;index" json:"league_id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Icon        string       `gorm:"type:text" json:"icon"`
	ScoringKind ScoringKind  `gorm:"column:scoring_kind;type:text;not null" json:"scoring_kind"`
	Archived    bool         `gorm:"not null;default:false" json:"archived"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (GameType) TableName() string { return "game_types" }

type Service interface {
	Create(ctx context.Context, actorID, leagueID snowflake.ID, req CreateRequest) (*GameType, error)
	Update(ctx context.Context, actorID, gameTypeID snowflake.ID, req UpdateRequest) error
	Archive(ctx context.Context, actorID, gameTypeID snowflake.ID) error
	List(ctx context.Context, actorID, leagueID snowflake.ID, includeArchived bool) ([]GameType, error)
	GetByID(ctx context.Context, id snowflake.ID) (*GameType, error)
}

type CreateRequest struct {
	Name        string
	Icon        string
	ScoringKind ScoringKind
}

type UpdateRequest struct {
	Name *string
	Icon *string
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, gt GameType) error
	GetByID(ctx context.Context, id snowflake.ID) (*GameType, error)
	List(ctx context.Context, leagueID snowflake.ID, includeArchived bool) ([]GameType, error)
	UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
}

var (
	ErrGameTypeNotFound = errors.New("game_type_not_found")
	ErrGameTypeArchived = errors.New("game_type_archived")
	ErrInvalidGameType  = errors.New("invalid_game_type")
)
