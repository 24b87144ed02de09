package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/competiscore/competiscore/internal/match/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) CreateMatch(ctx context.Context, match domain.Match) error {
	return r.db.WithContext(ctx).Create(&match).Error
}

func (r *repository) CreateParticipants(ctx context.Context, participants []domain.MatchParticipant) error {
	return r.db.WithContext(ctx).Create(&participants).Error
}

func (r *repository) ListMatches(ctx context.Context, leagueID snowflake.ID) ([]domain.Match, error) {
	var matches []domain.Match
	err := r.db.WithContext(ctx).
		Where("league_id = ?", leagueID).
		Order("played_at DESC").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}

	return matches, nil
}

func (r *repository) ListParticipants(ctx context.Context, matchIDs []snowflake.ID) ([]domain.MatchParticipant, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}

	var participants []domain.MatchParticipant
	err := r.db.WithContext(ctx).
		Where("match_id IN ?", matchIDs).
		Order("created_at ASC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}

	return participants, nil
}
