package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/competiscore/competiscore/internal/team/domain"
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

func (r *repository) CreateTeam(ctx context.Context, team domain.Team) error {
	return r.db.WithContext(ctx).Create(&team).Error
}

func (r *repository) GetTeam(ctx context.Context, id snowflake.ID) (*domain.Team, error) {
	var team domain.Team
	if err := r.db.WithContext(ctx).First(&team, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (r *repository) ListTeams(ctx context.Context, leagueID snowflake.ID) ([]domain.Team, error) {
	var teams []domain.Team
	err := r.db.WithContext(ctx).
		Where("league_id = ?", leagueID).
		Order("created_at ASC").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}

	return teams, nil
}

func (r *repository) UpdateTeamFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&domain.Team{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) DeleteTeam(ctx context.Context, id snowflake.ID) error {
	res := r.db.WithContext(ctx).Delete(&domain.Team{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTeamNotFound
	}
	return nil
}

func (r *repository) AddSlot(ctx context.Context, slot domain.TeamMember) error {
	return r.db.WithContext(ctx).Create(&slot).Error
}

func (r *repository) GetSlot(ctx context.Context, id snowflake.ID) (*domain.TeamMember, error) {
	var slot domain.TeamMember
	if err := r.db.WithContext(ctx).First(&slot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, err
	}
	return &slot, nil
}

func (r *repository) GetUserSlot(ctx context.Context, teamID, userID snowflake.ID) (*domain.TeamMember, error) {
	var slot domain.TeamMember
	err := r.db.WithContext(ctx).
		First(&slot, "team_id = ? AND slot_kind = ? AND participant_id = ?", teamID, domain.SlotUser, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, err
	}
	return &slot, nil
}

func (r *repository) ListRoster(ctx context.Context, teamID snowflake.ID) ([]domain.TeamMember, error) {
	var roster []domain.TeamMember
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("created_at ASC").
		Find(&roster).Error
	if err != nil {
		return nil, err
	}

	return roster, nil
}

func (r *repository) CountCaptains(ctx context.Context, teamID snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.TeamMember{}).
		Where("team_id = ? AND role = ?", teamID, domain.TeamRoleCaptain).
		Count(&count).Error
	return count, err
}

func (r *repository) DeleteSlot(ctx context.Context, id snowflake.ID) error {
	res := r.db.WithContext(ctx).Delete(&domain.TeamMember{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrSlotNotFound
	}
	return nil
}

func (r *repository) DeleteRoster(ctx context.Context, teamID snowflake.ID) error {
	return r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Delete(&domain.TeamMember{}).Error
}
