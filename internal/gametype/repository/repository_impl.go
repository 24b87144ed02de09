package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/competiscore/competiscore/internal/gametype/domain"
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

func (r *repository) Create(ctx context.Context, gt domain.GameType) error {
	return r.db.WithContext(ctx).Create(&gt).Error
}

func (r *repository) GetByID(ctx context.Context, id snowflake.ID) (*domain.GameType, error) {
	var gt domain.GameType
	if err := r.db.WithContext(ctx).First(&gt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGameTypeNotFound
		}
		return nil, err
	}
	return &gt, nil
}

func (r *repository) List(ctx context.Context, leagueID snowflake.ID, includeArchived bool) ([]domain.GameType, error) {
	q := r.db.WithContext(ctx).Where("league_id = ?", leagueID)
	if !includeArchived {
		q = q.Where("archived = ?", false)
	}

	var types []domain.GameType
	if err := q.Order("created_at ASC").Find(&types).Error; err != nil {
		return nil, err
	}

	return types, nil
}

func (r *repository) UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&domain.GameType{}).
		Where("id = ?", id).
		Updates(fields).Error
}
