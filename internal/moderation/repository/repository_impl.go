package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/competiscore/competiscore/internal/moderation/domain"
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

func (r *repository) CreateReport(ctx context.Context, report domain.Report) error {
	return r.db.WithContext(ctx).Create(&report).Error
}

func (r *repository) GetReport(ctx context.Context, id snowflake.ID) (*domain.Report, error) {
	var report domain.Report
	if err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *repository) HasPendingReport(ctx context.Context, leagueID, reporterID, reportedID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Report{}).
		Where("league_id = ? AND reporter_id = ? AND reported_id = ? AND status = ?",
			leagueID, reporterID, reportedID, domain.ReportPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListPendingReports(ctx context.Context, leagueID snowflake.ID) ([]domain.Report, error) {
	var reports []domain.Report
	err := r.db.WithContext(ctx).
		Where("league_id = ? AND status = ?", leagueID, domain.ReportPending).
		Order("created_at ASC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}

	return reports, nil
}

func (r *repository) ResolveReport(ctx context.Context, id snowflake.ID, now time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Report{}).
		Where("id = ? AND status = ?", id, domain.ReportPending).
		Updates(map[string]any{
			"status":     domain.ReportResolved,
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrReportResolved
	}
	return nil
}

func (r *repository) CreateAction(ctx context.Context, action domain.ModerationAction) error {
	return r.db.WithContext(ctx).Create(&action).Error
}

func (r *repository) ListWarnings(ctx context.Context, leagueID, targetID snowflake.ID) ([]domain.ModerationAction, error) {
	var actions []domain.ModerationAction
	err := r.db.WithContext(ctx).
		Where("league_id = ? AND target_id = ? AND action_type = ?", leagueID, targetID, domain.ActionWarned).
		Order("created_at DESC").
		Find(&actions).Error
	if err != nil {
		return nil, err
	}

	return actions, nil
}

func (r *repository) ListSuspensions(ctx context.Context, leagueID, targetID snowflake.ID) ([]domain.ModerationAction, error) {
	var actions []domain.ModerationAction
	err := r.db.WithContext(ctx).
		Where("league_id = ? AND target_id = ? AND action_type = ?", leagueID, targetID, domain.ActionSuspended).
		Find(&actions).Error
	if err != nil {
		return nil, err
	}

	return actions, nil
}
