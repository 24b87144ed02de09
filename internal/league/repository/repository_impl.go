package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/competiscore/competiscore/internal/league/domain"
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

func (r *repository) CreateLeague(ctx context.Context, league domain.League) error {
	return r.db.WithContext(ctx).Create(&league).Error
}

func (r *repository) GetLeague(ctx context.Context, id snowflake.ID) (*domain.League, error) {
	var league domain.League
	if err := r.db.WithContext(ctx).First(&league, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLeagueNotFound
		}
		return nil, err
	}
	return &league, nil
}

func (r *repository) ListLeaguesByUser(ctx context.Context, userID snowflake.ID) ([]domain.LeagueListItem, error) {
	var items []domain.LeagueListItem
	err := r.db.WithContext(ctx).Raw(
		`SELECT l.id, l.name, l.slug, m.role, l.archived, l.created_at
		 FROM leagues l
		 JOIN league_members m ON m.league_id = l.id
		 WHERE m.user_id = ?
		 ORDER BY l.created_at ASC`,
		userID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *repository) ListPublicLeagues(ctx context.Context) ([]domain.League, error) {
	var leagues []domain.League
	err := r.db.WithContext(ctx).
		Where("visibility = ? AND archived = ?", domain.VisibilityPublic, false).
		Order("created_at ASC").
		Find(&leagues).Error
	if err != nil {
		return nil, err
	}

	return leagues, nil
}

func (r *repository) UpdateLeagueFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&domain.League{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) AddMember(ctx context.Context, member domain.Member) error {
	return r.db.WithContext(ctx).Create(&member).Error
}

func (r *repository) GetMember(ctx context.Context, leagueID, userID snowflake.ID) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).
		First(&member, "league_id = ? AND user_id = ?", leagueID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *repository) ListMembers(ctx context.Context, leagueID snowflake.ID) ([]domain.Member, error) {
	var members []domain.Member
	err := r.db.WithContext(ctx).
		Where("league_id = ?", leagueID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}

	return members, nil
}

func (r *repository) CountMembers(ctx context.Context, leagueID snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("league_id = ?", leagueID).
		Count(&count).Error
	return count, err
}

func (r *repository) CountLeaguesForUser(ctx context.Context, userID snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *repository) CountExecutives(ctx context.Context, leagueID snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("league_id = ? AND role = ?", leagueID, domain.RoleExecutive).
		Count(&count).Error
	return count, err
}

func (r *repository) UpdateMemberRole(ctx context.Context, leagueID, userID snowflake.ID, role domain.Role) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("league_id = ? AND user_id = ?", leagueID, userID).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *repository) DeleteMember(ctx context.Context, leagueID, userID snowflake.ID) error {
	res := r.db.WithContext(ctx).
		Where("league_id = ? AND user_id = ?", leagueID, userID).
		Delete(&domain.Member{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *repository) CreatePlaceholder(ctx context.Context, placeholder domain.Placeholder) error {
	return r.db.WithContext(ctx).Create(&placeholder).Error
}

func (r *repository) GetPlaceholder(ctx context.Context, id snowflake.ID) (*domain.Placeholder, error) {
	var placeholder domain.Placeholder
	if err := r.db.WithContext(ctx).First(&placeholder, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlaceholderNotFound
		}
		return nil, err
	}
	return &placeholder, nil
}

func (r *repository) ListPlaceholders(ctx context.Context, leagueID snowflake.ID, includeRetired bool) ([]domain.Placeholder, error) {
	q := r.db.WithContext(ctx).Where("league_id = ?", leagueID)
	if !includeRetired {
		q = q.Where("retired_at IS NULL")
	}

	var placeholders []domain.Placeholder
	if err := q.Order("created_at ASC").Find(&placeholders).Error; err != nil {
		return nil, err
	}

	return placeholders, nil
}

func (r *repository) UpdatePlaceholderFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&domain.Placeholder{}).
		Where("id = ?", id).
		Updates(fields).Error
}
