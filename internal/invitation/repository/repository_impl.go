package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/competiscore/competiscore/internal/invitation/domain"
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

func (r *repository) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	return r.db.WithContext(ctx).Create(&inv).Error
}

func (r *repository) GetInvitation(ctx context.Context, id snowflake.ID) (*domain.Invitation, error) {
	var inv domain.Invitation
	if err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *repository) HasPendingInvitation(ctx context.Context, leagueID, inviteeID snowflake.ID, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Invitation{}).
		Where("league_id = ? AND invitee_id = ? AND status = ? AND expires_at > ?",
			leagueID, inviteeID, domain.StatusPending, now).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListByInvitee(ctx context.Context, inviteeID snowflake.ID) ([]domain.InvitationView, error) {
	var views []domain.InvitationView
	err := r.db.WithContext(ctx).Raw(
		`SELECT i.id, i.league_id, l.name AS league_name, i.role, i.status, i.expires_at, i.created_at
		 FROM league_invitations i
		 JOIN leagues l ON l.id = i.league_id
		 WHERE i.invitee_id = ?
		 ORDER BY i.created_at DESC`,
		inviteeID,
	).Scan(&views).Error
	if err != nil {
		return nil, err
	}

	return views, nil
}

func (r *repository) TransitionStatus(ctx context.Context, id snowflake.ID, from, to domain.Status, now time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Invitation{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":     to,
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvitationNotPending
	}
	return nil
}

func (r *repository) MarkExpired(ctx context.Context, ids []snowflake.ID, now time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&domain.Invitation{}).
		Where("id IN ? AND status = ?", ids, domain.StatusPending).
		Updates(map[string]any{
			"status":     domain.StatusExpired,
			"updated_at": now,
		}).Error
}

// MarkPendingAccepted satisfies join.InvitationCleanup: a join by any path
// quietly settles open direct invitations for the same pair.
func (r *repository) MarkPendingAccepted(ctx context.Context, tx *gorm.DB, leagueID, userID snowflake.ID) error {
	return tx.WithContext(ctx).
		Model(&domain.Invitation{}).
		Where("league_id = ? AND invitee_id = ? AND status = ?", leagueID, userID, domain.StatusPending).
		Update("status", domain.StatusAccepted).Error
}

func (r *repository) CreateLink(ctx context.Context, link domain.InviteLink) error {
	return r.db.WithContext(ctx).Create(&link).Error
}

func (r *repository) GetLinkByToken(ctx context.Context, token string) (*domain.InviteLink, error) {
	var link domain.InviteLink
	if err := r.db.WithContext(ctx).First(&link, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *repository) RevokeLink(ctx context.Context, leagueID snowflake.ID, token string, now time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&domain.InviteLink{}).
		Where("league_id = ? AND token = ? AND revoked_at IS NULL", leagueID, token).
		Update("revoked_at", now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrLinkNotFound
	}
	return nil
}

func (r *repository) ConsumeLink(ctx context.Context, token string, now time.Time) error {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE league_invite_links
		 SET uses_so_far = uses_so_far + 1
		 WHERE token = ?
		   AND revoked_at IS NULL
		   AND (expires_at IS NULL OR expires_at > ?)
		   AND (max_uses IS NULL OR uses_so_far < max_uses)`,
		token, now,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrLinkExhausted
	}
	return nil
}
