package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/competiscore/competiscore/internal/clock"
	"github.com/competiscore/competiscore/internal/league/domain"
	"github.com/competiscore/competiscore/internal/limits"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxNameLength = 120

type service struct {
	db    *gorm.DB
	repo  domain.Repository
	gate  *limits.Gate
	genID *snowflake.Node
	clock clock.Clock
	log   *zap.Logger
}

func NewService(db *gorm.DB, repo domain.Repository, gate *limits.Gate, genID *snowflake.Node, clk clock.Clock, log *zap.Logger) domain.Service {
	return &service{
		db:    db,
		repo:  repo,
		gate:  gate,
		genID: genID,
		clock: clk,
		log:   log,
	}
}

func (s *service) Create(ctx context.Context, userID snowflake.ID, req domain.CreateLeagueRequest) (*domain.LeagueResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > maxNameLength {
		return nil, domain.ErrInvalidName
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPrivate
	}
	if visibility != domain.VisibilityPublic && visibility != domain.VisibilityPrivate {
		return nil, domain.ErrInvalidVisibility
	}

	decision, err := s.gate.CheckUserCanJoin(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := decision.Err(); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	leagueID := s.genID.Generate()
	league := domain.League{
		ID:          leagueID,
		Name:        name,
		Slug:        s.uniqueSlug(name, leagueID),
		Description: strings.TrimSpace(req.Description),
		Visibility:  visibility,
		LogoURL:     strings.TrimSpace(req.LogoURL),
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateLeague(ctx, league); err != nil {
			return err
		}

		member := domain.Member{
			ID:        s.genID.Generate(),
			LeagueID:  leagueID,
			UserID:    userID,
			Role:      domain.RoleExecutive,
			CreatedAt: now,
		}

		return repo.AddMember(ctx, member)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("league created",
		zap.String("league_id", leagueID.String()),
		zap.String("user_id", userID.String()),
	)

	return &domain.LeagueResponse{
		ID:         leagueID.String(),
		Name:       name,
		Slug:       league.Slug,
		Visibility: visibility,
	}, nil
}

// uniqueSlug derives a URL slug from the name, suffixed with the snowflake ID
// so two leagues may share a display name.
func (s *service) uniqueSlug(name string, id snowflake.ID) string {
	base := slug.Make(name)
	if base == "" {
		base = "league"
	}
	return base + "-" + id.String()
}

func (s *service) GetByID(ctx context.Context, id snowflake.ID) (*domain.League, error) {
	return s.repo.GetLeague(ctx, id)
}

func (s *service) GetForViewer(ctx context.Context, viewerID, id snowflake.ID) (*domain.League, error) {
	league, err := s.repo.GetLeague(ctx, id)
	if err != nil {
		return nil, err
	}
	if league.Visibility == domain.VisibilityPrivate {
		if _, err := s.repo.GetMember(ctx, id, viewerID); err != nil {
			if err == domain.ErrMemberNotFound {
				return nil, domain.ErrLeagueNotFound
			}
			return nil, err
		}
	}
	return league, nil
}

func (s *service) ListForUser(ctx context.Context, userID snowflake.ID) ([]domain.LeagueListItem, error) {
	return s.repo.ListLeaguesByUser(ctx, userID)
}

func (s *service) ListPublic(ctx context.Context) ([]domain.League, error) {
	return s.repo.ListPublicLeagues(ctx)
}

func (s *service) Update(ctx context.Context, actorID, leagueID snowflake.ID, req domain.UpdateLeagueRequest) error {
	league, _, err := s.requireAction(ctx, actorID, leagueID, domain.ActionArchiveLeague)
	if err != nil {
		return err
	}
	if league.Archived {
		return domain.ErrLeagueArchived
	}

	fields := map[string]any{"updated_at": s.clock.Now().UTC()}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > maxNameLength {
			return domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Visibility != nil {
		if *req.Visibility != domain.VisibilityPublic && *req.Visibility != domain.VisibilityPrivate {
			return domain.ErrInvalidVisibility
		}
		fields["visibility"] = *req.Visibility
	}
	if req.LogoURL != nil {
		fields["logo_url"] = strings.TrimSpace(*req.LogoURL)
	}

	return s.repo.UpdateLeagueFields(ctx, leagueID, fields)
}

func (s *service) Archive(ctx context.Context, actorID, leagueID snowflake.ID) error {
	_, _, err := s.requireAction(ctx, actorID, leagueID, domain.ActionArchiveLeague)
	if err != nil {
		return err
	}

	return s.repo.UpdateLeagueFields(ctx, leagueID, map[string]any{
		"archived":   true,
		"updated_at": s.clock.Now().UTC(),
	})
}

func (s *service) Unarchive(ctx context.Context, actorID, leagueID snowflake.ID) error {
	_, _, err := s.requireAction(ctx, actorID, leagueID, domain.ActionArchiveLeague)
	if err != nil {
		return err
	}

	return s.repo.UpdateLeagueFields(ctx, leagueID, map[string]any{
		"archived":   false,
		"updated_at": s.clock.Now().UTC(),
	})
}

func (s *service) ListMembers(ctx context.Context, actorID, leagueID snowflake.ID) ([]domain.Member, error) {
	_, _, err := s.requireAction(ctx, actorID, leagueID, domain.ActionViewMembers)
	if err != nil {
		return nil, err
	}

	return s.repo.ListMembers(ctx, leagueID)
}

func (s *service) ChangeMemberRole(ctx context.Context, actorID, leagueID, targetUserID snowflake.ID, role domain.Role) error {
	if !domain.ValidRole(role) {
		return domain.ErrInvalidRole
	}

	league, _, err := s.requireAction(ctx, actorID, leagueID, domain.ActionChangeRoles)
	if err != nil {
		return err
	}
	if league.Archived {
		return domain.ErrLeagueArchived
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		target, err := repo.GetMember(ctx, leagueID, targetUserID)
		if err != nil {
			return err
		}
		if target.Role == role {
			return nil
		}

		// Demoting the last executive would leave the league ungovernable.
		if target.Role == domain.RoleExecutive {
			execs, err := repo.CountExecutives(ctx, leagueID)
			if err != nil {
				return err
			}
			if execs <= 1 {
				return domain.ErrLastExecutive
			}
		}

		return repo.UpdateMemberRole(ctx, leagueID, targetUserID, role)
	})
}

func (s *service) RemoveMember(ctx context.Context, actorID, leagueID, targetUserID snowflake.ID) error {
	_, actor, err := s.requireAction(ctx, actorID, leagueID, domain.ActionRemoveMembers)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		target, err := repo.GetMember(ctx, leagueID, targetUserID)
		if err != nil {
			return err
		}

		if target.Role == domain.RoleExecutive {
			execs, err := repo.CountExecutives(ctx, leagueID)
			if err != nil {
				return err
			}
			if execs <= 1 {
				return domain.ErrLastExecutive
			}
		}

		if actorID != targetUserID && domain.RoleRank(actor.Role) <= domain.RoleRank(target.Role) {
			return domain.ErrForbidden
		}

		return repo.DeleteMember(ctx, leagueID, targetUserID)
	})
}

func (s *service) CreatePlaceholder(ctx context.Context, actorID, leagueID snowflake.ID, displayName string) (*domain.Placeholder, error) {
	league, _, err := s.requireAction(ctx, actorID, leagueID, domain.ActionCreatePlaceholders)
	if err != nil {
		return nil, err
	}
	if league.Archived {
		return nil, domain.ErrLeagueArchived
	}

	name := strings.TrimSpace(displayName)
	if name == "" || len(name) > maxNameLength {
		return nil, domain.ErrInvalidDisplayName
	}

	placeholder := domain.Placeholder{
		ID:          s.genID.Generate(),
		LeagueID:    leagueID,
		DisplayName: name,
		CreatedAt:   s.clock.Now().UTC(),
	}
	if err := s.repo.CreatePlaceholder(ctx, placeholder); err != nil {
		return nil, err
	}

	return &placeholder, nil
}

func (s *service) ListPlaceholders(ctx context.Context, actorID, leagueID snowflake.ID, includeRetired bool) ([]domain.Placeholder, error) {
	_, _, err := s.requireAction(ctx, actorID, leagueID, domain.ActionViewMembers)
	if err != nil {
		return nil, err
	}

	return s.repo.ListPlaceholders(ctx, leagueID, includeRetired)
}

func (s *service) RetirePlaceholder(ctx context.Context, actorID, leagueID, placeholderID snowflake.ID) error {
	_, _, err := s.requireAction(ctx, actorID, leagueID, domain.ActionCreatePlaceholders)
	if err != nil {
		return err
	}

	placeholder, err := s.repo.GetPlaceholder(ctx, placeholderID)
	if err != nil {
		return err
	}
	if placeholder.LeagueID != leagueID {
		return domain.ErrPlaceholderNotFound
	}
	if placeholder.Retired() {
		return domain.ErrPlaceholderRetired
	}

	now := s.clock.Now().UTC()
	return s.repo.UpdatePlaceholderFields(ctx, placeholderID, map[string]any{
		"retired_at": &now,
	})
}

func (s *service) RestorePlaceholder(ctx context.Context, actorID, leagueID, placeholderID snowflake.ID) error {
	_, _, err := s.requireAction(ctx, actorID, leagueID, domain.ActionCreatePlaceholders)
	if err != nil {
		return err
	}

	placeholder, err := s.repo.GetPlaceholder(ctx, placeholderID)
	if err != nil {
		return err
	}
	if placeholder.LeagueID != leagueID {
		return domain.ErrPlaceholderNotFound
	}
	if !placeholder.Retired() {
		return nil
	}

	return s.repo.UpdatePlaceholderFields(ctx, placeholderID, map[string]any{
		"retired_at": (*time.Time)(nil),
	})
}

// requireAction loads the league and the actor's membership, then checks the
// capability table. Non-members of private leagues see not-found rather than
// forbidden so private leagues stay undiscoverable.
func (s *service) requireAction(ctx context.Context, actorID, leagueID snowflake.ID, action domain.Action) (*domain.League, *domain.Member, error) {
	league, err := s.repo.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, nil, err
	}

	member, err := s.repo.GetMember(ctx, leagueID, actorID)
	if err != nil {
		if err == domain.ErrMemberNotFound {
			if league.Visibility == domain.VisibilityPrivate {
				return nil, nil, domain.ErrLeagueNotFound
			}
			return nil, nil, domain.ErrNotAMember
		}
		return nil, nil, err
	}

	if !domain.CanPerformAction(member.Role, action) {
		return nil, nil, domain.ErrForbidden
	}

	return league, member, nil
}
