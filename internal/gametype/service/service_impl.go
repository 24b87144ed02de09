package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/competiscore/competiscore/internal/clock"
	"github.com/competiscore/competiscore/internal/gametype/domain"
	leaguedomain "github.com/competiscore/competiscore/internal/league/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxGameTypeNameLength = 80

type service struct {
	db      *gorm.DB
	repo    domain.Repository
	leagues leaguedomain.Repository
	genID   *snowflake.Node
	clock   clock.Clock
	log     *zap.Logger
}

func NewService(gdb *gorm.DB, repo domain.Repository, leagues leaguedomain.Repository, genID *snowflake.Node, clk clock.Clock, log *zap.Logger) domain.Service {
	return &service{
		db:      gdb,
		repo:    repo,
		leagues: leagues,
		genID:   genID,
		clock:   clk,
		log:     log,
	}
}

func (s *service) Create(ctx context.Context, actorID, leagueID snowflake.ID, req domain.CreateRequest) (*domain.GameType, error) {
	league, err := s.requireAction(ctx, actorID, leagueID, leaguedomain.ActionManageGameTypes)
	if err != nil {
		return nil, err
	}
	if league.Archived {
		return nil, leaguedomain.ErrLeagueArchived
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > maxGameTypeNameLength {
		return nil, domain.ErrInvalidGameType
	}
	if !domain.ValidScoringKind(req.ScoringKind) {
		return nil, domain.ErrInvalidGameType
	}

	now := s.clock.Now().UTC()
	gt := domain.GameType{
		ID:          s.genID.Generate(),
		LeagueID:    leagueID,
		Name:        name,
		Icon:        strings.TrimSpace(req.Icon),
		ScoringKind: req.ScoringKind,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, gt); err != nil {
		return nil, err
	}

	return &gt, nil
}

func (s *service) Update(ctx context.Context, actorID, gameTypeID snowflake.ID, req domain.UpdateRequest) error {
	gt, err := s.repo.GetByID(ctx, gameTypeID)
	if err != nil {
		return err
	}
	if _, err := s.requireAction(ctx, actorID, gt.LeagueID, leaguedomain.ActionManageGameTypes); err != nil {
		return err
	}
	if gt.Archived {
		return domain.ErrGameTypeArchived
	}

	fields := map[string]any{"updated_at": s.clock.Now().UTC()}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > maxGameTypeNameLength {
			return domain.ErrInvalidGameType
		}
		fields["name"] = name
	}
	if req.Icon != nil {
		fields["icon"] = strings.TrimSpace(*req.Icon)
	}

	return s.repo.UpdateFields(ctx, gameTypeID, fields)
}

func (s *service) Archive(ctx context.Context, actorID, gameTypeID snowflake.ID) error {
	gt, err := s.repo.GetByID(ctx, gameTypeID)
	if err != nil {
		return err
	}
	if _, err := s.requireAction(ctx, actorID, gt.LeagueID, leaguedomain.ActionManageGameTypes); err != nil {
		return err
	}

	return s.repo.UpdateFields(ctx, gameTypeID, map[string]any{
		"archived":   true,
		"updated_at": s.clock.Now().UTC(),
	})
}

func (s *service) List(ctx context.Context, actorID, leagueID snowflake.ID, includeArchived bool) ([]domain.GameType, error) {
	if _, err := s.requireAction(ctx, actorID, leagueID, leaguedomain.ActionViewMembers); err != nil {
		return nil, err
	}

	return s.repo.List(ctx, leagueID, includeArchived)
}

func (s *service) GetByID(ctx context.Context, id snowflake.ID) (*domain.GameType, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) requireAction(ctx context.Context, actorID, leagueID snowflake.ID, action leaguedomain.Action) (*leaguedomain.League, error) {
	league, err := s.leagues.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	member, err := s.leagues.GetMember(ctx, leagueID, actorID)
	if err != nil {
		if err == leaguedomain.ErrMemberNotFound {
			if league.Visibility == leaguedomain.VisibilityPrivate {
				return nil, leaguedomain.ErrLeagueNotFound
			}
			return nil, leaguedomain.ErrNotAMember
		}
		return nil, err
	}

	if !leaguedomain.CanPerformAction(member.Role, action) {
		return nil, leaguedomain.ErrForbidden
	}

	return league, nil
}
