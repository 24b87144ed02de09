package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/competiscore/competiscore/internal/clock"
	leaguedomain "github.com/competiscore/competiscore/internal/league/domain"
	"github.com/competiscore/competiscore/internal/team/domain"
	"github.com/competiscore/competiscore/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxTeamNameLength = 80

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

func (s *service) CreateTeam(ctx context.Context, actorID, leagueID snowflake.ID, req domain.CreateTeamRequest) (*domain.Team, error) {
	league, _, err := s.requireLeagueAction(ctx, actorID, leagueID, leaguedomain.ActionManageTeams)
	if err != nil {
		return nil, err
	}
	if league.Archived {
		return nil, leaguedomain.ErrLeagueArchived
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > maxTeamNameLength {
		return nil, domain.ErrInvalidTeamName
	}

	// The first captain has to be named up front, otherwise nobody would
	// ever hold the roster capability.
	if _, err := s.leagues.GetMember(ctx, leagueID, req.CaptainID); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	team := domain.Team{
		ID:        s.genID.Generate(),
		LeagueID:  leagueID,
		Name:      name,
		LogoURL:   strings.TrimSpace(req.LogoURL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateTeam(ctx, team); err != nil {
			return err
		}

		return repo.AddSlot(ctx, domain.TeamMember{
			ID:            s.genID.Generate(),
			TeamID:        team.ID,
			SlotKind:      domain.SlotUser,
			ParticipantID: req.CaptainID,
			Role:          domain.TeamRoleCaptain,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}

	return &team, nil
}

func (s *service) UpdateTeam(ctx context.Context, actorID, teamID snowflake.ID, req domain.UpdateTeamRequest) error {
	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if err := s.requireTeamAction(ctx, actorID, teamID, domain.TeamActionEditTeam); err != nil {
		return err
	}

	fields := map[string]any{"updated_at": s.clock.Now().UTC()}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > maxTeamNameLength {
			return domain.ErrInvalidTeamName
		}
		fields["name"] = name
	}
	if req.LogoURL != nil {
		fields["logo_url"] = strings.TrimSpace(*req.LogoURL)
	}

	return s.repo.UpdateTeamFields(ctx, team.ID, fields)
}

func (s *service) DeleteTeam(ctx context.Context, actorID, teamID snowflake.ID) error {
	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if _, _, err := s.requireLeagueAction(ctx, actorID, team.LeagueID, leaguedomain.ActionManageTeams); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteRoster(ctx, teamID); err != nil {
			return err
		}
		return repo.DeleteTeam(ctx, teamID)
	})
}

func (s *service) ListTeams(ctx context.Context, actorID, leagueID snowflake.ID) ([]domain.Team, error) {
	if _, _, err := s.requireLeagueAction(ctx, actorID, leagueID, leaguedomain.ActionViewMembers); err != nil {
		return nil, err
	}

	return s.repo.ListTeams(ctx, leagueID)
}

func (s *service) AddSlot(ctx context.Context, actorID, teamID snowflake.ID, req domain.AddSlotRequest) (*domain.TeamMember, error) {
	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := s.requireTeamAction(ctx, actorID, teamID, domain.TeamActionManageRoster); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = domain.TeamRolePlayer
	}
	if !domain.ValidTeamRole(role) {
		return nil, domain.ErrInvalidTeamRole
	}

	switch req.SlotKind {
	case domain.SlotUser:
		if _, err := s.leagues.GetMember(ctx, team.LeagueID, req.ParticipantID); err != nil {
			return nil, err
		}
	case domain.SlotPlaceholder:
		placeholder, err := s.leagues.GetPlaceholder(ctx, req.ParticipantID)
		if err != nil {
			return nil, err
		}
		if placeholder.LeagueID != team.LeagueID {
			return nil, leaguedomain.ErrPlaceholderNotFound
		}
		if placeholder.Retired() {
			return nil, leaguedomain.ErrPlaceholderRetired
		}
		// Placeholders fill slots but never hold capabilities.
		if role == domain.TeamRoleCaptain {
			return nil, domain.ErrInvalidTeamRole
		}
	default:
		return nil, domain.ErrInvalidSlot
	}

	slot := domain.TeamMember{
		ID:            s.genID.Generate(),
		TeamID:        teamID,
		SlotKind:      req.SlotKind,
		ParticipantID: req.ParticipantID,
		Role:          role,
		CreatedAt:     s.clock.Now().UTC(),
	}
	if err := s.repo.AddSlot(ctx, slot); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateSlot
		}
		return nil, err
	}

	return &slot, nil
}

func (s *service) RemoveSlot(ctx context.Context, actorID, teamID, slotID snowflake.ID) error {
	if _, err := s.repo.GetTeam(ctx, teamID); err != nil {
		return err
	}
	if err := s.requireTeamAction(ctx, actorID, teamID, domain.TeamActionManageRoster); err != nil {
		return err
	}

	slot, err := s.repo.GetSlot(ctx, slotID)
	if err != nil {
		return err
	}
	if slot.TeamID != teamID {
		return domain.ErrSlotNotFound
	}

	if slot.Role == domain.TeamRoleCaptain {
		captains, err := s.repo.CountCaptains(ctx, teamID)
		if err != nil {
			return err
		}
		if captains <= 1 {
			return domain.ErrLastCaptain
		}
	}

	return s.repo.DeleteSlot(ctx, slotID)
}

func (s *service) ListRoster(ctx context.Context, actorID, teamID snowflake.ID) ([]domain.TeamMember, error) {
	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.requireLeagueAction(ctx, actorID, team.LeagueID, leaguedomain.ActionViewMembers); err != nil {
		return nil, err
	}

	return s.repo.ListRoster(ctx, teamID)
}

// requireTeamAction checks the actor's team role only. League roles grant
// nothing here: an executive who is not on the team cannot touch its roster.
func (s *service) requireTeamAction(ctx context.Context, actorID, teamID snowflake.ID, action domain.TeamAction) error {
	slot, err := s.repo.GetUserSlot(ctx, teamID, actorID)
	if err != nil {
		if err == domain.ErrSlotNotFound {
			return domain.ErrNotTeamCaptain
		}
		return err
	}

	if !domain.CanPerformTeamAction(slot.Role, action) {
		return domain.ErrNotTeamCaptain
	}
	return nil
}

func (s *service) requireLeagueAction(ctx context.Context, actorID, leagueID snowflake.ID, action leaguedomain.Action) (*leaguedomain.League, *leaguedomain.Member, error) {
	league, err := s.leagues.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, nil, err
	}

	member, err := s.leagues.GetMember(ctx, leagueID, actorID)
	if err != nil {
		if err == leaguedomain.ErrMemberNotFound {
			if league.Visibility == leaguedomain.VisibilityPrivate {
				return nil, nil, leaguedomain.ErrLeagueNotFound
			}
			return nil, nil, leaguedomain.ErrNotAMember
		}
		return nil, nil, err
	}

	if !leaguedomain.CanPerformAction(member.Role, action) {
		return nil, nil, leaguedomain.ErrForbidden
	}

	return league, member, nil
}
