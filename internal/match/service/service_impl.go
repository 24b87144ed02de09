package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/competiscore/competiscore/internal/clock"
	gametypedomain "github.com/competiscore/competiscore/internal/gametype/domain"
	leaguedomain "github.com/competiscore/competiscore/internal/league/domain"
	"github.com/competiscore/competiscore/internal/match/domain"
	moderationdomain "github.com/competiscore/competiscore/internal/moderation/domain"
	teamdomain "github.com/competiscore/competiscore/internal/team/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db         *gorm.DB
	repo       domain.Repository
	leagues    leaguedomain.Repository
	gameTypes  gametypedomain.Repository
	teams      teamdomain.Repository
	moderation moderationdomain.Service
	genID      *snowflake.Node
	clock      clock.Clock
	log        *zap.Logger
}

func NewService(gdb *gorm.DB, repo domain.Repository, leagues leaguedomain.Repository, gameTypes gametypedomain.Repository, teams teamdomain.Repository, moderation moderationdomain.Service, genID *snowflake.Node, clk clock.Clock, log *zap.Logger) domain.Service {
	return &service{
		db:         gdb,
		repo:       repo,
		leagues:    leagues,
		gameTypes:  gameTypes,
		teams:      teams,
		moderation: moderation,
		genID:      genID,
		clock:      clk,
		log:        log,
	}
}

func (s *service) ReportMatch(ctx context.Context, actorID, leagueID snowflake.ID, req domain.ReportMatchRequest) (*domain.Match, error) {
	league, err := s.requireAction(ctx, actorID, leagueID, leaguedomain.ActionReportMatches)
	if err != nil {
		return nil, err
	}
	if league.Archived {
		return nil, leaguedomain.ErrLeagueArchived
	}

	// Suspension is derived from the moderation log, never stored on the
	// member row.
	until, err := s.moderation.SuspendedUntil(ctx, leagueID, actorID)
	if err != nil {
		return nil, err
	}
	if until != nil {
		return nil, domain.ErrReporterSuspended
	}

	gt, err := s.gameTypes.GetByID(ctx, req.GameTypeID)
	if err != nil {
		return nil, err
	}
	if gt.LeagueID != leagueID {
		return nil, gametypedomain.ErrGameTypeNotFound
	}
	if gt.Archived {
		return nil, gametypedomain.ErrGameTypeArchived
	}

	now := s.clock.Now().UTC()
	playedAt := req.PlayedAt.UTC()
	if playedAt.IsZero() {
		playedAt = now
	}
	if playedAt.After(now) {
		return nil, domain.ErrFuturePlayedAt
	}

	if len(req.Participants) < 2 {
		return nil, domain.ErrTooFewParticipants
	}

	matchID := s.genID.Generate()
	seen := make(map[snowflake.ID]struct{}, len(req.Participants))
	participants := make([]domain.MatchParticipant, 0, len(req.Participants))
	for _, p := range req.Participants {
		if _, dup := seen[p.ParticipantID]; dup {
			return nil, domain.ErrDuplicateParticipant
		}
		seen[p.ParticipantID] = struct{}{}

		if err := s.validateParticipant(ctx, leagueID, p); err != nil {
			return nil, err
		}

		participants = append(participants, domain.MatchParticipant{
			ID:            s.genID.Generate(),
			MatchID:       matchID,
			Kind:          p.Kind,
			ParticipantID: p.ParticipantID,
			Score:         p.Score,
			CreatedAt:     now,
		})
	}

	match := domain.Match{
		ID:         matchID,
		LeagueID:   leagueID,
		GameTypeID: req.GameTypeID,
		PlayedAt:   playedAt,
		ReportedBy: actorID,
		CreatedAt:  now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateMatch(ctx, match); err != nil {
			return err
		}
		return repo.CreateParticipants(ctx, participants)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("match reported",
		zap.String("league_id", leagueID.String()),
		zap.String("match_id", matchID.String()),
		zap.String("reported_by", actorID.String()),
	)

	return &match, nil
}

func (s *service) validateParticipant(ctx context.Context, leagueID snowflake.ID, p domain.ParticipantInput) error {
	switch p.Kind {
	case domain.ParticipantUser:
		_, err := s.leagues.GetMember(ctx, leagueID, p.ParticipantID)
		return err
	case domain.ParticipantPlaceholder:
		placeholder, err := s.leagues.GetPlaceholder(ctx, p.ParticipantID)
		if err != nil {
			return err
		}
		if placeholder.LeagueID != leagueID {
			return leaguedomain.ErrPlaceholderNotFound
		}
		if placeholder.Retired() {
			return leaguedomain.ErrPlaceholderRetired
		}
		return nil
	case domain.ParticipantTeam:
		team, err := s.teams.GetTeam(ctx, p.ParticipantID)
		if err != nil {
			return err
		}
		if team.LeagueID != leagueID {
			return teamdomain.ErrTeamNotFound
		}
		return nil
	default:
		return domain.ErrInvalidParticipant
	}
}

func (s *service) ListMatches(ctx context.Context, actorID, leagueID snowflake.ID) ([]domain.MatchView, error) {
	if _, err := s.requireAction(ctx, actorID, leagueID, leaguedomain.ActionViewMembers); err != nil {
		return nil, err
	}

	matches, err := s.repo.ListMatches(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	ids := make([]snowflake.ID, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	participants, err := s.repo.ListParticipants(ctx, ids)
	if err != nil {
		return nil, err
	}

	byMatch := make(map[snowflake.ID][]domain.MatchParticipant, len(matches))
	for _, p := range participants {
		byMatch[p.MatchID] = append(byMatch[p.MatchID], p)
	}

	views := make([]domain.MatchView, 0, len(matches))
	for _, m := range matches {
		views = append(views, domain.MatchView{
			Match:        m,
			Participants: byMatch[m.ID],
		})
	}

	return views, nil
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
