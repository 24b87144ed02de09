package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/competiscore/competiscore/internal/clock"
	"github.com/competiscore/competiscore/internal/config"
	leaguedomain "github.com/competiscore/competiscore/internal/league/domain"
	"github.com/competiscore/competiscore/internal/moderation/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db      *gorm.DB
	repo    domain.Repository
	leagues leaguedomain.Repository
	plans   *config.PlanConfigHolder
	genID   *snowflake.Node
	clock   clock.Clock
	log     *zap.Logger
}

func NewService(gdb *gorm.DB, repo domain.Repository, leagues leaguedomain.Repository, plans *config.PlanConfigHolder, genID *snowflake.Node, clk clock.Clock, log *zap.Logger) domain.Service {
	return &service{
		db:      gdb,
		repo:    repo,
		leagues: leagues,
		plans:   plans,
		genID:   genID,
		clock:   clk,
		log:     log,
	}
}

func (s *service) SubmitReport(ctx context.Context, reporterID, leagueID snowflake.ID, req domain.SubmitReportRequest) (*domain.Report, error) {
	if _, err := s.requireMember(ctx, reporterID, leagueID, leaguedomain.ActionReportMember); err != nil {
		return nil, err
	}

	if req.ReportedID == reporterID {
		return nil, domain.ErrSelfReport
	}
	if !domain.ValidReason(req.Reason) {
		return nil, domain.ErrInvalidReason
	}

	if _, err := s.leagues.GetMember(ctx, leagueID, req.ReportedID); err != nil {
		return nil, err
	}

	// A suspended member loses the ability to file reports while the
	// suspension is active.
	until, err := s.SuspendedUntil(ctx, leagueID, reporterID)
	if err != nil {
		return nil, err
	}
	if until != nil {
		return nil, domain.ErrReporterSuspended
	}

	open, err := s.repo.HasPendingReport(ctx, leagueID, reporterID, req.ReportedID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, domain.ErrDuplicateReport
	}

	now := s.clock.Now().UTC()
	report := domain.Report{
		ID:          s.genID.Generate(),
		LeagueID:    leagueID,
		ReporterID:  reporterID,
		ReportedID:  req.ReportedID,
		Reason:      req.Reason,
		Description: strings.TrimSpace(req.Description),
		Evidence:    req.Evidence,
		Status:      domain.ReportPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateReport(ctx, report); err != nil {
		return nil, err
	}

	s.log.Info("conduct report filed",
		zap.String("league_id", leagueID.String()),
		zap.String("reporter_id", reporterID.String()),
		zap.String("reported_id", req.ReportedID.String()),
		zap.String("reason", string(req.Reason)),
	)

	return &report, nil
}

func (s *service) ListPendingReports(ctx context.Context, actorID, leagueID snowflake.ID) ([]domain.Report, error) {
	if _, err := s.requireMember(ctx, actorID, leagueID, leaguedomain.ActionModerateMembers); err != nil {
		return nil, err
	}

	return s.repo.ListPendingReports(ctx, leagueID)
}

func (s *service) TakeAction(ctx context.Context, actorID, leagueID snowflake.ID, req domain.ActionRequest) (*domain.ModerationAction, error) {
	actor, err := s.requireMember(ctx, actorID, leagueID, leaguedomain.ActionModerateMembers)
	if err != nil {
		return nil, err
	}

	if !domain.ValidActionType(req.ActionType) {
		return nil, domain.ErrInvalidActionType
	}

	// Suspension length is mandatory for suspensions and forbidden
	// otherwise; there is no default.
	if req.ActionType == domain.ActionSuspended {
		max := s.plans.Get().MaxSuspensionDays
		if req.SuspensionDays == nil || *req.SuspensionDays < 1 || *req.SuspensionDays > max {
			return nil, domain.ErrInvalidSuspension
		}
	} else if req.SuspensionDays != nil {
		return nil, domain.ErrInvalidSuspension
	}

	if req.ActionType == domain.ActionRemoved && !leaguedomain.CanPerformAction(actor.Role, leaguedomain.ActionRemoveMembers) {
		return nil, leaguedomain.ErrForbidden
	}

	target, err := s.leagues.GetMember(ctx, leagueID, req.TargetID)
	if err != nil {
		return nil, err
	}
	if !canModerate(actor, target) {
		return nil, domain.ErrCannotModerate
	}

	var report *domain.Report
	if req.ReportID != nil {
		report, err = s.repo.GetReport(ctx, *req.ReportID)
		if err != nil {
			return nil, err
		}
		if report.LeagueID != leagueID || report.ReportedID != req.TargetID {
			return nil, domain.ErrReportMismatch
		}
		if report.Status != domain.ReportPending {
			return nil, domain.ErrReportResolved
		}
	}

	now := s.clock.Now().UTC()
	action := domain.ModerationAction{
		ID:             s.genID.Generate(),
		LeagueID:       leagueID,
		ReportID:       req.ReportID,
		ActorID:        actorID,
		TargetID:       req.TargetID,
		ActionType:     req.ActionType,
		Reason:         strings.TrimSpace(req.Reason),
		SuspensionDays: req.SuspensionDays,
		CreatedAt:      now,
	}

	// The action record, the report resolution, and any removal commit as
	// one unit: a report is never left pending alongside its action.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateAction(ctx, action); err != nil {
			return err
		}

		if report != nil {
			if err := repo.ResolveReport(ctx, report.ID, now); err != nil {
				return err
			}
		}

		if req.ActionType == domain.ActionRemoved {
			return s.leagues.WithTx(tx).DeleteMember(ctx, leagueID, req.TargetID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("moderation action taken",
		zap.String("league_id", leagueID.String()),
		zap.String("actor_id", actorID.String()),
		zap.String("target_id", req.TargetID.String()),
		zap.String("action_type", string(req.ActionType)),
	)

	return &action, nil
}

// canModerate encodes the rank rule: the actor must sit strictly above the
// target, with one carve-out — executives may moderate each other. Nobody
// moderates themselves.
func canModerate(actor, target *leaguedomain.Member) bool {
	if actor.UserID == target.UserID {
		return false
	}
	if actor.Role == leaguedomain.RoleExecutive && target.Role == leaguedomain.RoleExecutive {
		return true
	}
	return leaguedomain.RoleRank(actor.Role) > leaguedomain.RoleRank(target.Role)
}

func (s *service) GetOwnHistory(ctx context.Context, userID, leagueID snowflake.ID) (*domain.History, error) {
	if _, err := s.leagues.GetMember(ctx, leagueID, userID); err != nil {
		return nil, err
	}

	warnings, err := s.repo.ListWarnings(ctx, leagueID, userID)
	if err != nil {
		return nil, err
	}

	until, err := s.SuspendedUntil(ctx, leagueID, userID)
	if err != nil {
		return nil, err
	}

	return &domain.History{
		Warnings:       warnings,
		SuspendedUntil: until,
	}, nil
}

func (s *service) SuspendedUntil(ctx context.Context, leagueID, userID snowflake.ID) (*time.Time, error) {
	suspensions, err := s.repo.ListSuspensions(ctx, leagueID, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	var latest time.Time
	for _, action := range suspensions {
		if end := action.SuspendedUntil(); end.After(now) && end.After(latest) {
			latest = end
		}
	}
	if latest.IsZero() {
		return nil, nil
	}
	return &latest, nil
}

func (s *service) requireMember(ctx context.Context, actorID, leagueID snowflake.ID, action leaguedomain.Action) (*leaguedomain.Member, error) {
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

	return member, nil
}
