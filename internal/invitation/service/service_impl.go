package service

import (
	"context"
	"crypto/rand"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/competiscore/competiscore/internal/clock"
	"github.com/competiscore/competiscore/internal/config"
	"github.com/competiscore/competiscore/internal/invitation/domain"
	"github.com/competiscore/competiscore/internal/join"
	leaguedomain "github.com/competiscore/competiscore/internal/league/domain"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db      *gorm.DB
	repo    domain.Repository
	leagues leaguedomain.Repository
	users   domain.UserDirectory
	orch    *join.Orchestrator
	plans   *config.PlanConfigHolder
	genID   *snowflake.Node
	clock   clock.Clock
	log     *zap.Logger
}

func NewService(gdb *gorm.DB, repo domain.Repository, leagues leaguedomain.Repository, users domain.UserDirectory, orch *join.Orchestrator, plans *config.PlanConfigHolder, genID *snowflake.Node, clk clock.Clock, log *zap.Logger) domain.Service {
	return &service{
		db:      gdb,
		repo:    repo,
		leagues: leagues,
		users:   users,
		orch:    orch,
		plans:   plans,
		genID:   genID,
		clock:   clk,
		log:     log,
	}
}

func (s *service) Invite(ctx context.Context, actorID, leagueID snowflake.ID, req domain.InviteRequest) (*domain.Invitation, error) {
	league, err := s.requireAction(ctx, actorID, leagueID, leaguedomain.ActionInviteMembers)
	if err != nil {
		return nil, err
	}
	if league.Archived {
		return nil, leaguedomain.ErrLeagueArchived
	}

	role := req.Role
	if role == "" {
		role = leaguedomain.RoleMember
	}
	if !leaguedomain.ValidRole(role) {
		return nil, leaguedomain.ErrInvalidRole
	}

	inviteeID, err := s.resolveInvitee(ctx, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.leagues.GetMember(ctx, leagueID, inviteeID); err == nil {
		return nil, leaguedomain.ErrAlreadyMember
	} else if err != leaguedomain.ErrMemberNotFound {
		return nil, err
	}

	now := s.clock.Now().UTC()
	pending, err := s.repo.HasPendingInvitation(ctx, leagueID, inviteeID, now)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, domain.ErrDuplicateInvite
	}

	ttl := time.Duration(s.plans.Get().InviteTTLDays) * 24 * time.Hour
	inv := domain.Invitation{
		ID:        s.genID.Generate(),
		LeagueID:  leagueID,
		InviterID: actorID,
		InviteeID: inviteeID,
		Role:      role,
		Status:    domain.StatusPending,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateInvitation(ctx, inv); err != nil {
		return nil, err
	}

	s.log.Info("invitation sent",
		zap.String("league_id", leagueID.String()),
		zap.String("inviter_id", actorID.String()),
		zap.String("invitee_id", inviteeID.String()),
	)

	return &inv, nil
}

func (s *service) resolveInvitee(ctx context.Context, req domain.InviteRequest) (snowflake.ID, error) {
	email := strings.TrimSpace(req.InviteeEmail)

	switch {
	case req.InviteeID != 0 && email != "":
		return 0, domain.ErrInvalidInvitee
	case req.InviteeID != 0:
		return req.InviteeID, nil
	case email != "":
		return s.users.ResolveByEmail(ctx, email)
	default:
		return 0, domain.ErrInvalidInvitee
	}
}

func (s *service) ListOwnInvitations(ctx context.Context, userID snowflake.ID) ([]domain.InvitationView, error) {
	views, err := s.repo.ListByInvitee(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Expiry is evaluated at read time; stale pending rows get flipped here.
	now := s.clock.Now().UTC()
	var lapsed []snowflake.ID
	for i := range views {
		if views[i].Status == domain.StatusPending && !now.Before(views[i].ExpiresAt) {
			views[i].Status = domain.StatusExpired
			lapsed = append(lapsed, views[i].ID)
		}
	}
	if err := s.repo.MarkExpired(ctx, lapsed, now); err != nil {
		return nil, err
	}

	return views, nil
}

func (s *service) Accept(ctx context.Context, userID, invitationID snowflake.ID) (*leaguedomain.Member, error) {
	inv, err := s.loadPendingForInvitee(ctx, userID, invitationID)
	if err != nil {
		return nil, err
	}

	// Join settles the invitation itself: the admit step marks every
	// pending direct invitation for the pair accepted.
	member, err := s.orch.Join(ctx, userID, inv.LeagueID, inv.Role)
	if err != nil {
		return nil, err
	}

	return member, nil
}

func (s *service) Decline(ctx context.Context, userID, invitationID snowflake.ID) error {
	inv, err := s.loadPendingForInvitee(ctx, userID, invitationID)
	if err != nil {
		return err
	}

	return s.repo.TransitionStatus(ctx, inv.ID, domain.StatusPending, domain.StatusDeclined, s.clock.Now().UTC())
}

func (s *service) loadPendingForInvitee(ctx context.Context, userID, invitationID snowflake.ID) (*domain.Invitation, error) {
	inv, err := s.repo.GetInvitation(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if inv.InviteeID != userID {
		return nil, domain.ErrNotInvitee
	}

	now := s.clock.Now().UTC()
	if inv.ExpiredBy(now) {
		if err := s.repo.MarkExpired(ctx, []snowflake.ID{inv.ID}, now); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvitationExpired
	}
	if inv.Status != domain.StatusPending {
		return nil, domain.ErrInvitationNotPending
	}

	return inv, nil
}

func (s *service) CreateInviteLink(ctx context.Context, actorID, leagueID snowflake.ID, req domain.CreateLinkRequest) (*domain.InviteLink, error) {
	league, err := s.requireAction(ctx, actorID, leagueID, leaguedomain.ActionManageInviteLinks)
	if err != nil {
		return nil, err
	}
	if league.Archived {
		return nil, leaguedomain.ErrLeagueArchived
	}

	role := req.Role
	if role == "" {
		role = leaguedomain.RoleMember
	}
	if !leaguedomain.ValidRole(role) {
		return nil, leaguedomain.ErrInvalidRole
	}

	now := s.clock.Now().UTC()
	if req.ExpiresAt != nil && !req.ExpiresAt.After(now) {
		return nil, domain.ErrInvalidLinkWindow
	}
	if req.MaxUses != nil && *req.MaxUses < 1 {
		return nil, domain.ErrInvalidLinkWindow
	}

	token, err := newLinkToken(now)
	if err != nil {
		return nil, err
	}

	link := domain.InviteLink{
		ID:        s.genID.Generate(),
		LeagueID:  leagueID,
		CreatedBy: actorID,
		Token:     token,
		Role:      role,
		ExpiresAt: req.ExpiresAt,
		MaxUses:   req.MaxUses,
		CreatedAt: now,
	}
	if err := s.repo.CreateLink(ctx, link); err != nil {
		return nil, err
	}

	return &link, nil
}

// newLinkToken mints an unguessable, URL-safe token.
func newLinkToken(now time.Time) (string, error) {
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (s *service) RevokeInviteLink(ctx context.Context, actorID, leagueID snowflake.ID, token string) error {
	if _, err := s.requireAction(ctx, actorID, leagueID, leaguedomain.ActionManageInviteLinks); err != nil {
		return err
	}

	return s.repo.RevokeLink(ctx, leagueID, token, s.clock.Now().UTC())
}

func (s *service) GetInviteLinkDetails(ctx context.Context, token string) (*domain.LinkDetails, error) {
	link, err := s.repo.GetLinkByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	league, err := s.leagues.GetLeague(ctx, link.LeagueID)
	if err != nil {
		return nil, err
	}

	details := &domain.LinkDetails{
		LeagueID:   league.ID,
		LeagueName: league.Name,
		Role:       link.Role,
		ExpiresAt:  link.ExpiresAt,
	}
	if link.MaxUses != nil {
		left := *link.MaxUses - link.UsesSoFar
		if left < 0 {
			left = 0
		}
		details.UsesLeft = &left
	}

	if reason := linkUnusableReason(link, league, s.clock.Now().UTC()); reason != "" {
		details.Reason = reason
		return details, nil
	}

	details.IsValid = true
	return details, nil
}

// linkUnusableReason returns a human-readable reason when the link can no
// longer be used, empty when it is still live.
func linkUnusableReason(link *domain.InviteLink, league *leaguedomain.League, now time.Time) string {
	switch {
	case link.Revoked():
		return "revoked"
	case league.Archived:
		return "league archived"
	case link.ExpiredBy(now):
		return "expired"
	case link.Exhausted():
		return "usage limit reached"
	default:
		return ""
	}
}

func (s *service) JoinViaLink(ctx context.Context, userID snowflake.ID, token string) (*leaguedomain.Member, error) {
	link, err := s.repo.GetLinkByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	switch {
	case link.Revoked():
		return nil, domain.ErrLinkRevoked
	case link.ExpiredBy(now):
		return nil, domain.ErrLinkExpired
	case link.Exhausted():
		return nil, domain.ErrLinkExhausted
	}

	if err := s.orch.Preflight(ctx, userID, link.LeagueID); err != nil {
		return nil, err
	}

	// The conditional update and the membership insert commit together, so
	// two racing redemptions of a link's last use cannot both land.
	var member *leaguedomain.Member
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).ConsumeLink(ctx, token, now); err != nil {
			return err
		}

		var err error
		member, err = s.orch.Admit(ctx, tx, userID, link.LeagueID, link.Role)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("joined via invite link",
		zap.String("league_id", link.LeagueID.String()),
		zap.String("user_id", userID.String()),
	)

	return member, nil
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
