// Package join sequences the checks that gate a user entering a league.
package join

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/competiscore/competiscore/internal/clock"
	leaguedomain "github.com/competiscore/competiscore/internal/league/domain"
	"github.com/competiscore/competiscore/internal/limits"
	"github.com/competiscore/competiscore/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InvitationCleanup marks any pending direct invitations for the joining user
// as accepted, so a link join quietly supersedes an open invite.
type InvitationCleanup interface {
	MarkPendingAccepted(ctx context.Context, tx *gorm.DB, leagueID, userID snowflake.ID) error
}

// Orchestrator runs every join through the same gauntlet regardless of how
// the join was initiated: direct invite accept, invite link, or public join.
type Orchestrator struct {
	db      *gorm.DB
	leagues leaguedomain.Repository
	gate    *limits.Gate
	cleanup InvitationCleanup
	genID   *snowflake.Node
	clock   clock.Clock
	log     *zap.Logger
}

func NewOrchestrator(gdb *gorm.DB, leagues leaguedomain.Repository, gate *limits.Gate, cleanup InvitationCleanup, genID *snowflake.Node, clk clock.Clock, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		db:      gdb,
		leagues: leagues,
		gate:    gate,
		cleanup: cleanup,
		genID:   genID,
		clock:   clk,
		log:     log,
	}
}

// Preflight runs every check short of the insert: league exists and is not
// archived, the user is not already a member, and both limit gates have
// headroom. Callers run Admit inside their own transaction afterwards.
func (o *Orchestrator) Preflight(ctx context.Context, userID, leagueID snowflake.ID) error {
	league, err := o.leagues.GetLeague(ctx, leagueID)
	if err != nil {
		return err
	}
	if league.Archived {
		return leaguedomain.ErrLeagueArchived
	}

	if _, err := o.leagues.GetMember(ctx, leagueID, userID); err == nil {
		return leaguedomain.ErrAlreadyMember
	} else if err != leaguedomain.ErrMemberNotFound {
		return err
	}

	decision, err := o.gate.CheckUserCanJoin(ctx, userID)
	if err != nil {
		return err
	}
	if err := decision.Err(); err != nil {
		return err
	}

	decision, err = o.gate.CheckLeagueCanAccept(ctx, leagueID)
	if err != nil {
		return err
	}
	return decision.Err()
}

// Admit inserts the membership and settles open direct invitations inside
// the caller's transaction. The membership row's unique index is the final
// arbiter under concurrency: a duplicate-key error from the insert maps to
// ErrAlreadyMember rather than surfacing as a 500.
func (o *Orchestrator) Admit(ctx context.Context, tx *gorm.DB, userID, leagueID snowflake.ID, role leaguedomain.Role) (*leaguedomain.Member, error) {
	if !leaguedomain.ValidRole(role) {
		return nil, leaguedomain.ErrInvalidRole
	}

	member := leaguedomain.Member{
		ID:        o.genID.Generate(),
		LeagueID:  leagueID,
		UserID:    userID,
		Role:      role,
		CreatedAt: o.clock.Now().UTC(),
	}

	repo := o.leagues.WithTx(tx)
	if err := repo.AddMember(ctx, member); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, leaguedomain.ErrAlreadyMember
		}
		return nil, err
	}

	if o.cleanup != nil {
		if err := o.cleanup.MarkPendingAccepted(ctx, tx, leagueID, userID); err != nil {
			return nil, err
		}
	}

	return &member, nil
}

// Join admits the user to the league with the given role.
func (o *Orchestrator) Join(ctx context.Context, userID, leagueID snowflake.ID, role leaguedomain.Role) (*leaguedomain.Member, error) {
	if !leaguedomain.ValidRole(role) {
		return nil, leaguedomain.ErrInvalidRole
	}

	if err := o.Preflight(ctx, userID, leagueID); err != nil {
		return nil, err
	}

	var member *leaguedomain.Member
	err := o.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		member, err = o.Admit(ctx, tx, userID, leagueID, role)
		return err
	})
	if err != nil {
		return nil, err
	}

	o.log.Info("member joined",
		zap.String("league_id", leagueID.String()),
		zap.String("user_id", userID.String()),
	)

	return member, nil
}
