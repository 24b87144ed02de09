// Package limits enforces plan-level membership ceilings.
package limits

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/competiscore/competiscore/internal/config"
	"go.uber.org/zap"
)

// Decision is the outcome of a limit check. Message is only set when the
// check fails and is safe to show to the requesting user.
type Decision struct {
	Allowed bool
	Message string
}

// LimitError carries a denied decision across service boundaries.
type LimitError struct {
	Message string
}

func (e *LimitError) Error() string { return e.Message }

// Err converts a denied decision into an error, nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &LimitError{Message: d.Message}
}

// Counters is the subset of membership queries the gate needs.
type Counters interface {
	CountLeaguesForUser(ctx context.Context, userID snowflake.ID) (int64, error)
	CountMembers(ctx context.Context, leagueID snowflake.ID) (int64, error)
}

// Gate answers whether a user or league has headroom under the current plan.
type Gate struct {
	log      *zap.Logger
	counters Counters
	plans    *config.PlanConfigHolder
}

func NewGate(log *zap.Logger, counters Counters, plans *config.PlanConfigHolder) *Gate {
	return &Gate{
		log:      log,
		counters: counters,
		plans:    plans,
	}
}

// CheckUserCanJoin reports whether the user is below the per-user league cap.
func (g *Gate) CheckUserCanJoin(ctx context.Context, userID snowflake.ID) (Decision, error) {
	max := g.plans.Get().MaxLeaguesPerUser
	count, err := g.counters.CountLeaguesForUser(ctx, userID)
	if err != nil {
		return Decision{}, err
	}

	if count >= int64(max) {
		return Decision{
			Allowed: false,
			Message: fmt.Sprintf("you have reached your limit of %d leagues", max),
		}, nil
	}

	return Decision{Allowed: true}, nil
}

// CheckLeagueCanAccept reports whether the league is below its member cap.
func (g *Gate) CheckLeagueCanAccept(ctx context.Context, leagueID snowflake.ID) (Decision, error) {
	max := g.plans.Get().MaxMembersPerLeague
	count, err := g.counters.CountMembers(ctx, leagueID)
	if err != nil {
		return Decision{}, err
	}

	if count >= int64(max) {
		return Decision{
			Allowed: false,
			Message: fmt.Sprintf("this league has reached its limit of %d members", max),
		}, nil
	}

	return Decision{Allowed: true}, nil
}
