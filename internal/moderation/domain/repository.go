package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateReport(ctx context.Context, report Report) error
	GetReport(ctx context.Context, id snowflake.ID) (*Report, error)
	HasPendingReport(ctx context.Context, leagueID, reporterID, reportedID snowflake.ID) (bool, error)
	ListPendingReports(ctx context.Context, leagueID snowflake.ID) ([]Report, error)

	// ResolveReport flips a pending report to resolved; zero rows affected
	// means the report was already settled.
	ResolveReport(ctx context.Context, id snowflake.ID, now time.Time) error

	CreateAction(ctx context.Context, action ModerationAction) error
	ListWarnings(ctx context.Context, leagueID, targetID snowflake.ID) ([]ModerationAction, error)
	ListSuspensions(ctx context.Context, leagueID, targetID snowflake.ID) ([]ModerationAction, error)
}
