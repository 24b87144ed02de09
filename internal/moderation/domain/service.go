package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Service interface {
	SubmitReport(ctx context.Context, reporterID, leagueID snowflake.ID, req SubmitReportRequest) (*Report, error)
	ListPendingReports(ctx context.Context, actorID, leagueID snowflake.ID) ([]Report, error)
	TakeAction(ctx context.Context, actorID, leagueID snowflake.ID, req ActionRequest) (*ModerationAction, error)
	GetOwnHistory(ctx context.Context, userID, leagueID snowflake.ID) (*History, error)

	// SuspendedUntil derives the member's active suspension end, nil when
	// not suspended at the given instant.
	SuspendedUntil(ctx context.Context, leagueID, userID snowflake.ID) (*time.Time, error)
}

type SubmitReportRequest struct {
	ReportedID  snowflake.ID
	Reason      Reason
	Description string
	Evidence    datatypes.JSONMap
}

type ActionRequest struct {
	ReportID       *snowflake.ID
	TargetID       snowflake.ID
	ActionType     ActionType
	Reason         string
	SuspensionDays *int
}

// History is what a member may see about their own standing.
type History struct {
	Warnings       []ModerationAction `json:"warnings"`
	SuspendedUntil *time.Time         `json:"suspended_until"`
}

var (
	ErrReportNotFound    = errors.New("report_not_found")
	ErrReportResolved    = errors.New("report_resolved")
	ErrInvalidReason     = errors.New("invalid_reason")
	ErrSelfReport        = errors.New("self_report")
	ErrDuplicateReport   = errors.New("duplicate_report")
	ErrReporterSuspended = errors.New("reporter_suspended")
	ErrInvalidActionType = errors.New("invalid_action_type")
	ErrInvalidSuspension = errors.New("invalid_suspension")
	ErrCannotModerate    = errors.New("cannot_moderate")
	ErrReportMismatch    = errors.New("report_mismatch")
)
