// Package domain contains persistence models for conduct reports and
// moderation actions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Reason categorizes a conduct report.
type Reason string

const (
	ReasonUnsportsmanlike Reason = "unsportsmanlike"
	ReasonHarassment      Reason = "harassment"
	ReasonCheating        Reason = "cheating"
	ReasonNoShow          Reason = "no_show"
	ReasonOther           Reason = "other"
)

// ValidReason reports whether the reason is a declared category.
func ValidReason(r Reason) bool {
	switch r {
	case ReasonUnsportsmanlike, ReasonHarassment, ReasonCheating, ReasonNoShow, ReasonOther:
		return true
	}
	return false
}

// ReportStatus is pending until a moderation action settles the report.
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportResolved ReportStatus = "resolved"
)

// Report is a member's complaint about another member's conduct.
type Report struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	LeagueID    snowflake.ID      `gorm:"column:league_id;not null;index" json:"league_id"`
	ReporterID  snowflake.ID      `gorm:"column:reporter_id;not null" json:"reporter_id"`
	ReportedID  snowflake.ID      `gorm:"column:reported_id;not null;index" json:"reported_id"`
	Reason      Reason            `gorm:"type:text;not null" json:"reason"`
	Description string            `gorm:"type:text" json:"description"`
	Evidence    datatypes.JSONMap `gorm:"type:jsonb" json:"evidence,omitempty"`
	Status      ReportStatus      `gorm:"type:text;not null;index" json:"status"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Report) TableName() string { return "moderation_reports" }

// ActionType is the disciplinary outcome of a moderation decision.
type ActionType string

const (
	ActionDismissed ActionType = "dismissed"
	ActionWarned    ActionType = "warned"
	ActionSuspended ActionType = "suspended"
	ActionRemoved   ActionType = "removed"
)

// ValidActionType reports whether the action type is declared.
func ValidActionType(a ActionType) bool {
	switch a {
	case ActionDismissed, ActionWarned, ActionSuspended, ActionRemoved:
		return true
	}
	return false
}

// ModerationAction records a disciplinary decision. Suspension state is never
// stored on the member row: it is derived on read as the maximum
// createdAt+suspensionDays still in the future across these records.
type ModerationAction struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	LeagueID       snowflake.ID  `gorm:"column:league_id;not null;index" json:"league_id"`
	ReportID       *snowflake.ID `gorm:"column:report_id" json:"report_id,omitempty"`
	ActorID        snowflake.ID  `gorm:"column:actor_id;not null" json:"actor_id"`
	TargetID       snowflake.ID  `gorm:"column:target_id;not null;index" json:"target_id"`
	ActionType     ActionType    `gorm:"column:action_type;type:text;not null" json:"action_type"`
	Reason         string        `gorm:"type:text" json:"reason"`
	SuspensionDays *int          `gorm:"column:suspension_days" json:"suspension_days,omitempty"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ModerationAction) TableName() string { return "moderation_actions" }

// SuspendedUntil returns the end of this action's suspension window, zero for
// non-suspension actions.
func (a ModerationAction) SuspendedUntil() time.Time {
	if a.ActionType != ActionSuspended || a.SuspensionDays == nil {
		return time.Time{}
	}
	return a.CreatedAt.Add(time.Duration(*a.SuspensionDays) * 24 * time.Hour)
}
