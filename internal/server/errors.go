package server

import (
	"errors"
	"net/http"

	authdomain "github.com/competiscore/competiscore/internal/auth/domain"
	gametypedomain "github.com/competiscore/competiscore/internal/gametype/domain"
	invitationdomain "github.com/competiscore/competiscore/internal/invitation/domain"
	leaguedomain "github.com/competiscore/competiscore/internal/league/domain"
	"github.com/competiscore/competiscore/internal/limits"
	matchdomain "github.com/competiscore/competiscore/internal/match/domain"
	moderationdomain "github.com/competiscore/competiscore/internal/moderation/domain"
	teamdomain "github.com/competiscore/competiscore/internal/team/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrInternal        = errors.New("internal_error")
	ErrNotFound        = errors.New("not_found")
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrTooManyRequests = errors.New("too_many_requests")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var limitErr *limits.LimitError
	if errors.As(err, &limitErr) {
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "limit_exceeded",
			Message: limitErr.Message,
		}
	}

	if isValidationError(err) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Code:    err.Error(),
					Message: "invalid value",
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case isForbiddenError(err):
		// Deliberately uniform: the response never hints at which role or
		// capability would have been enough.
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictMessage(err),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "too_many_requests",
			Message: "too many requests",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, leaguedomain.ErrInvalidName),
		errors.Is(err, leaguedomain.ErrInvalidVisibility),
		errors.Is(err, leaguedomain.ErrInvalidRole),
		errors.Is(err, leaguedomain.ErrInvalidDisplayName),
		errors.Is(err, invitationdomain.ErrInvalidInvitee),
		errors.Is(err, invitationdomain.ErrInvalidLinkWindow),
		errors.Is(err, moderationdomain.ErrInvalidReason),
		errors.Is(err, moderationdomain.ErrInvalidActionType),
		errors.Is(err, moderationdomain.ErrInvalidSuspension),
		errors.Is(err, moderationdomain.ErrReportMismatch),
		errors.Is(err, teamdomain.ErrInvalidTeamName),
		errors.Is(err, teamdomain.ErrInvalidTeamRole),
		errors.Is(err, teamdomain.ErrInvalidSlot),
		errors.Is(err, gametypedomain.ErrInvalidGameType),
		errors.Is(err, matchdomain.ErrTooFewParticipants),
		errors.Is(err, matchdomain.ErrInvalidParticipant),
		errors.Is(err, matchdomain.ErrDuplicateParticipant),
		errors.Is(err, matchdomain.ErrFuturePlayedAt):
		return true
	default:
		return false
	}
}

func isForbiddenError(err error) bool {
	switch {
	case errors.Is(err, ErrForbidden),
		errors.Is(err, leaguedomain.ErrForbidden),
		errors.Is(err, invitationdomain.ErrNotInvitee),
		errors.Is(err, moderationdomain.ErrCannotModerate),
		errors.Is(err, moderationdomain.ErrSelfReport),
		errors.Is(err, moderationdomain.ErrReporterSuspended),
		errors.Is(err, matchdomain.ErrReporterSuspended),
		errors.Is(err, teamdomain.ErrNotTeamCaptain):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, authdomain.ErrUserExists),
		errors.Is(err, leaguedomain.ErrAlreadyMember),
		errors.Is(err, leaguedomain.ErrLeagueArchived),
		errors.Is(err, leaguedomain.ErrLastExecutive),
		errors.Is(err, leaguedomain.ErrPlaceholderRetired),
		errors.Is(err, invitationdomain.ErrDuplicateInvite),
		errors.Is(err, invitationdomain.ErrInvitationNotPending),
		errors.Is(err, invitationdomain.ErrInvitationExpired),
		errors.Is(err, invitationdomain.ErrLinkRevoked),
		errors.Is(err, invitationdomain.ErrLinkExpired),
		errors.Is(err, invitationdomain.ErrLinkExhausted),
		errors.Is(err, moderationdomain.ErrDuplicateReport),
		errors.Is(err, moderationdomain.ErrReportResolved),
		errors.Is(err, gametypedomain.ErrGameTypeArchived),
		errors.Is(err, teamdomain.ErrDuplicateSlot),
		errors.Is(err, teamdomain.ErrLastCaptain):
		return true
	default:
		return false
	}
}

func conflictMessage(err error) string {
	if err == nil {
		return "conflict"
	}
	return err.Error()
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, leaguedomain.ErrLeagueNotFound),
		errors.Is(err, leaguedomain.ErrNotAMember),
		errors.Is(err, leaguedomain.ErrMemberNotFound),
		errors.Is(err, leaguedomain.ErrPlaceholderNotFound),
		errors.Is(err, invitationdomain.ErrInvitationNotFound),
		errors.Is(err, invitationdomain.ErrInviteeNotFound),
		errors.Is(err, invitationdomain.ErrLinkNotFound),
		errors.Is(err, moderationdomain.ErrReportNotFound),
		errors.Is(err, gametypedomain.ErrGameTypeNotFound),
		errors.Is(err, matchdomain.ErrMatchNotFound),
		errors.Is(err, teamdomain.ErrTeamNotFound),
		errors.Is(err, teamdomain.ErrSlotNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

// classifyErrorForLog buckets an error for request log fields without
// leaking payload details into logs.
func classifyErrorForLog(err error) string {
	if err == nil {
		return ""
	}
	status, _ := mapError(err)
	switch {
	case status == http.StatusUnauthorized:
		return "unauthorized"
	case status == http.StatusForbidden:
		return "forbidden"
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusConflict:
		return "conflict"
	case status == http.StatusTooManyRequests:
		return "rate_limited"
	case status >= 400 && status < 500:
		return "client_error"
	default:
		return "server_error"
	}
}
