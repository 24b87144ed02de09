package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	moderationdomain "github.com/competiscore/competiscore/internal/moderation/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type submitReportRequest struct {
	ReportedID  string         `json:"reported_id"`
	Reason      string         `json:"reason"`
	Description string         `json:"description"`
	Evidence    map[string]any `json:"evidence"`
}

type moderationActionRequest struct {
	ReportID       *string `json:"report_id"`
	TargetID       string  `json:"target_id"`
	ActionType     string  `json:"action_type"`
	Reason         string  `json:"reason"`
	SuspensionDays *int    `json:"suspension_days"`
}

func (s *Server) SubmitReport(c *gin.Context) {
	userID, ok := s.currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	leagueID, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req submitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	reportedID, err := snowflake.ParseString(strings.TrimSpace(req.ReportedID))
	if err != nil || reportedID == 0 {
		AbortWithError(c, newValidationError("reported_id", "invalid_id", "invalid identifier"))
		return
	}

	if err := s.checkReportRate(c, userID); err != nil {
		AbortWithError(c, err)
		return
	}

	report, err := s.moderationsvc.SubmitReport(c.Request.Context(), userID, leagueID, moderationdomain.SubmitReportRequest{
		ReportedID:  reportedID,
		Reason:      moderationdomain.Reason(strings.TrimSpace(req.Reason)),
		Description: strings.TrimSpace(req.Description),
		Evidence:    datatypes.JSONMap(req.Evidence),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": report})
}

func (s *Server) ListPendingReports(c *gin.Context) {
	userID, ok := s.currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	leagueID, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reports, err := s.moderationsvc.ListPendingReports(c.Request.Context(), userID, leagueID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reports})
}

func (s *Server) TakeModerationAction(c *gin.Context) {
	userID, ok := s.currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	leagueID, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req moderationActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	targetID, err := snowflake.ParseString(strings.TrimSpace(req.TargetID))
	if err != nil || targetID == 0 {
		AbortWithError(c, newValidationError("target_id", "invalid_id", "invalid identifier"))
		return
	}

	var reportID *snowflake.ID
	if req.ReportID != nil && strings.TrimSpace(*req.ReportID) != "" {
		parsed, err := snowflake.ParseString(strings.TrimSpace(*req.ReportID))
		if err != nil || parsed == 0 {
			AbortWithError(c, newValidationError("report_id", "invalid_id", "invalid identifier"))
			return
		}
		reportID = &parsed
	}

	action, err := s.moderationsvc.TakeAction(c.Request.Context(), userID, leagueID, moderationdomain.ActionRequest{
		ReportID:       reportID,
		TargetID:       targetID,
		ActionType:     moderationdomain.ActionType(strings.TrimSpace(req.ActionType)),
		Reason:         strings.TrimSpace(req.Reason),
		SuspensionDays: req.SuspensionDays,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": action})
}

func (s *Server) GetModerationMe(c *gin.Context) {
	userID, ok := s.currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	leagueID, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	history, err := s.moderationsvc.GetOwnHistory(c.Request.Context(), userID, leagueID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": history})
}
