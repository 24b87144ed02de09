package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	teamdomain "github.com/competiscore/competiscore/internal/team/domain"
	"github.com/gin-gonic/gin"
)

type createTeamRequest struct {
	Name      string `json:"name"`
	LogoURL   string `json:"logo_url"`
	CaptainID string `json:"captain_id"`
}

type updateTeamRequest struct {
	Name    *string `json:"name,omitempty"`
	LogoURL *string `json:"logo_url,omitempty"`
}

type addSlotRequest struct {
	SlotKind      string `json:"slot_kind"`
	ParticipantID string `json:"participant_id"`
	Role          string `json:"role"`
}

func (s *Server) CreateTeam(c *gin.Context) {
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

	var req createTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	captainID, err := snowflake.ParseString(strings.TrimSpace(req.CaptainID))
	if err != nil || captainID == 0 {
		AbortWithError(c, newValidationError("captain_id", "invalid_id", "invalid identifier"))
		return
	}

	team, err := s.teamsvc.CreateTeam(c.Request.Context(), userID, leagueID, teamdomain.CreateTeamRequest{
		Name:      strings.TrimSpace(req.Name),
		LogoURL:   strings.TrimSpace(req.LogoURL),
		CaptainID: captainID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": team})
}

func (s *Server) ListTeams(c *gin.Context) {
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

	teams, err := s.teamsvc.ListTeams(c.Request.Context(), userID, leagueID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": teams})
}

func (s *Server) UpdateTeam(c *gin.Context) {
	userID, ok := s.currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	teamID, err := pathID(c, "teamId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err = s.teamsvc.UpdateTeam(c.Request.Context(), userID, teamID, teamdomain.UpdateTeamRequest{
		Name:    req.Name,
		LogoURL: req.LogoURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) DeleteTeam(c *gin.Context) {
	userID, ok := s.currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	teamID, err := pathID(c, "teamId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.teamsvc.DeleteTeam(c.Request.Context(), userID, teamID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) AddTeamSlot(c *gin.Context) {
	userID, ok := s.currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	teamID, err := pathID(c, "teamId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req addSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	participantID, err := snowflake.ParseString(strings.TrimSpace(req.ParticipantID))
	if err != nil || participantID == 0 {
		AbortWithError(c, newValidationError("participant_id", "invalid_id", "invalid identifier"))
		return
	}

	slot, err := s.teamsvc.AddSlot(c.Request.Context(), userID, teamID, teamdomain.AddSlotRequest{
		SlotKind:      teamdomain.SlotKind(strings.TrimSpace(req.SlotKind)),
		ParticipantID: participantID,
		Role:          teamdomain.TeamRole(strings.TrimSpace(req.Role)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": slot})
}

func (s *Server) RemoveTeamSlot(c *gin.Context) {
	userID, ok := s.currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	teamID, err := pathID(c, "teamId")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	slotID, err := pathID(c, "slotId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.teamsvc.RemoveSlot(c.Request.Context(), userID, teamID, slotID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) ListTeamRoster(c *gin.Context) {
	userID, ok := s.currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	teamID, err := pathID(c, "teamId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	roster, err := s.teamsvc.ListRoster(c.Request.Context(), userID, teamID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": roster})
}
