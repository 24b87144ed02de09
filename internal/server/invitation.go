package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	invitationdomain "github.com/competiscore/competiscore/internal/invitation/domain"
	leaguedomain "github.com/competiscore/competiscore/internal/league/domain"
	"github.com/gin-gonic/gin"
)

type createInvitationRequest struct {
	InviteeID    string `json:"invitee_id"`
	InviteeEmail string `json:"invitee_email"`
	Role         string `json:"role"`
}

type createInviteLinkRequest struct {
	Role      string     `json:"role"`
	ExpiresAt *time.Time `json:"expires_at"`
	MaxUses   *int       `json:"max_uses"`
}

func (s *Server) CreateInvitation(c *gin.Context) {
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

	var req createInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var inviteeID snowflake.ID
	if raw := strings.TrimSpace(req.InviteeID); raw != "" {
		inviteeID, err = snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, newValidationError("invitee_id", "invalid_id", "invalid identifier"))
			return
		}
	}

	invitation, err := s.invitationsvc.Invite(c.Request.Context(), userID, leagueID, invitationdomain.InviteRequest{
		InviteeID:    inviteeID,
		InviteeEmail: strings.TrimSpace(req.InviteeEmail),
		Role:         leaguedomain.Role(strings.TrimSpace(req.Role)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": invitation})
}

func (s *Server) ListMyInvitations(c *gin.Context) {
	userID, ok := s.currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	views, err := s.invitationsvc.ListOwnInvitations(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": views})
}

func (s *Server) AcceptInvitation(c *gin.Context) {
	userID, ok := s.currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	invitationID, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	member, err := s.invitationsvc.Accept(c.Request.Context(), userID, invitationID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": member})
}

func (s *Server) DeclineInvitation(c *gin.Context) {
	userID, ok := s.currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	invitationID, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.invitationsvc.Decline(c.Request.Context(), userID, invitationID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) CreateInviteLink(c *gin.Context) {
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

	var req createInviteLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	link, err := s.invitationsvc.CreateInviteLink(c.Request.Context(), userID, leagueID, invitationdomain.CreateLinkRequest{
		Role:      leaguedomain.Role(strings.TrimSpace(req.Role)),
		ExpiresAt: req.ExpiresAt,
		MaxUses:   req.MaxUses,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": link})
}

func (s *Server) RevokeInviteLink(c *gin.Context) {
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

	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		AbortWithError(c, newValidationError("token", "required", "token is required"))
		return
	}

	if err := s.invitationsvc.RevokeInviteLink(c.Request.Context(), userID, leagueID, token); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetInviteLinkDetails is served without a session: recipients preview the
// league before deciding to sign up or log in.
func (s *Server) GetInviteLinkDetails(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		AbortWithError(c, newValidationError("token", "required", "token is required"))
		return
	}

	details, err := s.invitationsvc.GetInviteLinkDetails(c.Request.Context(), token)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": details})
}

func (s *Server) JoinViaInviteLink(c *gin.Context) {
	userID, ok := s.currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		AbortWithError(c, newValidationError("token", "required", "token is required"))
		return
	}

	if err := s.checkJoinRate(c, userID); err != nil {
		AbortWithError(c, err)
		return
	}

	member, err := s.invitationsvc.JoinViaLink(c.Request.Context(), userID, token)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": member})
}
