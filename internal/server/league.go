package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	leaguedomain "github.com/competiscore/competiscore/internal/league/domain"
	"github.com/gin-gonic/gin"
)

type createLeagueRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
	LogoURL     string `json:"logo_url"`
}

type updateLeagueRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Visibility  *string `json:"visibility,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
}

func (s *Server) CreateLeague(c *gin.Context) {
	userID, ok := s.currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createLeagueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.leaguesvc.Create(c.Request.Context(), userID, leaguedomain.CreateLeagueRequest{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Visibility:  leaguedomain.Visibility(strings.TrimSpace(req.Visibility)),
		LogoURL:     strings.TrimSpace(req.LogoURL),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListMyLeagues(c *gin.Context) {
	userID, ok := s.currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	items, err := s.leaguesvc.ListForUser(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) ListPublicLeagues(c *gin.Context) {
	leagues, err := s.leaguesvc.ListPublic(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": leagues})
}

func (s *Server) GetLeague(c *gin.Context) {
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

	league, err := s.leaguesvc.GetForViewer(c.Request.Context(), userID, leagueID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": league})
}

func (s *Server) UpdateLeague(c *gin.Context) {
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

	var req updateLeagueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var visibility *leaguedomain.Visibility
	if req.Visibility != nil {
		parsed := leaguedomain.Visibility(strings.TrimSpace(*req.Visibility))
		visibility = &parsed
	}

	err = s.leaguesvc.Update(c.Request.Context(), userID, leagueID, leaguedomain.UpdateLeagueRequest{
		Name:        req.Name,
		Description: req.Description,
		Visibility:  visibility,
		LogoURL:     req.LogoURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) ArchiveLeague(c *gin.Context) {
	s.leagueLifecycle(c, s.leaguesvc.Archive)
}

func (s *Server) UnarchiveLeague(c *gin.Context) {
	s.leagueLifecycle(c, s.leaguesvc.Unarchive)
}

func (s *Server) leagueLifecycle(c *gin.Context, op func(ctx context.Context, actorID, leagueID snowflake.ID) error) {
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

	if err := op(c.Request.Context(), userID, leagueID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) JoinLeague(c *gin.Context) {
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

	if err := s.checkJoinRate(c, userID); err != nil {
		AbortWithError(c, err)
		return
	}

	league, err := s.leaguesvc.GetForViewer(c.Request.Context(), userID, leagueID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if league.Visibility != leaguedomain.VisibilityPublic {
		AbortWithError(c, leaguedomain.ErrForbidden)
		return
	}

	member, err := s.joiner.Join(c.Request.Context(), userID, leagueID, leaguedomain.RoleMember)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": member})
}

func (s *Server) ListMembers(c *gin.Context) {
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

	members, err := s.leaguesvc.ListMembers(c.Request.Context(), userID, leagueID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": members})
}

type changeMemberRoleRequest struct {
	Role string `json:"role"`
}

func (s *Server) ChangeMemberRole(c *gin.Context) {
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
	targetID, err := pathID(c, "userId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req changeMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	role := leaguedomain.Role(strings.TrimSpace(req.Role))
	if err := s.leaguesvc.ChangeMemberRole(c.Request.Context(), userID, leagueID, targetID, role); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) RemoveMember(c *gin.Context) {
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
	targetID, err := pathID(c, "userId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.leaguesvc.RemoveMember(c.Request.Context(), userID, leagueID, targetID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type createPlaceholderRequest struct {
	DisplayName string `json:"display_name"`
}

func (s *Server) CreatePlaceholder(c *gin.Context) {
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

	var req createPlaceholderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	placeholder, err := s.leaguesvc.CreatePlaceholder(c.Request.Context(), userID, leagueID, strings.TrimSpace(req.DisplayName))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": placeholder})
}

func (s *Server) ListPlaceholders(c *gin.Context) {
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

	includeRetired := parseOptionalBool(c.Query("include_retired"))
	placeholders, err := s.leaguesvc.ListPlaceholders(c.Request.Context(), userID, leagueID, includeRetired)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": placeholders})
}

func (s *Server) RetirePlaceholder(c *gin.Context) {
	s.placeholderLifecycle(c, s.leaguesvc.RetirePlaceholder)
}

func (s *Server) RestorePlaceholder(c *gin.Context) {
	s.placeholderLifecycle(c, s.leaguesvc.RestorePlaceholder)
}

func (s *Server) placeholderLifecycle(c *gin.Context, op func(ctx context.Context, actorID, leagueID, placeholderID snowflake.ID) error) {
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
	placeholderID, err := pathID(c, "placeholderId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := op(c.Request.Context(), userID, leagueID, placeholderID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
