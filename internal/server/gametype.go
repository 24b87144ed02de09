package server

import (
	"net/http"
	"strings"

	gametypedomain "github.com/competiscore/competiscore/internal/gametype/domain"
	"github.com/gin-gonic/gin"
)

type createGameTypeRequest struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	ScoringKind string `json:"scoring_kind"`
}

type updateGameTypeRequest struct {
	Name *string `json:"name,omitempty"`
	Icon *string `json:"icon,omitempty"`
}

func (s *Server) CreateGameType(c *gin.Context) {
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

	var req createGameTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	gameType, err := s.gametypesvc.Create(c.Request.Context(), userID, leagueID, gametypedomain.CreateRequest{
		Name:        strings.TrimSpace(req.Name),
		Icon:        strings.TrimSpace(req.Icon),
		ScoringKind: gametypedomain.ScoringKind(strings.TrimSpace(req.ScoringKind)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gameType})
}

func (s *Server) ListGameTypes(c *gin.Context) {
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

	includeArchived := parseOptionalBool(c.Query("include_archived"))
	gameTypes, err := s.gametypesvc.List(c.Request.Context(), userID, leagueID, includeArchived)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gameTypes})
}

func (s *Server) UpdateGameType(c *gin.Context) {
	userID, ok := s.currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	gameTypeID, err := pathID(c, "gameTypeId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateGameTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err = s.gametypesvc.Update(c.Request.Context(), userID, gameTypeID, gametypedomain.UpdateRequest{
		Name: req.Name,
		Icon: req.Icon,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) ArchiveGameType(c *gin.Context) {
	userID, ok := s.currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	gameTypeID, err := pathID(c, "gameTypeId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.gametypesvc.Archive(c.Request.Context(), userID, gameTypeID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
