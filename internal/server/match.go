package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	matchdomain "github.com/competiscore/competiscore/internal/match/domain"
	"github.com/gin-gonic/gin"
)

type reportMatchRequest struct {
	GameTypeID   string                  `json:"game_type_id"`
	PlayedAt     *time.Time              `json:"played_at"`
	Participants []matchParticipantInput `json:"participants"`
}

type matchParticipantInput struct {
	Kind          string `json:"kind"`
	ParticipantID string `json:"participant_id"`
	Score         int    `json:"score"`
}

func (s *Server) ReportMatch(c *gin.Context) {
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

	var req reportMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	gameTypeID, err := snowflake.ParseString(strings.TrimSpace(req.GameTypeID))
	if err != nil || gameTypeID == 0 {
		AbortWithError(c, newValidationError("game_type_id", "invalid_id", "invalid identifier"))
		return
	}

	participants := make([]matchdomain.ParticipantInput, 0, len(req.Participants))
	for _, p := range req.Participants {
		participantID, err := snowflake.ParseString(strings.TrimSpace(p.ParticipantID))
		if err != nil || participantID == 0 {
			AbortWithError(c, newValidationError("participants", "invalid_id", "invalid identifier"))
			return
		}
		participants = append(participants, matchdomain.ParticipantInput{
			Kind:          matchdomain.ParticipantKind(strings.TrimSpace(p.Kind)),
			ParticipantID: participantID,
			Score:         p.Score,
		})
	}

	var playedAt time.Time
	if req.PlayedAt != nil {
		playedAt = *req.PlayedAt
	}

	match, err := s.matchsvc.ReportMatch(c.Request.Context(), userID, leagueID, matchdomain.ReportMatchRequest{
		GameTypeID:   gameTypeID,
		PlayedAt:     playedAt,
		Participants: participants,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": match})
}

func (s *Server) ListMatches(c *gin.Context) {
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

	matches, err := s.matchsvc.ListMatches(c.Request.Context(), userID, leagueID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": matches})
}
