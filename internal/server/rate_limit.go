package server

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

// checkReportRate consults the redis abuse limiter before accepting a
// report. A nil or disabled limiter allows everything; limiter outages
// fail open so redis never takes report submission down with it.
func (s *Server) checkReportRate(c *gin.Context, userID snowflake.ID) error {
	if !s.abuseLimiter.Enabled() {
		return nil
	}
	allowed, err := s.abuseLimiter.AllowReport(c.Request.Context(), userID)
	if err != nil {
		return nil
	}
	if !allowed {
		return ErrTooManyRequests
	}
	return nil
}

func (s *Server) checkJoinRate(c *gin.Context, userID snowflake.ID) error {
	if !s.abuseLimiter.Enabled() {
		return nil
	}
	allowed, err := s.abuseLimiter.AllowJoin(c.Request.Context(), userID)
	if err != nil {
		return nil
	}
	if !allowed {
		return ErrTooManyRequests
	}
	return nil
}
