package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/competiscore/competiscore/internal/auth/domain"
	"github.com/competiscore/competiscore/internal/auth/session"
	"github.com/competiscore/competiscore/internal/config"
	gametypedomain "github.com/competiscore/competiscore/internal/gametype/domain"
	invitationdomain "github.com/competiscore/competiscore/internal/invitation/domain"
	"github.com/competiscore/competiscore/internal/join"
	leaguedomain "github.com/competiscore/competiscore/internal/league/domain"
	matchdomain "github.com/competiscore/competiscore/internal/match/domain"
	moderationdomain "github.com/competiscore/competiscore/internal/moderation/domain"
	"github.com/competiscore/competiscore/internal/observability"
	obslogger "github.com/competiscore/competiscore/internal/observability/logger"
	obsmetrics "github.com/competiscore/competiscore/internal/observability/metrics"
	obstracing "github.com/competiscore/competiscore/internal/observability/tracing"
	"github.com/competiscore/competiscore/internal/ratelimit"
	teamdomain "github.com/competiscore/competiscore/internal/team/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	genID         *snowflake.Node
	sessions      *session.Manager
	authsvc       authdomain.Service
	leaguesvc     leaguedomain.Service
	joiner        *join.Orchestrator
	invitationsvc invitationdomain.Service
	moderationsvc moderationdomain.Service
	teamsvc       teamdomain.Service
	gametypesvc   gametypedomain.Service
	matchsvc      matchdomain.Service
	abuseLimiter  *ratelimit.AbuseLimiter
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	GenID         *snowflake.Node
	Sessions      *session.Manager
	Authsvc       authdomain.Service
	Leaguesvc     leaguedomain.Service
	Joiner        *join.Orchestrator
	Invitationsvc invitationdomain.Service
	Moderationsvc moderationdomain.Service
	Teamsvc       teamdomain.Service
	Gametypesvc   gametypedomain.Service
	Matchsvc      matchdomain.Service
	AbuseLimiter  *ratelimit.AbuseLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		genID:         p.GenID,
		sessions:      p.Sessions,
		authsvc:       p.Authsvc,
		leaguesvc:     p.Leaguesvc,
		joiner:        p.Joiner,
		invitationsvc: p.Invitationsvc,
		moderationsvc: p.Moderationsvc,
		teamsvc:       p.Teamsvc,
		gametypesvc:   p.Gametypesvc,
		matchsvc:      p.Matchsvc,
		abuseLimiter:  p.AbuseLimiter,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/signup", s.Signup)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	// Invite link preview is the one league surface that needs no session:
	// the recipient has only the token.
	api.GET("/invite-links/:token", s.GetInviteLinkDetails)

	api.Use(s.AuthRequired())

	api.POST("/invite-links/:token/join", s.JoinViaInviteLink)

	// -------- Leagues --------
	api.GET("/leagues", s.ListMyLeagues)
	api.POST("/leagues", s.CreateLeague)
	api.GET("/leagues/public", s.ListPublicLeagues)
	api.GET("/leagues/:id", s.GetLeague)
	api.PATCH("/leagues/:id", s.UpdateLeague)
	api.POST("/leagues/:id/archive", s.ArchiveLeague)
	api.POST("/leagues/:id/unarchive", s.UnarchiveLeague)
	api.POST("/leagues/:id/join", s.JoinLeague)

	// -------- Members --------
	api.GET("/leagues/:id/members", s.ListMembers)
	api.PATCH("/leagues/:id/members/:userId", s.ChangeMemberRole)
	api.DELETE("/leagues/:id/members/:userId", s.RemoveMember)

	// -------- Placeholders --------
	api.GET("/leagues/:id/placeholders", s.ListPlaceholders)
	api.POST("/leagues/:id/placeholders", s.CreatePlaceholder)
	api.POST("/leagues/:id/placeholders/:placeholderId/retire", s.RetirePlaceholder)
	api.POST("/leagues/:id/placeholders/:placeholderId/restore", s.RestorePlaceholder)

	// -------- Invitations --------
	api.POST("/leagues/:id/invitations", s.CreateInvitation)
	api.GET("/invitations", s.ListMyInvitations)
	api.POST("/invitations/:id/accept", s.AcceptInvitation)
	api.POST("/invitations/:id/decline", s.DeclineInvitation)

	// -------- Invite links --------
	api.POST("/leagues/:id/invite-links", s.CreateInviteLink)
	api.DELETE("/leagues/:id/invite-links/:token", s.RevokeInviteLink)

	// -------- Moderation --------
	api.POST("/leagues/:id/reports", s.SubmitReport)
	api.GET("/leagues/:id/reports", s.ListPendingReports)
	api.POST("/leagues/:id/moderation-actions", s.TakeModerationAction)
	api.GET("/leagues/:id/moderation/me", s.GetModerationMe)

	// -------- Teams --------
	api.GET("/leagues/:id/teams", s.ListTeams)
	api.POST("/leagues/:id/teams", s.CreateTeam)
	api.PATCH("/teams/:teamId", s.UpdateTeam)
	api.DELETE("/teams/:teamId", s.DeleteTeam)
	api.GET("/teams/:teamId/roster", s.ListTeamRoster)
	api.POST("/teams/:teamId/roster", s.AddTeamSlot)
	api.DELETE("/teams/:teamId/roster/:slotId", s.RemoveTeamSlot)

	// -------- Game types --------
	api.GET("/leagues/:id/game-types", s.ListGameTypes)
	api.POST("/leagues/:id/game-types", s.CreateGameType)
	api.PATCH("/game-types/:gameTypeId", s.UpdateGameType)
	api.POST("/game-types/:gameTypeId/archive", s.ArchiveGameType)

	// -------- Matches --------
	api.GET("/leagues/:id/matches", s.ListMatches)
	api.POST("/leagues/:id/matches", s.ReportMatch)
}
