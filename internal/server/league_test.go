package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	leaguedomain "github.com/competiscore/competiscore/internal/league/domain"
	"github.com/gin-gonic/gin"
)

type fakeLeagueService struct {
	createCalls int
	created     leaguedomain.CreateLeagueRequest
	league      *leaguedomain.League
	getErr      error
	removeErr   error
}

func (f *fakeLeagueService) Create(ctx context.Context, userID snowflake.ID, req leaguedomain.CreateLeagueRequest) (*leaguedomain.LeagueResponse, error) {
	f.createCalls++
	f.created = req
	_ = ctx
	_ = userID
	if req.Name == "" {
		return nil, leaguedomain.ErrInvalidName
	}
	return &leaguedomain.LeagueResponse{
		ID:         snowflake.ID(1).String(),
		Name:       req.Name,
		Slug:       "spring-open-1",
		Visibility: req.Visibility,
	}, nil
}

func (f *fakeLeagueService) GetByID(ctx context.Context, id snowflake.ID) (*leaguedomain.League, error) {
	_ = ctx
	_ = id
	return f.league, f.getErr
}

func (f *fakeLeagueService) GetForViewer(ctx context.Context, viewerID, id snowflake.ID) (*leaguedomain.League, error) {
	_ = ctx
	_ = viewerID
	_ = id
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.league, nil
}

func (f *fakeLeagueService) ListForUser(ctx context.Context, userID snowflake.ID) ([]leaguedomain.LeagueListItem, error) {
	_ = ctx
	_ = userID
	return nil, nil
}

func (f *fakeLeagueService) ListPublic(ctx context.Context) ([]leaguedomain.League, error) {
	_ = ctx
	return nil, nil
}

func (f *fakeLeagueService) Update(ctx context.Context, actorID, leagueID snowflake.ID, req leaguedomain.UpdateLeagueRequest) error {
	_ = ctx
	_ = actorID
	_ = leagueID
	_ = req
	return nil
}

func (f *fakeLeagueService) Archive(ctx context.Context, actorID, leagueID snowflake.ID) error {
	_ = ctx
	_ = actorID
	_ = leagueID
	return nil
}

func (f *fakeLeagueService) Unarchive(ctx context.Context, actorID, leagueID snowflake.ID) error {
	_ = ctx
	_ = actorID
	_ = leagueID
	return nil
}

func (f *fakeLeagueService) ListMembers(ctx context.Context, actorID, leagueID snowflake.ID) ([]leaguedomain.Member, error) {
	_ = ctx
	_ = actorID
	_ = leagueID
	return nil, nil
}

func (f *fakeLeagueService) ChangeMemberRole(ctx context.Context, actorID, leagueID, targetUserID snowflake.ID, role leaguedomain.Role) error {
	_ = ctx
	_ = actorID
	_ = leagueID
	_ = targetUserID
	_ = role
	return nil
}

func (f *fakeLeagueService) RemoveMember(ctx context.Context, actorID, leagueID, targetUserID snowflake.ID) error {
	_ = ctx
	_ = actorID
	_ = leagueID
	_ = targetUserID
	return f.removeErr
}

func (f *fakeLeagueService) CreatePlaceholder(ctx context.Context, actorID, leagueID snowflake.ID, displayName string) (*leaguedomain.Placeholder, error) {
	_ = ctx
	_ = actorID
	_ = leagueID
	_ = displayName
	return nil, nil
}

func (f *fakeLeagueService) ListPlaceholders(ctx context.Context, actorID, leagueID snowflake.ID, includeRetired bool) ([]leaguedomain.Placeholder, error) {
	_ = ctx
	_ = actorID
	_ = leagueID
	_ = includeRetired
	return nil, nil
}

func (f *fakeLeagueService) RetirePlaceholder(ctx context.Context, actorID, leagueID, placeholderID snowflake.ID) error {
	_ = ctx
	_ = actorID
	_ = leagueID
	_ = placeholderID
	return nil
}

func (f *fakeLeagueService) RestorePlaceholder(ctx context.Context, actorID, leagueID, placeholderID snowflake.ID) error {
	_ = ctx
	_ = actorID
	_ = leagueID
	_ = placeholderID
	return nil
}

func testUserMiddleware(id snowflake.ID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextUserIDKey, id)
		c.Next()
	}
}

func TestCreateLeagueHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	leagueSvc := &fakeLeagueService{}
	srv := &Server{leaguesvc: leagueSvc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/api/v1/leagues", testUserMiddleware(snowflake.ID(7)), srv.CreateLeague)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leagues", bytes.NewBufferString(`{"name":"Spring Open","visibility":"public"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if leagueSvc.createCalls != 1 {
		t.Fatalf("expected 1 create call, got %d", leagueSvc.createCalls)
	}
	if leagueSvc.created.Visibility != leaguedomain.VisibilityPublic {
		t.Fatalf("expected public visibility, got %q", leagueSvc.created.Visibility)
	}
}

func TestCreateLeagueHandlerValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := &Server{leaguesvc: &fakeLeagueService{}}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/api/v1/leagues", testUserMiddleware(snowflake.ID(7)), srv.CreateLeague)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leagues", bytes.NewBufferString(`{"name":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestGetLeagueHiddenReturns404(t *testing.T) {
	gin.SetMode(gin.TestMode)

	leagueSvc := &fakeLeagueService{getErr: leaguedomain.ErrLeagueNotFound}
	srv := &Server{leaguesvc: leagueSvc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/api/v1/leagues/:id", testUserMiddleware(snowflake.ID(7)), srv.GetLeague)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leagues/12345", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestGetLeagueInvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := &Server{leaguesvc: &fakeLeagueService{}}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/api/v1/leagues/:id", testUserMiddleware(snowflake.ID(7)), srv.GetLeague)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leagues/not-a-number", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestRemoveMemberForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)

	leagueSvc := &fakeLeagueService{removeErr: leaguedomain.ErrForbidden}
	srv := &Server{leaguesvc: leagueSvc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.DELETE("/api/v1/leagues/:id/members/:userId", testUserMiddleware(snowflake.ID(7)), srv.RemoveMember)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/leagues/12345/members/9", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
}
