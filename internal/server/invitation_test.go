package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	invitationdomain "github.com/competiscore/competiscore/internal/invitation/domain"
	leaguedomain "github.com/competiscore/competiscore/internal/league/domain"
	"github.com/gin-gonic/gin"
)

type fakeInvitationService struct {
	details *invitationdomain.LinkDetails
	joinErr error
	member  *leaguedomain.Member
}

func (f *fakeInvitationService) Invite(ctx context.Context, actorID, leagueID snowflake.ID, req invitationdomain.InviteRequest) (*invitationdomain.Invitation, error) {
	_ = ctx
	_ = actorID
	_ = leagueID
	_ = req
	return nil, nil
}

func (f *fakeInvitationService) ListOwnInvitations(ctx context.Context, userID snowflake.ID) ([]invitationdomain.InvitationView, error) {
	_ = ctx
	_ = userID
	return nil, nil
}

func (f *fakeInvitationService) Accept(ctx context.Context, userID, invitationID snowflake.ID) (*leaguedomain.Member, error) {
	_ = ctx
	_ = userID
	_ = invitationID
	return nil, nil
}

func (f *fakeInvitationService) Decline(ctx context.Context, userID, invitationID snowflake.ID) error {
	_ = ctx
	_ = userID
	_ = invitationID
	return nil
}

func (f *fakeInvitationService) CreateInviteLink(ctx context.Context, actorID, leagueID snowflake.ID, req invitationdomain.CreateLinkRequest) (*invitationdomain.InviteLink, error) {
	_ = ctx
	_ = actorID
	_ = leagueID
	_ = req
	return nil, nil
}

func (f *fakeInvitationService) RevokeInviteLink(ctx context.Context, actorID, leagueID snowflake.ID, token string) error {
	_ = ctx
	_ = actorID
	_ = leagueID
	_ = token
	return nil
}

func (f *fakeInvitationService) GetInviteLinkDetails(ctx context.Context, token string) (*invitationdomain.LinkDetails, error) {
	_ = ctx
	if f.details == nil {
		return nil, invitationdomain.ErrLinkNotFound
	}
	_ = token
	return f.details, nil
}

func (f *fakeInvitationService) JoinViaLink(ctx context.Context, userID snowflake.ID, token string) (*leaguedomain.Member, error) {
	_ = ctx
	_ = userID
	_ = token
	if f.joinErr != nil {
		return nil, f.joinErr
	}
	return f.member, nil
}

func TestGetInviteLinkDetailsNoSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	invitationSvc := &fakeInvitationService{
		details: &invitationdomain.LinkDetails{
			LeagueID:   snowflake.ID(1),
			LeagueName: "Spring Open",
			Role:       leaguedomain.RoleMember,
			IsValid:    true,
		},
	}
	srv := &Server{invitationsvc: invitationSvc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/api/v1/invite-links/:token", srv.GetInviteLinkDetails)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invite-links/some-token", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestGetInviteLinkDetailsUnknownToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := &Server{invitationsvc: &fakeInvitationService{}}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/api/v1/invite-links/:token", srv.GetInviteLinkDetails)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invite-links/missing", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestJoinViaInviteLinkExhaustedConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)

	invitationSvc := &fakeInvitationService{joinErr: invitationdomain.ErrLinkExhausted}
	srv := &Server{invitationsvc: invitationSvc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/api/v1/invite-links/:token/join", testUserMiddleware(snowflake.ID(7)), srv.JoinViaInviteLink)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invite-links/some-token/join", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestJoinViaInviteLinkCreated(t *testing.T) {
	gin.SetMode(gin.TestMode)

	invitationSvc := &fakeInvitationService{
		member: &leaguedomain.Member{
			ID:       snowflake.ID(55),
			LeagueID: snowflake.ID(1),
			UserID:   snowflake.ID(7),
			Role:     leaguedomain.RoleMember,
		},
	}
	srv := &Server{invitationsvc: invitationSvc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/api/v1/invite-links/:token/join", testUserMiddleware(snowflake.ID(7)), srv.JoinViaInviteLink)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invite-links/some-token/join", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
}
