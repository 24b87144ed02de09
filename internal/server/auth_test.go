package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/competiscore/competiscore/internal/auth/domain"
	"github.com/competiscore/competiscore/internal/auth/session"
	"github.com/competiscore/competiscore/internal/config"
	"github.com/gin-gonic/gin"
)

type fakeAuthService struct {
	createUserCalls int
	loginCalls      int
	loginErr        error
	user            *authdomain.User
}

func (f *fakeAuthService) CreateUser(ctx context.Context, req authdomain.CreateUserRequest) (*authdomain.User, error) {
	f.createUserCalls++
	_ = ctx
	return &authdomain.User{
		ID:          snowflake.ID(200),
		Username:    "alice",
		DisplayName: req.DisplayName,
		Email:       req.Email,
	}, nil
}

func (f *fakeAuthService) Login(ctx context.Context, req authdomain.LoginRequest) (*authdomain.LoginResult, error) {
	f.loginCalls++
	_ = ctx
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &authdomain.LoginResult{
		User: &authdomain.User{
			ID:       snowflake.ID(200),
			Username: "alice",
			Email:    req.Email,
		},
		RawToken:  "session-token",
		ExpiresAt: time.Now().Add(time.Hour),
		SessionID: snowflake.ID(300),
	}, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, rawToken string) error {
	_ = ctx
	_ = rawToken
	return nil
}

func (f *fakeAuthService) Authenticate(ctx context.Context, rawToken string) (*authdomain.Session, error) {
	_ = ctx
	if rawToken != "session-token" {
		return nil, authdomain.ErrInvalidSession
	}
	return &authdomain.Session{
		ID:     snowflake.ID(300),
		UserID: snowflake.ID(200),
	}, nil
}

func (f *fakeAuthService) GetUser(ctx context.Context, id snowflake.ID) (*authdomain.User, error) {
	_ = ctx
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, authdomain.ErrUserNotFound
}

func (f *fakeAuthService) ChangePassword(ctx context.Context, userID snowflake.ID, newPassword string) error {
	_ = ctx
	_ = userID
	_ = newPassword
	return nil
}

func newTestSessions() *session.Manager {
	return session.NewManager(config.Config{})
}

func TestSignupHandlerCreatesUserAndSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authSvc := &fakeAuthService{}
	srv := &Server{
		authsvc:  authSvc,
		sessions: newTestSessions(),
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/auth/signup", srv.Signup)

	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(`{"email":"alice@example.com","password":"hunter22","display_name":"Alice"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if authSvc.createUserCalls != 1 {
		t.Fatalf("expected 1 create user call, got %d", authSvc.createUserCalls)
	}
	if authSvc.loginCalls != 1 {
		t.Fatalf("expected 1 login call, got %d", authSvc.loginCalls)
	}

	cookies := resp.Result().Cookies()
	found := false
	for _, cookie := range cookies {
		if cookie.Name == session.DefaultCookieName && cookie.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected session cookie to be set")
	}
}

func TestSignupHandlerRejectsMissingEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authSvc := &fakeAuthService{}
	srv := &Server{
		authsvc:  authSvc,
		sessions: newTestSessions(),
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/auth/signup", srv.Signup)

	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(`{"password":"hunter22"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if authSvc.createUserCalls != 0 {
		t.Fatal("expected create user not to be called")
	}
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authSvc := &fakeAuthService{loginErr: authdomain.ErrInvalidCredentials}
	srv := &Server{
		authsvc:  authSvc,
		sessions: newTestSessions(),
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/auth/login", srv.Login)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"email":"alice@example.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestAuthRequiredRejectsMissingCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := &Server{
		authsvc:  &fakeAuthService{},
		sessions: newTestSessions(),
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/protected", srv.AuthRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestAuthRequiredSetsUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := &Server{
		authsvc:  &fakeAuthService{},
		sessions: newTestSessions(),
	}

	var gotUserID snowflake.ID
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/protected", srv.AuthRequired(), func(c *gin.Context) {
		gotUserID, _ = srv.currentUserID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "session-token"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if gotUserID != snowflake.ID(200) {
		t.Fatalf("expected user id 200, got %d", gotUserID)
	}
}
