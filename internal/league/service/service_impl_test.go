package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/competiscore/competiscore/internal/clock"
	"github.com/competiscore/competiscore/internal/config"
	"github.com/competiscore/competiscore/internal/league/domain"
	"github.com/competiscore/competiscore/internal/league/repository"
	"github.com/competiscore/competiscore/internal/limits"
	"github.com/competiscore/competiscore/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new snowflake node: %v", err)
	}
	return node
}

func setupService(t *testing.T, node *snowflake.Node, plans config.PlanConfig) (domain.Service, domain.Repository, *gorm.DB) {
	t.Helper()

	gdb, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&domain.League{}, &domain.Member{}, &domain.Placeholder{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repo := repository.NewRepository(gdb)
	gate := limits.NewGate(zap.NewNop(), repo, config.NewStaticPlanConfigHolder(plans))
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := NewService(gdb, repo, gate, node, clk, zap.NewNop())

	return svc, repo, gdb
}

func defaultPlans() config.PlanConfig {
	return config.PlanConfig{
		MaxLeaguesPerUser:   10,
		MaxMembersPerLeague: 50,
		MaxSuspensionDays:   90,
		InviteTTLDays:       14,
	}
}

func TestCreateLeagueMakesCreatorExecutive(t *testing.T) {
	node := mustNode(t)
	svc, repo, _ := setupService(t, node, defaultPlans())
	userID := node.Generate()

	resp, err := svc.Create(context.Background(), userID, domain.CreateLeagueRequest{
		Name:       "Tuesday Night Darts",
		Visibility: domain.VisibilityPrivate,
	})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}

	leagueID, err := snowflake.ParseString(resp.ID)
	if err != nil {
		t.Fatalf("parse league id: %v", err)
	}

	member, err := repo.GetMember(context.Background(), leagueID, userID)
	if err != nil {
		t.Fatalf("get creator membership: %v", err)
	}
	if member.Role != domain.RoleExecutive {
		t.Fatalf("creator role = %s, want %s", member.Role, domain.RoleExecutive)
	}
	if resp.Slug == "" {
		t.Fatal("expected non-empty slug")
	}
}

func TestCreateLeagueRespectsUserLimit(t *testing.T) {
	node := mustNode(t)
	plans := defaultPlans()
	plans.MaxLeaguesPerUser = 2
	svc, _, _ := setupService(t, node, plans)
	userID := node.Generate()

	for i := 0; i < 2; i++ {
		if _, err := svc.Create(context.Background(), userID, domain.CreateLeagueRequest{Name: "League"}); err != nil {
			t.Fatalf("create league %d: %v", i, err)
		}
	}

	_, err := svc.Create(context.Background(), userID, domain.CreateLeagueRequest{Name: "One Too Many"})
	var limitErr *limits.LimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected limit error, got %v", err)
	}
	if limitErr.Message == "" {
		t.Fatal("limit error should carry a message")
	}
}

func TestCreateLeagueValidation(t *testing.T) {
	node := mustNode(t)
	svc, _, _ := setupService(t, node, defaultPlans())
	userID := node.Generate()

	if _, err := svc.Create(context.Background(), userID, domain.CreateLeagueRequest{Name: "   "}); !errors.Is(err, domain.ErrInvalidName) {
		t.Fatalf("blank name: got %v, want %v", err, domain.ErrInvalidName)
	}

	_, err := svc.Create(context.Background(), userID, domain.CreateLeagueRequest{
		Name:       "Bad Vis",
		Visibility: domain.Visibility("secret"),
	})
	if !errors.Is(err, domain.ErrInvalidVisibility) {
		t.Fatalf("bad visibility: got %v, want %v", err, domain.ErrInvalidVisibility)
	}
}

func TestChangeMemberRoleLastExecutive(t *testing.T) {
	node := mustNode(t)
	svc, repo, _ := setupService(t, node, defaultPlans())
	ctx := context.Background()
	owner := node.Generate()

	resp, err := svc.Create(ctx, owner, domain.CreateLeagueRequest{Name: "Pool League"})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	leagueID, _ := snowflake.ParseString(resp.ID)

	err = svc.ChangeMemberRole(ctx, owner, leagueID, owner, domain.RoleMember)
	if !errors.Is(err, domain.ErrLastExecutive) {
		t.Fatalf("demote sole executive: got %v, want %v", err, domain.ErrLastExecutive)
	}

	// With a second executive the demotion goes through.
	other := node.Generate()
	addMember(t, repo, node, leagueID, other, domain.RoleExecutive)

	if err := svc.ChangeMemberRole(ctx, owner, leagueID, owner, domain.RoleMember); err != nil {
		t.Fatalf("demote with backup executive: %v", err)
	}

	member, err := repo.GetMember(ctx, leagueID, owner)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if member.Role != domain.RoleMember {
		t.Fatalf("role = %s, want %s", member.Role, domain.RoleMember)
	}
}

func TestRemoveMemberRankGuard(t *testing.T) {
	node := mustNode(t)
	svc, repo, _ := setupService(t, node, defaultPlans())
	ctx := context.Background()
	owner := node.Generate()

	resp, err := svc.Create(ctx, owner, domain.CreateLeagueRequest{Name: "Chess Club"})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	leagueID, _ := snowflake.ParseString(resp.ID)

	manager := node.Generate()
	plain := node.Generate()
	addMember(t, repo, node, leagueID, manager, domain.RoleManager)
	addMember(t, repo, node, leagueID, plain, domain.RoleMember)

	// Managers lack the remove capability entirely.
	if err := svc.RemoveMember(ctx, manager, leagueID, plain); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("manager remove: got %v, want %v", err, domain.ErrForbidden)
	}

	if err := svc.RemoveMember(ctx, owner, leagueID, plain); err != nil {
		t.Fatalf("executive remove: %v", err)
	}
	if _, err := repo.GetMember(ctx, leagueID, plain); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("removed member still present: %v", err)
	}
}

func TestPrivateLeagueHiddenFromNonMembers(t *testing.T) {
	node := mustNode(t)
	svc, _, _ := setupService(t, node, defaultPlans())
	ctx := context.Background()
	owner := node.Generate()
	stranger := node.Generate()

	resp, err := svc.Create(ctx, owner, domain.CreateLeagueRequest{
		Name:       "Secret Society",
		Visibility: domain.VisibilityPrivate,
	})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	leagueID, _ := snowflake.ParseString(resp.ID)

	_, err = svc.ListMembers(ctx, stranger, leagueID)
	if !errors.Is(err, domain.ErrLeagueNotFound) {
		t.Fatalf("stranger on private league: got %v, want %v", err, domain.ErrLeagueNotFound)
	}
}

func TestPlaceholderLifecycle(t *testing.T) {
	node := mustNode(t)
	svc, _, _ := setupService(t, node, defaultPlans())
	ctx := context.Background()
	owner := node.Generate()

	resp, err := svc.Create(ctx, owner, domain.CreateLeagueRequest{Name: "Bowling"})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	leagueID, _ := snowflake.ParseString(resp.ID)

	placeholder, err := svc.CreatePlaceholder(ctx, owner, leagueID, "Uncle Bob")
	if err != nil {
		t.Fatalf("create placeholder: %v", err)
	}

	if err := svc.RetirePlaceholder(ctx, owner, leagueID, placeholder.ID); err != nil {
		t.Fatalf("retire placeholder: %v", err)
	}
	if err := svc.RetirePlaceholder(ctx, owner, leagueID, placeholder.ID); !errors.Is(err, domain.ErrPlaceholderRetired) {
		t.Fatalf("retire twice: got %v, want %v", err, domain.ErrPlaceholderRetired)
	}

	active, err := svc.ListPlaceholders(ctx, owner, leagueID, false)
	if err != nil {
		t.Fatalf("list placeholders: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active placeholders, got %d", len(active))
	}

	if err := svc.RestorePlaceholder(ctx, owner, leagueID, placeholder.ID); err != nil {
		t.Fatalf("restore placeholder: %v", err)
	}

	active, err = svc.ListPlaceholders(ctx, owner, leagueID, false)
	if err != nil {
		t.Fatalf("list placeholders: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 active placeholder, got %d", len(active))
	}
}

func TestArchiveBlocksMutation(t *testing.T) {
	node := mustNode(t)
	svc, _, _ := setupService(t, node, defaultPlans())
	ctx := context.Background()
	owner := node.Generate()

	resp, err := svc.Create(ctx, owner, domain.CreateLeagueRequest{Name: "Retired League"})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	leagueID, _ := snowflake.ParseString(resp.ID)

	if err := svc.Archive(ctx, owner, leagueID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	_, err = svc.CreatePlaceholder(ctx, owner, leagueID, "Too Late")
	if !errors.Is(err, domain.ErrLeagueArchived) {
		t.Fatalf("placeholder on archived league: got %v, want %v", err, domain.ErrLeagueArchived)
	}

	if err := svc.Unarchive(ctx, owner, leagueID); err != nil {
		t.Fatalf("unarchive: %v", err)
	}
	if _, err := svc.CreatePlaceholder(ctx, owner, leagueID, "Right On Time"); err != nil {
		t.Fatalf("placeholder after unarchive: %v", err)
	}
}

func addMember(t *testing.T, repo domain.Repository, node *snowflake.Node, leagueID, userID snowflake.ID, role domain.Role) {
	t.Helper()
	err := repo.AddMember(context.Background(), domain.Member{
		ID:        node.Generate(),
		LeagueID:  leagueID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("add member: %v", err)
	}
}
