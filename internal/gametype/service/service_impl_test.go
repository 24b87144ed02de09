package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/competiscore/competiscore/internal/clock"
	"github.com/competiscore/competiscore/internal/gametype/domain"
	"github.com/competiscore/competiscore/internal/gametype/repository"
	leaguedomain "github.com/competiscore/competiscore/internal/league/domain"
	leaguerepo "github.com/competiscore/competiscore/internal/league/repository"
	"github.com/competiscore/competiscore/pkg/db"
	"go.uber.org/zap"
)

func setup(t *testing.T) (domain.Service, snowflake.ID, snowflake.ID, snowflake.ID, *snowflake.Node) {
	t.Helper()

	gdb, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&leaguedomain.League{}, &leaguedomain.Member{}, &domain.GameType{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new snowflake node: %v", err)
	}
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	leagues := leaguerepo.NewRepository(gdb)
	svc := NewService(gdb, repository.NewRepository(gdb), leagues, node, clk, zap.NewNop())

	ctx := context.Background()
	leagueID := node.Generate()
	manager := node.Generate()
	member := node.Generate()

	err = leagues.CreateLeague(ctx, leaguedomain.League{
		ID:         leagueID,
		Name:       "Trivia",
		Slug:       "trivia-" + leagueID.String(),
		Visibility: leaguedomain.VisibilityPrivate,
		CreatedBy:  manager,
		CreatedAt:  clk.Now(),
		UpdatedAt:  clk.Now(),
	})
	if err != nil {
		t.Fatalf("seed league: %v", err)
	}
	for _, m := range []struct {
		id   snowflake.ID
		role leaguedomain.Role
	}{
		{manager, leaguedomain.RoleManager},
		{member, leaguedomain.RoleMember},
	} {
		err := leagues.AddMember(ctx, leaguedomain.Member{
			ID:        node.Generate(),
			LeagueID:  leagueID,
			UserID:    m.id,
			Role:      m.role,
			CreatedAt: clk.Now(),
		})
		if err != nil {
			t.Fatalf("add member: %v", err)
		}
	}

	return svc, leagueID, manager, member, node
}

func TestCreateGameTypeRequiresCapability(t *testing.T) {
	svc, leagueID, _, member, _ := setup(t)

	_, err := svc.Create(context.Background(), member, leagueID, domain.CreateRequest{
		Name:        "Darts",
		ScoringKind: domain.ScoringPoints,
	})
	if !errors.Is(err, leaguedomain.ErrForbidden) {
		t.Fatalf("member creating game type: got %v, want %v", err, leaguedomain.ErrForbidden)
	}
}

func TestCreateGameTypeValidation(t *testing.T) {
	svc, leagueID, manager, _, _ := setup(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, manager, leagueID, domain.CreateRequest{Name: " ", ScoringKind: domain.ScoringPoints}); !errors.Is(err, domain.ErrInvalidGameType) {
		t.Fatalf("blank name: got %v, want %v", err, domain.ErrInvalidGameType)
	}
	if _, err := svc.Create(ctx, manager, leagueID, domain.CreateRequest{Name: "Darts", ScoringKind: domain.ScoringKind("elo")}); !errors.Is(err, domain.ErrInvalidGameType) {
		t.Fatalf("bad scoring kind: got %v, want %v", err, domain.ErrInvalidGameType)
	}
}

func TestArchiveHidesFromDefaultList(t *testing.T) {
	svc, leagueID, manager, member, _ := setup(t)
	ctx := context.Background()

	gt, err := svc.Create(ctx, manager, leagueID, domain.CreateRequest{
		Name:        "Ping Pong",
		ScoringKind: domain.ScoringWinLoss,
	})
	if err != nil {
		t.Fatalf("create game type: %v", err)
	}

	if err := svc.Archive(ctx, manager, gt.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	if err := svc.Update(ctx, manager, gt.ID, domain.UpdateRequest{}); !errors.Is(err, domain.ErrGameTypeArchived) {
		t.Fatalf("update archived: got %v, want %v", err, domain.ErrGameTypeArchived)
	}

	visible, err := svc.List(ctx, member, leagueID, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(visible) != 0 {
		t.Fatalf("visible game types = %d, want 0", len(visible))
	}

	all, err := svc.List(ctx, member, leagueID, true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("all game types = %d, want 1", len(all))
	}
}
