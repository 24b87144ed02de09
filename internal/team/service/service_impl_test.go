package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/competiscore/competiscore/internal/clock"
	leaguedomain "github.com/competiscore/competiscore/internal/league/domain"
	leaguerepo "github.com/competiscore/competiscore/internal/league/repository"
	"github.com/competiscore/competiscore/internal/team/domain"
	"github.com/competiscore/competiscore/internal/team/repository"
	"github.com/competiscore/competiscore/pkg/db"
	"go.uber.org/zap"
)

type fixture struct {
	svc     domain.Service
	leagues leaguedomain.Repository
	node    *snowflake.Node
	clk     *clock.FakeClock

	leagueID  snowflake.ID
	executive snowflake.ID
	manager   snowflake.ID
	member    snowflake.ID
}

func setup(t *testing.T) *fixture {
	t.Helper()

	gdb, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = gdb.AutoMigrate(
		&leaguedomain.League{},
		&leaguedomain.Member{},
		&leaguedomain.Placeholder{},
		&domain.Team{},
		&domain.TeamMember{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new snowflake node: %v", err)
	}
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	leagues := leaguerepo.NewRepository(gdb)
	svc := NewService(gdb, repository.NewRepository(gdb), leagues, node, clk, zap.NewNop())

	f := &fixture{
		svc:       svc,
		leagues:   leagues,
		node:      node,
		clk:       clk,
		leagueID:  node.Generate(),
		executive: node.Generate(),
		manager:   node.Generate(),
		member:    node.Generate(),
	}

	ctx := context.Background()
	err = leagues.CreateLeague(ctx, leaguedomain.League{
		ID:         f.leagueID,
		Name:       "Kickball",
		Slug:       "kickball-" + f.leagueID.String(),
		Visibility: leaguedomain.VisibilityPrivate,
		CreatedBy:  f.executive,
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
		{f.executive, leaguedomain.RoleExecutive},
		{f.manager, leaguedomain.RoleManager},
		{f.member, leaguedomain.RoleMember},
	} {
		err := leagues.AddMember(ctx, leaguedomain.Member{
			ID:        node.Generate(),
			LeagueID:  f.leagueID,
			UserID:    m.id,
			Role:      m.role,
			CreatedAt: clk.Now(),
		})
		if err != nil {
			t.Fatalf("add member: %v", err)
		}
	}

	return f
}

func (f *fixture) createTeam(t *testing.T, captainID snowflake.ID) *domain.Team {
	t.Helper()
	team, err := f.svc.CreateTeam(context.Background(), f.manager, f.leagueID, domain.CreateTeamRequest{
		Name:      "Red Rockets",
		CaptainID: captainID,
	})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	return team
}

func TestCreateTeamRequiresManageTeams(t *testing.T) {
	f := setup(t)

	_, err := f.svc.CreateTeam(context.Background(), f.member, f.leagueID, domain.CreateTeamRequest{
		Name:      "Upstarts",
		CaptainID: f.member,
	})
	if !errors.Is(err, leaguedomain.ErrForbidden) {
		t.Fatalf("member creating team: got %v, want %v", err, leaguedomain.ErrForbidden)
	}
}

func TestCreateTeamSeedsCaptain(t *testing.T) {
	f := setup(t)
	team := f.createTeam(t, f.member)

	roster, err := f.svc.ListRoster(context.Background(), f.member, team.ID)
	if err != nil {
		t.Fatalf("list roster: %v", err)
	}
	if len(roster) != 1 || roster[0].Role != domain.TeamRoleCaptain || roster[0].ParticipantID != f.member {
		t.Fatalf("roster = %+v, want single captain slot for member", roster)
	}
}

func TestRosterManagementIsCaptainOnly(t *testing.T) {
	f := setup(t)
	team := f.createTeam(t, f.member)
	ctx := context.Background()

	// League rank does not substitute for a team role.
	_, err := f.svc.AddSlot(ctx, f.executive, team.ID, domain.AddSlotRequest{
		SlotKind:      domain.SlotUser,
		ParticipantID: f.manager,
	})
	if !errors.Is(err, domain.ErrNotTeamCaptain) {
		t.Fatalf("executive managing roster: got %v, want %v", err, domain.ErrNotTeamCaptain)
	}

	slot, err := f.svc.AddSlot(ctx, f.member, team.ID, domain.AddSlotRequest{
		SlotKind:      domain.SlotUser,
		ParticipantID: f.manager,
	})
	if err != nil {
		t.Fatalf("captain adding slot: %v", err)
	}
	if slot.Role != domain.TeamRolePlayer {
		t.Fatalf("slot role = %s, want %s", slot.Role, domain.TeamRolePlayer)
	}

	// Plain players cannot manage the roster either.
	_, err = f.svc.AddSlot(ctx, f.manager, team.ID, domain.AddSlotRequest{
		SlotKind:      domain.SlotUser,
		ParticipantID: f.executive,
	})
	if !errors.Is(err, domain.ErrNotTeamCaptain) {
		t.Fatalf("player managing roster: got %v, want %v", err, domain.ErrNotTeamCaptain)
	}
}

func TestDuplicateSlotRejected(t *testing.T) {
	f := setup(t)
	team := f.createTeam(t, f.member)
	ctx := context.Background()

	if _, err := f.svc.AddSlot(ctx, f.member, team.ID, domain.AddSlotRequest{
		SlotKind:      domain.SlotUser,
		ParticipantID: f.manager,
	}); err != nil {
		t.Fatalf("add slot: %v", err)
	}

	_, err := f.svc.AddSlot(ctx, f.member, team.ID, domain.AddSlotRequest{
		SlotKind:      domain.SlotUser,
		ParticipantID: f.manager,
	})
	if !errors.Is(err, domain.ErrDuplicateSlot) {
		t.Fatalf("duplicate slot: got %v, want %v", err, domain.ErrDuplicateSlot)
	}
}

func TestPlaceholderFillsSlotButNeverCaptains(t *testing.T) {
	f := setup(t)
	team := f.createTeam(t, f.member)
	ctx := context.Background()

	placeholderID := f.node.Generate()
	err := f.leagues.CreatePlaceholder(ctx, leaguedomain.Placeholder{
		ID:          placeholderID,
		LeagueID:    f.leagueID,
		DisplayName: "Ringer",
		CreatedAt:   f.clk.Now(),
	})
	if err != nil {
		t.Fatalf("seed placeholder: %v", err)
	}

	if _, err := f.svc.AddSlot(ctx, f.member, team.ID, domain.AddSlotRequest{
		SlotKind:      domain.SlotPlaceholder,
		ParticipantID: placeholderID,
	}); err != nil {
		t.Fatalf("placeholder slot: %v", err)
	}

	_, err = f.svc.AddSlot(ctx, f.member, team.ID, domain.AddSlotRequest{
		SlotKind:      domain.SlotPlaceholder,
		ParticipantID: placeholderID,
		Role:          domain.TeamRoleCaptain,
	})
	if !errors.Is(err, domain.ErrInvalidTeamRole) && !errors.Is(err, domain.ErrDuplicateSlot) {
		t.Fatalf("placeholder captain: got %v", err)
	}
}

func TestRemoveLastCaptainRejected(t *testing.T) {
	f := setup(t)
	team := f.createTeam(t, f.member)
	ctx := context.Background()

	roster, err := f.svc.ListRoster(ctx, f.member, team.ID)
	if err != nil {
		t.Fatalf("list roster: %v", err)
	}

	err = f.svc.RemoveSlot(ctx, f.member, team.ID, roster[0].ID)
	if !errors.Is(err, domain.ErrLastCaptain) {
		t.Fatalf("remove last captain: got %v, want %v", err, domain.ErrLastCaptain)
	}
}

func TestDeleteTeamRequiresLeagueCapability(t *testing.T) {
	f := setup(t)
	team := f.createTeam(t, f.member)
	ctx := context.Background()

	// Even the captain cannot delete the team without manage_teams.
	if err := f.svc.DeleteTeam(ctx, f.member, team.ID); !errors.Is(err, leaguedomain.ErrForbidden) {
		t.Fatalf("captain deleting team: got %v, want %v", err, leaguedomain.ErrForbidden)
	}

	if err := f.svc.DeleteTeam(ctx, f.manager, team.ID); err != nil {
		t.Fatalf("manager deleting team: %v", err)
	}

	if _, err := f.svc.ListRoster(ctx, f.member, team.ID); !errors.Is(err, domain.ErrTeamNotFound) {
		t.Fatalf("roster after delete: got %v, want %v", err, domain.ErrTeamNotFound)
	}
}
