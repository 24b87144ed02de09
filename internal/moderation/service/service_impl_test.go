package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/competiscore/competiscore/internal/clock"
	"github.com/competiscore/competiscore/internal/config"
	leaguedomain "github.com/competiscore/competiscore/internal/league/domain"
	leaguerepo "github.com/competiscore/competiscore/internal/league/repository"
	"github.com/competiscore/competiscore/internal/moderation/domain"
	"github.com/competiscore/competiscore/internal/moderation/repository"
	"github.com/competiscore/competiscore/pkg/db"
	"go.uber.org/zap"
)

type fixture struct {
	svc     domain.Service
	repo    domain.Repository
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
		&domain.Report{},
		&domain.ModerationAction{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new snowflake node: %v", err)
	}

	plans := config.NewStaticPlanConfigHolder(config.PlanConfig{
		MaxLeaguesPerUser:   10,
		MaxMembersPerLeague: 50,
		MaxSuspensionDays:   90,
		InviteTTLDays:       14,
	})
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	leagues := leaguerepo.NewRepository(gdb)
	repo := repository.NewRepository(gdb)
	svc := NewService(gdb, repo, leagues, plans, node, clk, zap.NewNop())

	f := &fixture{
		svc:       svc,
		repo:      repo,
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
		Name:       "Card Night",
		Slug:       "card-night-" + f.leagueID.String(),
		Visibility: leaguedomain.VisibilityPrivate,
		CreatedBy:  f.executive,
		CreatedAt:  clk.Now(),
		UpdatedAt:  clk.Now(),
	})
	if err != nil {
		t.Fatalf("seed league: %v", err)
	}
	f.addMember(t, f.executive, leaguedomain.RoleExecutive)
	f.addMember(t, f.manager, leaguedomain.RoleManager)
	f.addMember(t, f.member, leaguedomain.RoleMember)

	return f
}

func (f *fixture) addMember(t *testing.T, userID snowflake.ID, role leaguedomain.Role) {
	t.Helper()
	err := f.leagues.AddMember(context.Background(), leaguedomain.Member{
		ID:        f.node.Generate(),
		LeagueID:  f.leagueID,
		UserID:    userID,
		Role:      role,
		CreatedAt: f.clk.Now(),
	})
	if err != nil {
		t.Fatalf("add member: %v", err)
	}
}

func (f *fixture) report(t *testing.T, reporter, reported snowflake.ID) *domain.Report {
	t.Helper()
	report, err := f.svc.SubmitReport(context.Background(), reporter, f.leagueID, domain.SubmitReportRequest{
		ReportedID: reported,
		Reason:     domain.ReasonNoShow,
	})
	if err != nil {
		t.Fatalf("submit report: %v", err)
	}
	return report
}

func days(n int) *int { return &n }

func TestSubmitReportRejectsSelfReport(t *testing.T) {
	f := setup(t)

	_, err := f.svc.SubmitReport(context.Background(), f.member, f.leagueID, domain.SubmitReportRequest{
		ReportedID: f.member,
		Reason:     domain.ReasonCheating,
	})
	if !errors.Is(err, domain.ErrSelfReport) {
		t.Fatalf("self report: got %v, want %v", err, domain.ErrSelfReport)
	}
}

func TestSubmitReportRejectsDuplicatePending(t *testing.T) {
	f := setup(t)
	f.report(t, f.member, f.manager)

	_, err := f.svc.SubmitReport(context.Background(), f.member, f.leagueID, domain.SubmitReportRequest{
		ReportedID: f.manager,
		Reason:     domain.ReasonHarassment,
	})
	if !errors.Is(err, domain.ErrDuplicateReport) {
		t.Fatalf("duplicate report: got %v, want %v", err, domain.ErrDuplicateReport)
	}
}

func TestSubmitReportRejectsUnknownReason(t *testing.T) {
	f := setup(t)

	_, err := f.svc.SubmitReport(context.Background(), f.member, f.leagueID, domain.SubmitReportRequest{
		ReportedID: f.manager,
		Reason:     domain.Reason("vibes"),
	})
	if !errors.Is(err, domain.ErrInvalidReason) {
		t.Fatalf("unknown reason: got %v, want %v", err, domain.ErrInvalidReason)
	}
}

func TestSuspensionDerivedFromActionLog(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.TakeAction(ctx, f.executive, f.leagueID, domain.ActionRequest{
		TargetID:       f.member,
		ActionType:     domain.ActionSuspended,
		Reason:         "repeated no-shows",
		SuspensionDays: days(7),
	})
	if err != nil {
		t.Fatalf("suspend: %v", err)
	}

	until, err := f.svc.SuspendedUntil(ctx, f.leagueID, f.member)
	if err != nil {
		t.Fatalf("suspended until: %v", err)
	}
	want := f.clk.Now().UTC().Add(7 * 24 * time.Hour)
	if until == nil || !until.Equal(want) {
		t.Fatalf("suspendedUntil = %v, want %v", until, want)
	}

	// Suspended members cannot file reports.
	_, err = f.svc.SubmitReport(ctx, f.member, f.leagueID, domain.SubmitReportRequest{
		ReportedID: f.manager,
		Reason:     domain.ReasonOther,
	})
	if !errors.Is(err, domain.ErrReporterSuspended) {
		t.Fatalf("suspended reporter: got %v, want %v", err, domain.ErrReporterSuspended)
	}

	// The state clears on its own once the window passes.
	f.clk.Advance(8 * 24 * time.Hour)
	until, err = f.svc.SuspendedUntil(ctx, f.leagueID, f.member)
	if err != nil {
		t.Fatalf("suspended until after lapse: %v", err)
	}
	if until != nil {
		t.Fatalf("suspendedUntil = %v, want nil after window", until)
	}
}

func TestOverlappingSuspensionsUseMax(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, d := range []int{3, 10, 5} {
		_, err := f.svc.TakeAction(ctx, f.executive, f.leagueID, domain.ActionRequest{
			TargetID:       f.member,
			ActionType:     domain.ActionSuspended,
			SuspensionDays: days(d),
		})
		if err != nil {
			t.Fatalf("suspend %d days: %v", d, err)
		}
	}

	until, err := f.svc.SuspendedUntil(ctx, f.leagueID, f.member)
	if err != nil {
		t.Fatalf("suspended until: %v", err)
	}
	want := f.clk.Now().UTC().Add(10 * 24 * time.Hour)
	if until == nil || !until.Equal(want) {
		t.Fatalf("suspendedUntil = %v, want %v", until, want)
	}
}

func TestSuspensionDaysBounds(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	cases := []*int{nil, days(0), days(91)}
	for _, d := range cases {
		_, err := f.svc.TakeAction(ctx, f.executive, f.leagueID, domain.ActionRequest{
			TargetID:       f.member,
			ActionType:     domain.ActionSuspended,
			SuspensionDays: d,
		})
		if !errors.Is(err, domain.ErrInvalidSuspension) {
			t.Fatalf("suspension days %v: got %v, want %v", d, err, domain.ErrInvalidSuspension)
		}
	}

	// Days are forbidden on non-suspension actions.
	_, err := f.svc.TakeAction(ctx, f.executive, f.leagueID, domain.ActionRequest{
		TargetID:       f.member,
		ActionType:     domain.ActionWarned,
		SuspensionDays: days(3),
	})
	if !errors.Is(err, domain.ErrInvalidSuspension) {
		t.Fatalf("days on warning: got %v, want %v", err, domain.ErrInvalidSuspension)
	}
}

func TestManagerCannotModerateExecutive(t *testing.T) {
	f := setup(t)

	_, err := f.svc.TakeAction(context.Background(), f.manager, f.leagueID, domain.ActionRequest{
		TargetID:   f.executive,
		ActionType: domain.ActionWarned,
	})
	if !errors.Is(err, domain.ErrCannotModerate) {
		t.Fatalf("manager vs executive: got %v, want %v", err, domain.ErrCannotModerate)
	}
}

func TestExecutiveCanModerateExecutive(t *testing.T) {
	f := setup(t)
	other := f.node.Generate()
	f.addMember(t, other, leaguedomain.RoleExecutive)

	_, err := f.svc.TakeAction(context.Background(), f.executive, f.leagueID, domain.ActionRequest{
		TargetID:   other,
		ActionType: domain.ActionWarned,
	})
	if err != nil {
		t.Fatalf("executive vs executive: %v", err)
	}
}

func TestNobodyModeratesThemselves(t *testing.T) {
	f := setup(t)

	_, err := f.svc.TakeAction(context.Background(), f.executive, f.leagueID, domain.ActionRequest{
		TargetID:   f.executive,
		ActionType: domain.ActionWarned,
	})
	if !errors.Is(err, domain.ErrCannotModerate) {
		t.Fatalf("self moderation: got %v, want %v", err, domain.ErrCannotModerate)
	}
}

func TestMemberCannotModerate(t *testing.T) {
	f := setup(t)

	_, err := f.svc.TakeAction(context.Background(), f.member, f.leagueID, domain.ActionRequest{
		TargetID:   f.manager,
		ActionType: domain.ActionWarned,
	})
	if !errors.Is(err, leaguedomain.ErrForbidden) {
		t.Fatalf("member moderating: got %v, want %v", err, leaguedomain.ErrForbidden)
	}
}

func TestManagerCannotRemove(t *testing.T) {
	f := setup(t)

	_, err := f.svc.TakeAction(context.Background(), f.manager, f.leagueID, domain.ActionRequest{
		TargetID:   f.member,
		ActionType: domain.ActionRemoved,
	})
	if !errors.Is(err, leaguedomain.ErrForbidden) {
		t.Fatalf("manager removing: got %v, want %v", err, leaguedomain.ErrForbidden)
	}
}

func TestRemovalDeletesMembershipAndResolvesReport(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	report := f.report(t, f.manager, f.member)

	action, err := f.svc.TakeAction(ctx, f.executive, f.leagueID, domain.ActionRequest{
		ReportID:   &report.ID,
		TargetID:   f.member,
		ActionType: domain.ActionRemoved,
		Reason:     "persistent harassment",
	})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if action.ReportID == nil || *action.ReportID != report.ID {
		t.Fatalf("action not linked to report: %+v", action)
	}

	if _, err := f.leagues.GetMember(ctx, f.leagueID, f.member); !errors.Is(err, leaguedomain.ErrMemberNotFound) {
		t.Fatalf("membership after removal: got %v, want %v", err, leaguedomain.ErrMemberNotFound)
	}

	stored, err := f.repo.GetReport(ctx, report.ID)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if stored.Status != domain.ReportResolved {
		t.Fatalf("report status = %s, want %s", stored.Status, domain.ReportResolved)
	}
}

func TestActionOnResolvedReportRejected(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	report := f.report(t, f.manager, f.member)

	if _, err := f.svc.TakeAction(ctx, f.executive, f.leagueID, domain.ActionRequest{
		ReportID:   &report.ID,
		TargetID:   f.member,
		ActionType: domain.ActionDismissed,
	}); err != nil {
		t.Fatalf("dismiss: %v", err)
	}

	_, err := f.svc.TakeAction(ctx, f.executive, f.leagueID, domain.ActionRequest{
		ReportID:   &report.ID,
		TargetID:   f.member,
		ActionType: domain.ActionWarned,
	})
	if !errors.Is(err, domain.ErrReportResolved) {
		t.Fatalf("action on resolved report: got %v, want %v", err, domain.ErrReportResolved)
	}
}

func TestGetOwnHistoryNewestFirst(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for i, reason := range []string{"first", "second"} {
		if _, err := f.svc.TakeAction(ctx, f.executive, f.leagueID, domain.ActionRequest{
			TargetID:   f.member,
			ActionType: domain.ActionWarned,
			Reason:     reason,
		}); err != nil {
			t.Fatalf("warn %d: %v", i, err)
		}
		f.clk.Advance(time.Hour)
	}

	history, err := f.svc.GetOwnHistory(ctx, f.member, f.leagueID)
	if err != nil {
		t.Fatalf("own history: %v", err)
	}
	if len(history.Warnings) != 2 {
		t.Fatalf("warnings = %d, want 2", len(history.Warnings))
	}
	if history.Warnings[0].Reason != "second" {
		t.Fatalf("first warning = %q, want newest first", history.Warnings[0].Reason)
	}
	if history.SuspendedUntil != nil {
		t.Fatalf("suspendedUntil = %v, want nil", history.SuspendedUntil)
	}
}
