package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/competiscore/competiscore/internal/auth"
	"github.com/competiscore/competiscore/internal/auth/session"
	"github.com/competiscore/competiscore/internal/clock"
	"github.com/competiscore/competiscore/internal/config"
	"github.com/competiscore/competiscore/internal/gametype"
	"github.com/competiscore/competiscore/internal/invitation"
	"github.com/competiscore/competiscore/internal/join"
	"github.com/competiscore/competiscore/internal/league"
	"github.com/competiscore/competiscore/internal/limits"
	"github.com/competiscore/competiscore/internal/match"
	"github.com/competiscore/competiscore/internal/migration"
	"github.com/competiscore/competiscore/internal/moderation"
	"github.com/competiscore/competiscore/internal/observability"
	"github.com/competiscore/competiscore/internal/ratelimit"
	"github.com/competiscore/competiscore/internal/server"
	"github.com/competiscore/competiscore/internal/team"
	"github.com/competiscore/competiscore/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		ratelimit.Module,

		auth.Module,
		session.Module,
		league.Module,
		limits.Module,
		join.Module,
		invitation.Module,
		moderation.Module,
		team.Module,
		gametype.Module,
		match.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
