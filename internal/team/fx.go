package team

import (
	"github.com/competiscore/competiscore/internal/team/repository"
	"github.com/competiscore/competiscore/internal/team/service"
	"go.uber.org/fx"
)

var Module = fx.Module("team.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
