package league

import (
	"github.com/competiscore/competiscore/internal/league/repository"
	"github.com/competiscore/competiscore/internal/league/service"
	"go.uber.org/fx"
)

var Module = fx.Module("league.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
