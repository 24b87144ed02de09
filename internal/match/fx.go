package match

import (
	"github.com/competiscore/competiscore/internal/match/repository"
	"github.com/competiscore/competiscore/internal/match/service"
	"go.uber.org/fx"
)

var Module = fx.Module("match.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
