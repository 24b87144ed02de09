package gametype

import (
	"github.com/competiscore/competiscore/internal/gametype/repository"
	"github.com/competiscore/competiscore/internal/gametype/service"
	"go.uber.org/fx"
)

var Module = fx.Module("gametype.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
