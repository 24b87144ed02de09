package moderation

import (
	"github.com/competiscore/competiscore/internal/moderation/repository"
	"github.com/competiscore/competiscore/internal/moderation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("moderation.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
