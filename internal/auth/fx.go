package auth

import (
	"github.com/competiscore/competiscore/internal/auth/repository"
	"github.com/competiscore/competiscore/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
