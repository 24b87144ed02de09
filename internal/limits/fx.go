package limits

import (
	"github.com/competiscore/competiscore/internal/league/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("limits",
	fx.Provide(func(r domain.Repository) Counters { return r }),
	fx.Provide(NewGate),
)
