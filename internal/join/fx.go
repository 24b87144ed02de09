package join

import "go.uber.org/fx"

var Module = fx.Module("join",
	fx.Provide(NewOrchestrator),
)
