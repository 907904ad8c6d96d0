package runner

import "go.uber.org/fx"

var Module = fx.Module("runner", fx.Provide(
	fx.Annotate(
		func() *Shell { return New(Options{}) },
		fx.As(new(Runner)),
	),
))
