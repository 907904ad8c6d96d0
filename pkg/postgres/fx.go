package postgres

import (
	"github.com/pierreforstmann/pg-kit/pkg/config"
	"go.uber.org/fx"
)

var Module = fx.Module("postgres", fx.Provide(
	fx.Annotate(
		func(cfg *config.Config) *ClientDialer { return NewDialer(cfg) },
		fx.As(new(Dialer)),
	),
))
