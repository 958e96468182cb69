package bootstrap

import (
	"lab-booking-api/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	InfrastructureModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
