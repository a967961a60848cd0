package components

import (
	"log/slog"

	"fleetbook/internal/domain/reservation"
	"fleetbook/internal/infra/distance"
	"fleetbook/internal/pkg/clock"
	"fleetbook/internal/pkg/config"
	"fleetbook/internal/usecase/commands"
	"fleetbook/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) config.DistanceConfig { return cfg.Distance },
	func(cfg config.Config) config.SweeperConfig { return cfg.Sweeper },
	func(cfg config.Config) config.ReservationConfig { return cfg.Reservation },
	fx.Annotate(
		distance.NewOpenRouteClient,
		fx.As(new(reservation.DistanceProvider)),
	),
	func(provider reservation.DistanceProvider, logger *slog.Logger) *reservation.Pricer {
		return reservation.NewPricer(provider, logger)
	},
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
		queries.NewVehicleQueries,
		queries.NewPricingQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationCommands,
		commands.NewVehicleCommands,
		commands.NewCouponCommands,
		commands.NewSweeperCommands,
	),
)
