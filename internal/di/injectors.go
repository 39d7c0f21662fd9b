//go:build wireinject
// +build wireinject

package di

import (
	"calsurf/internal"
	"calsurf/internal/controllers"
	"calsurf/internal/persistence"
	"calsurf/internal/providers"
	"calsurf/internal/services"
	"calsurf/internal/structures"
	"calsurf/internal/truetime"

	wire "github.com/google/wire"
)

var keeperSet = wire.NewSet(
	truetime.NewKeeperFromConfig,
	wire.Bind(new(services.CalendarSource), new(*truetime.Keeper)),
	wire.Bind(new(controllers.TimeKeeper), new(*truetime.Keeper)),
	wire.Bind(new(controllers.ReadinessChecker), new(*truetime.Keeper)),
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		keeperSet,
		services.NewLogService,
		wire.Bind(new(persistence.SnapshotSource), new(services.LogServiceInterface)),
		persistence.NewZstdCompressor,
		persistence.NewFileManager,
		persistence.NewScheduler,
		controllers.NewApiController,
		controllers.NewTimeController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

// InitKeeper builds only the clock reconciliation stack, for one-shot commands.
func InitKeeper(cfg *structures.CliFlags) (*truetime.Keeper, error) {
	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		truetime.NewKeeperFromConfig,
	)

	return nil, nil
}
