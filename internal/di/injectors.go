//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"msver/internal"
	"msver/internal/controllers"
	"msver/internal/harvest"
	"msver/internal/providers"
	"msver/internal/services"
	"msver/internal/storage"
	"msver/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewHttpProvider,

		storage.NewOffice365Store,
		storage.NewWindowsStore,

		harvest.NewOffice365Harvester,
		harvest.NewWindowsHarvester,
		harvest.NewScheduler,

		services.NewOffice365Service,
		services.NewWindowsVersionsService,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
