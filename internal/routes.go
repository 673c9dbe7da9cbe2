package internal

import (
	"net/http"

	"msver/internal/controllers"
	"msver/internal/providers"
	"msver/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/api/office365/latest", http.HandlerFunc(apiController.GetOffice365Latest))
	routers.Get("/api/office365/history", http.HandlerFunc(apiController.GetOffice365History))
	routers.Get("/api/office365/channel", http.HandlerFunc(apiController.GetOffice365Channel))
	routers.Post("/api/office365/refresh", http.HandlerFunc(apiController.RefreshOffice365))

	routers.Get("/api/windows/versions", http.HandlerFunc(apiController.GetWindowsVersions))
	routers.Get("/api/windows/updates", http.HandlerFunc(apiController.GetWindowsUpdates))
	routers.Get("/api/windows/summary", http.HandlerFunc(apiController.GetWindowsSummary))
	routers.Post("/api/windows/refresh", http.HandlerFunc(apiController.RefreshWindows))

	routers.Get("/api/lastupdate", http.HandlerFunc(apiController.GetLastUpdate))
	return routers
}
