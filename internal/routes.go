package internal

import (
	"calsurf/internal/controllers"
	"calsurf/internal/providers"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController, timeController *controllers.TimeController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/time", http.HandlerFunc(timeController.Now))
	routers.Get("/time/label", http.HandlerFunc(timeController.Label))
	routers.Post("/time/resync", http.HandlerFunc(timeController.Resync))

	routers.Post("/logs", http.HandlerFunc(apiController.AddLog))
	routers.Get("/logs", http.HandlerFunc(apiController.GetLogs))
	routers.Post("/logs/toggle", http.HandlerFunc(apiController.ToggleEaten))
	routers.Post("/logs/delete", http.HandlerFunc(apiController.DeleteLog))
	routers.Delete("/logs/delete", http.HandlerFunc(apiController.DeleteLog))

	routers.Get("/history", http.HandlerFunc(apiController.GetHistory))
	routers.Get("/stats", http.HandlerFunc(apiController.GetStats))
	return routers
}
