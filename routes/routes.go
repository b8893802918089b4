package routes

import (
	"github.com/deckvault/match-tracker/handlers"
	"github.com/deckvault/match-tracker/metrics"
	"github.com/deckvault/match-tracker/middleware"
	"github.com/deckvault/match-tracker/services"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	publicHandler *handlers.PublicHandler,
	authHandler *handlers.AuthHandler,
	adminHandler *handlers.AdminHandler,
	webSocketHandler *handlers.WebSocketHandler,
	authService services.AdminAuthService,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.AdminSecretHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", publicHandler.Healthz)
	router.Method("GET", "/metrics", metrics.Handler())

	router.Get("/events", publicHandler.GetEvents)
	router.Get("/events/{eventID}/summary", publicHandler.GetEventSummary)
	router.Get("/decks", publicHandler.GetDecks)
	router.Get("/players", publicHandler.GetPlayers)
	router.Post("/submit", publicHandler.Submit)
	router.Get("/lookup", publicHandler.Lookup)

	router.Get("/ws/events/{eventID}", webSocketHandler.ServeWs)

	router.Route("/admin", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)

		// Everything else under /admin needs the possession credential.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(authService))

			r.Get("/events", adminHandler.GetEvents)
			r.Post("/events", adminHandler.CreateEvent)
			r.Patch("/events/{eventID}", adminHandler.RenameEvent)
			r.Get("/events/{eventID}/entries", adminHandler.GetEventEntries)

			r.Patch("/entries/{entryID}", adminHandler.UpdateEntry)
			r.Delete("/entries/{entryID}", adminHandler.DeleteEntry)

			r.Get("/players", adminHandler.GetPlayers)
			r.Patch("/players/{playerID}", adminHandler.RenamePlayer)
			r.Delete("/players/{playerID}", adminHandler.DeletePlayer)

			r.Get("/events/{eventID}/validation", adminHandler.GetValidationStatus)
			r.Post("/events/{eventID}/validation/import", adminHandler.ImportValidationRoster)
			r.Delete("/events/{eventID}/validation", adminHandler.ClearValidationRoster)
		})
	})
}
