package routes

import (
	"net/http"

	"github.com/chessclub/arena/handlers"
	"github.com/chessclub/arena/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	auth *middleware.AdminAuth,
	matchHandler *handlers.MatchHandler,
	standingsHandler *handlers.StandingsHandler,
	auditHandler *handlers.AuditHandler,
	syncHandler *handlers.SyncHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Public board and standings
	router.Get("/matches/live", matchHandler.ListLive)
	router.Get("/matches/archive", matchHandler.ListArchive)
	router.Get("/standings/{category}", standingsHandler.GetStandings)
	router.Get("/ws/board", webSocketHandler.Subscribe)

	// Admin console, gated on the external identity's email claim
	router.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireAdmin)

		r.Get("/matches", matchHandler.ListAll)
		r.Post("/matches/live", matchHandler.CreateLive)
		r.Post("/matches/scheduled", matchHandler.CreateScheduled)
		r.Post("/matches/stop-all", matchHandler.StopAll)
		r.Post("/matches/{id}/promote", matchHandler.Promote)
		r.Post("/matches/{id}/result", matchHandler.RecordResult)
		r.Post("/matches/{id}/toggle", matchHandler.ToggleStatus)
		r.Patch("/matches/{id}", matchHandler.Update)
		r.Delete("/matches/{id}", matchHandler.Delete)

		r.Post("/sync", syncHandler.Sync)
		r.Get("/audit", auditHandler.List)
	})
}
