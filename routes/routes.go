package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mediaarena/arena/handlers"
)

func SetupRoutes(
	router *chi.Mux,
	sessionHandler *handlers.SessionHandler,
	webSocketHandler *handlers.WebSocketHandler,
	allowedOrigins []string,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/sessions", func(r chi.Router) {
		r.Post("/", sessionHandler.CreateHandler)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", sessionHandler.GetViewHandler)
			r.Delete("/", sessionHandler.DeleteHandler)
			r.Post("/votes", sessionHandler.VoteHandler)
			r.Get("/ranking", sessionHandler.RankingHandler)
		})
	})

	router.Get("/ws/sessions/{sessionID}", webSocketHandler.ServeWs)
}
