package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"portals_watcher/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Get("/", s.getRoot)
	r.Get("/healthz", s.getHealthz)
	r.Get("/webapp", s.getWebApp)
	r.Get("/status", handler(s.getStatus))

	r.Route("/v1", func(r chi.Router) {
		// Telegram WebApp zone
		r.Group(func(r chi.Router) {
			r.Use(s.auth.Middleware)

			r.Route("/subscriptions", func(r chi.Router) {
				r.Get("/", handler(s.getV1Subscriptions))
				r.Put("/", handler(s.putV1Subscription))
				r.Delete("/{collection}", handler(s.deleteV1Subscription))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
