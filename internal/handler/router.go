package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the full route table with the global middleware stack.
func NewRouter(h *EventHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger)
	r.Use(CORS)

	r.Get("/", Home)
	r.Get("/health", HealthCheck)

	r.Route("/events", func(r chi.Router) {
		r.Post("/", h.CreateEvent)
		r.Get("/", h.ListEvents)

		r.Route("/{eventID}", func(r chi.Router) {
			r.Get("/", h.GetEvent)
			r.Put("/", h.UpdateEvent)
			r.Delete("/", h.DeleteEvent)

			r.Route("/participants", func(r chi.Router) {
				r.Post("/", h.AddParticipant)
				r.Get("/", h.ListParticipants)
				r.Get("/{participantID}", h.GetParticipant)
				r.Put("/{participantID}", h.UpdateParticipant)
				r.Delete("/{participantID}", h.DeleteParticipant)
			})
		})
	})

	return r
}
