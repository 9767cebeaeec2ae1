package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler returns the API router. throttle wraps the routes that send mail
// (trip creation, trip confirmation, invites); pass nil to leave them
// unthrottled.
func (s *Server) Handler(throttle func(http.Handler) http.Handler) http.Handler {
	if throttle == nil {
		throttle = func(next http.Handler) http.Handler { return next }
	}

	r := chi.NewRouter()
	r.NotFound(s.notFound)
	r.MethodNotAllowed(s.methodNotAllowed)

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/trips", func(r chi.Router) {
		r.With(throttle).Post("/", s.CreateTrip)

		r.Route("/{tripId}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)
			r.With(throttle).Get("/confirm", s.ConfirmTrip)

			r.Get("/participants", s.ListParticipants)
			r.Get("/participants/{participantId}", s.GetTripParticipant)
			r.With(throttle).Post("/invites", s.CreateInvite)

			r.Post("/activities", s.CreateActivity)
			r.Get("/activities", s.ListActivities)
			r.Get("/itinerary", s.GetItinerary)

			r.Post("/links", s.CreateLink)
			r.Get("/links", s.ListLinks)
		})
	})

	r.Route("/participants/{participantId}", func(r chi.Router) {
		r.Get("/", s.GetParticipant)
		r.Patch("/confirm", s.ConfirmParticipant)
	})

	return r
}

func (s *Server) notFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, errorBody("not_found", "route not found"))
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed", "method not allowed"))
}
