package web

import (
	"time"

	"github.com/darshanscodesoftwares/chess-arbiter/controller"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/unrolled/render"
)

func getRouter(ctrl controller.C, render *render.Render, cfg Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(15 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Post("/admin/login", adminLoginHandler(cfg.AdminPassword, render))

		r.Route("/tournament", func(r chi.Router) {
			// Scrapes of the upstream site are slow, give them more room.
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/keys", tournamentKeysHandler(ctrl, render))
			r.Post("/pairings", tournamentPairingsHandler(ctrl, render))
			r.Get("/list", tournamentListHandler(ctrl, render))
			r.Get("/merged-results", mergedResultsHandler(ctrl, render))
			r.Post("/xml", exportXMLHandler(ctrl, render))
		})

		r.Route("/arbiters", func(r chi.Router) {
			r.Get("/", listArbitersHandler(ctrl, render))
			r.Post("/", addArbiterHandler(ctrl, render))
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Get("/", listAssignmentsHandler(ctrl, render))
			r.Post("/", createAssignmentHandler(ctrl, render, cfg.PublicBaseURL))
			r.Get("/availability", availabilityHandler(ctrl, render))

			r.Route("/by-token/{token}", func(r chi.Router) {
				r.Get("/", getAssignmentHandler(ctrl, render))
				r.Post("/results", recordResultsHandler(ctrl, render))
				r.Post("/submit", submitAssignmentHandler(ctrl, render))
			})
		})
	})

	return r
}
