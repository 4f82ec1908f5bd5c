package server

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/Yadyoyollo/rabopkanean-app/internal/contest"
)

func addRoutes(r chi.Router, logger *slog.Logger, db *sql.DB, store Store, broker *Broker, orch *Orchestrator, opts Options) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Contest Judging API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	r.Route("/api", func(r chi.Router) {
		// Sessions.
		r.Post("/login", handleLogin(store))
		r.Post("/logout", handleLogout(store))
		r.Get("/me", handleMe(store))

		// Audience-readable live views.
		r.Get("/state", handleState(store))
		r.Get("/events", handleEvents(store, broker))
		r.Get("/contestants", handleListContestants(store))
		r.Get("/results", handleResults(store))

		// Judge scoring.
		r.Route("/judge", func(r chi.Router) {
			r.Use(requireRole(store, contest.RoleJudge))
			r.Post("/scores", handleSubmitScore(store, opts.ScoreMax))
			r.Get("/scores", handleJudgeScores(store))
		})

		// Admin control surface.
		r.Route("/admin", func(r chi.Router) {
			r.Use(requireRole(store, contest.RoleAdmin))

			r.Post("/transition", handleTransition(store, orch, opts.CountdownSeconds))
			r.Post("/transition/cancel", handleTransitionCancel(store, orch))
			r.Post("/stage/clear", handleClearStage(store, orch, broker))
			r.Post("/video", handleVideo(store, broker))
			r.Post("/aggregate", handleAggregate(store, broker))

			r.Get("/contestants", handleAdminListContestants(store))
			r.Post("/contestants", handleAdminCreateContestant(store))
			r.Delete("/contestants/{id}", handleAdminDeleteContestant(store, broker))

			r.Get("/judges", handleAdminListJudges(store))
			r.Post("/judges", handleAdminCreateJudge(store))
			r.Delete("/judges/{id}", handleAdminDeleteJudge(store))
		})
	})
}
