package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/Yadyoyollo/rabopkanean-app/internal/contest"
)

// SnapshotResponse is the persisted aggregate result set consumed by the
// summary and audience views.
type SnapshotResponse struct {
	Results     []contest.Result `json:"results"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// handleAggregate recomputes the standings from all scores and overwrites the
// persisted snapshot. This is the only way results become visible: a manual,
// admin-triggered recompute, not a reaction to every submission.
func handleAggregate(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contestants, err := store.ListContestants(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		judges, err := store.ListUsers(r.Context(), contest.RoleJudge)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		scores, err := store.ListScores(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		snap := contest.Snapshot{
			Results:     contest.Aggregate(contestants, judges, scores),
			GeneratedAt: time.Now().UTC(),
		}
		if err := store.SaveSnapshot(r.Context(), snap); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(Event{Type: "summary"})
		writeJSON(w, http.StatusOK, SnapshotResponse(snap))
	}
}

// handleResults serves the latest snapshot to any viewer; 404 until the admin
// has aggregated at least once.
func handleResults(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := store.Snapshot(r.Context())
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "no results have been aggregated yet")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, SnapshotResponse(snap))
	}
}
