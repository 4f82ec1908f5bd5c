package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ContestantRequest is the admin create body. ImageURL points at an already
// hosted image; uploading is not this server's concern.
type ContestantRequest struct {
	Number    string `json:"number"`
	Name      string `json:"name"`
	Character string `json:"character"`
	ImageURL  string `json:"imageUrl"`
}

func handleAdminListContestants(store Store) http.HandlerFunc {
	return handleListContestants(store)
}

func handleAdminCreateContestant(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ContestantRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Number = strings.TrimSpace(req.Number)
		req.Name = strings.TrimSpace(req.Name)
		if req.Number == "" || req.Name == "" {
			writeError(w, http.StatusBadRequest, "number and name are required")
			return
		}

		c, err := store.CreateContestant(r.Context(), req.Number, req.Name,
			strings.TrimSpace(req.Character), strings.TrimSpace(req.ImageURL))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, contestantInfo(c))
	}
}

// handleAdminDeleteContestant removes a contestant and, in the same
// transaction, every score referencing it. The control state is republished
// in case the deleted contestant was on stage.
func handleAdminDeleteContestant(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		err := store.DeleteContestantCascade(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "contestant not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "cascade delete failed, safe to retry")
			return
		}

		if resp, err := controlResponse(r.Context(), store); err == nil {
			broker.Publish(Event{Type: "control", Control: &resp})
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
