package server

import (
	"errors"
	"net/http"

	"github.com/Yadyoyollo/rabopkanean-app/internal/contest"
)

// TransitionRequest asks the orchestrator to count down into a new stage
// state. Navigation actions change the contestant and preserve the flags;
// toggles keep the contestant and flip one flag.
type TransitionRequest struct {
	Action contest.Action `json:"action"`
}

func handleTransition(store Store, orch *Orchestrator, seconds int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TransitionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		state, err := store.ControlState(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		contestants, err := store.ListContestants(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		t, err := contest.PlanTransition(state, contestants, req.Action, seconds)
		if errors.Is(err, contest.ErrNoContestants) {
			writeError(w, http.StatusConflict, "no contestants to transition to")
			return
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown transition action")
			return
		}

		err = orch.Start(r.Context(), t)
		if errors.Is(err, ErrCountdownActive) {
			writeError(w, http.StatusConflict, "a transition is already in progress")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp, err := controlResponse(r.Context(), store)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleTransitionCancel(store Store, orch *Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := orch.Cancel(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp, err := controlResponse(r.Context(), store)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// handleClearStage blanks the stage immediately, without a countdown. Any
// in-flight transition is discarded, an intentional exception to the
// transition protocol.
func handleClearStage(store Store, orch *Orchestrator, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orch.Stop()

		state, err := store.ControlState(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		state = state.Cancel()
		state.CurrentContestantID = ""
		if err := store.SaveControlState(r.Context(), state); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp, err := controlResponse(r.Context(), store)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		broker.Publish(Event{Type: "control", Control: &resp})
		writeJSON(w, http.StatusOK, resp)
	}
}
