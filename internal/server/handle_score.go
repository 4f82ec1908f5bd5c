package server

import (
	"errors"
	"net/http"

	"github.com/Yadyoyollo/rabopkanean-app/internal/contest"
)

// ScoreRequest is one judge's submission for one contestant. Every category
// must be scored within 1..max and a keep decision chosen; the record is
// write-once.
type ScoreRequest struct {
	ContestantID string `json:"contestantId"`
	Personality  int    `json:"personality"`
	Walking      int    `json:"walking"`
	Attire       int    `json:"attire"`
	Language     int    `json:"language"`
	Overall      int    `json:"overall"`
	KeepStatus   string `json:"keepStatus"`
}

type ScoreResponse struct {
	ContestantID string `json:"contestantId"`
	Total        int    `json:"total"`
	KeepStatus   string `json:"keepStatus"`
	SubmittedAt  string `json:"submittedAt"`
}

func handleSubmitScore(store Store, scoreMax int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		judge := userFrom(r)

		var req ScoreRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ContestantID == "" {
			writeError(w, http.StatusBadRequest, "contestantId is required")
			return
		}

		categories := contest.CategoryScores{
			Personality: req.Personality,
			Walking:     req.Walking,
			Attire:      req.Attire,
			Language:    req.Language,
			Overall:     req.Overall,
		}
		if !categories.Complete(scoreMax) {
			writeError(w, http.StatusBadRequest, "every category must be scored between 1 and the maximum")
			return
		}
		if req.KeepStatus != contest.KeepStatusKeep && req.KeepStatus != contest.KeepStatusEliminate {
			writeError(w, http.StatusBadRequest, "keepStatus must be \"keep\" or \"eliminate\"")
			return
		}

		if _, err := store.GetContestant(r.Context(), req.ContestantID); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "contestant not found")
			} else {
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		state, err := store.ControlState(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !state.IsJudgingOpen {
			writeError(w, http.StatusConflict, "judging is closed")
			return
		}

		score := contest.Score{
			JudgeID:        judge.ID,
			ContestantID:   req.ContestantID,
			CategoryScores: categories,
			Total:          categories.Total(),
			KeepStatus:     req.KeepStatus,
		}
		score, err = store.InsertScore(r.Context(), score)
		if errors.Is(err, ErrAlreadySubmitted) {
			writeError(w, http.StatusConflict, "score already submitted for this contestant")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, ScoreResponse{
			ContestantID: score.ContestantID,
			Total:        score.Total,
			KeepStatus:   score.KeepStatus,
			SubmittedAt:  score.SubmittedAt,
		})
	}
}

// handleJudgeScores lists the judge's own submissions so a reloaded judge
// client can re-disable already-scored contestants.
func handleJudgeScores(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		judge := userFrom(r)

		scores, err := store.ListJudgeScores(r.Context(), judge.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := make([]ScoreResponse, 0, len(scores))
		for _, sc := range scores {
			resp = append(resp, ScoreResponse{
				ContestantID: sc.ContestantID,
				Total:        sc.Total,
				KeepStatus:   sc.KeepStatus,
				SubmittedAt:  sc.SubmittedAt,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
