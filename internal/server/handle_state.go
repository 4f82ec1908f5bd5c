package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/Yadyoyollo/rabopkanean-app/internal/contest"
)

// ContestantInfo is the public projection of a contestant.
type ContestantInfo struct {
	ID        string `json:"id"`
	Number    string `json:"number"`
	Name      string `json:"name"`
	Character string `json:"character"`
	ImageURL  string `json:"imageUrl"`
}

// ControlResponse is the wire form of the shared control state, resolved with
// the contestant records the viewers need to render it.
type ControlResponse struct {
	CurrentContestantID string          `json:"currentContestantId"`
	CurrentContestant   *ContestantInfo `json:"currentContestant,omitempty"`
	VideoURL            string          `json:"videoUrl"`
	VideoPlaying        bool            `json:"videoPlaying"`
	IsJudgingOpen       bool            `json:"isJudgingOpen"`
	ShowSummaryScreen   bool            `json:"showSummaryScreen"`
	IsCountingDown      bool            `json:"isCountingDown"`
	CountdownValue      int             `json:"countdownValue"`
	NextContestantID    string          `json:"nextContestantIdAfterCountdown,omitempty"`
	NextContestant      *ContestantInfo `json:"nextContestant,omitempty"`
}

func contestantInfo(c contest.Contestant) *ContestantInfo {
	return &ContestantInfo{
		ID:        c.ID,
		Number:    c.Number,
		Name:      c.Name,
		Character: c.Character,
		ImageURL:  c.ImageURL,
	}
}

func controlResponse(ctx context.Context, store Store) (ControlResponse, error) {
	state, err := store.ControlState(ctx)
	if err != nil {
		return ControlResponse{}, err
	}

	resp := ControlResponse{
		CurrentContestantID: state.CurrentContestantID,
		VideoURL:            state.VideoURL,
		VideoPlaying:        state.VideoPlaying,
		IsJudgingOpen:       state.IsJudgingOpen,
		ShowSummaryScreen:   state.ShowSummary,
	}
	if state.Countdown != nil {
		resp.IsCountingDown = true
		resp.CountdownValue = state.Countdown.Remaining
		resp.NextContestantID = state.Countdown.NextContestantID
	}

	// Resolve contestant records for display; a dangling id (contestant
	// deleted mid-show) degrades to the bare id.
	if resp.CurrentContestantID != "" {
		if c, err := store.GetContestant(ctx, resp.CurrentContestantID); err == nil {
			resp.CurrentContestant = contestantInfo(c)
		} else if !errors.Is(err, ErrNotFound) {
			return ControlResponse{}, err
		}
	}
	if resp.NextContestantID != "" {
		if c, err := store.GetContestant(ctx, resp.NextContestantID); err == nil {
			resp.NextContestant = contestantInfo(c)
		} else if !errors.Is(err, ErrNotFound) {
			return ControlResponse{}, err
		}
	}

	return resp, nil
}

func handleState(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := controlResponse(r.Context(), store)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
