package server

import "net/http"

// handleListContestants is the audience-readable contestant list, ordered by
// display number.
func handleListContestants(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contestants, err := store.ListContestants(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := make([]ContestantInfo, 0, len(contestants))
		for _, c := range contestants {
			resp = append(resp, *contestantInfo(c))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
