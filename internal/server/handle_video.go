package server

import "net/http"

// VideoRequest updates the audience video controls. Both fields are optional;
// omitted fields keep their current value. Video changes apply immediately,
// they never count down.
type VideoRequest struct {
	VideoURL     *string `json:"videoUrl"`
	VideoPlaying *bool   `json:"videoPlaying"`
}

func handleVideo(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VideoRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.VideoURL == nil && req.VideoPlaying == nil {
			writeError(w, http.StatusBadRequest, "videoUrl or videoPlaying is required")
			return
		}

		state, err := store.ControlState(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if req.VideoURL != nil {
			state.VideoURL = *req.VideoURL
		}
		if req.VideoPlaying != nil {
			state.VideoPlaying = *req.VideoPlaying
		}
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
